package sink

import (
	"context"

	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/render"
)

// RenderJSON serializes the layout itself.
func RenderJSON(l graph.Layout) ([]byte, error) {
	return graph.MarshalLayout(l)
}

// RenderPNG draws the layout as SVG and rasterizes it with rsvg-convert.
func RenderPNG(ctx context.Context, l graph.Layout, scale float64, opts ...SVGOption) ([]byte, error) {
	return render.ToPNG(ctx, RenderSVG(l, opts...), scale)
}

// RenderPDF draws the layout as SVG and converts it with rsvg-convert.
func RenderPDF(ctx context.Context, l graph.Layout, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(l, opts...))
}

// Render produces one output format. Unknown formats return an
// INVALID_FORMAT error.
func Render(ctx context.Context, l graph.Layout, format string, scale float64, opts ...SVGOption) ([]byte, error) {
	if err := render.ValidateFormat(format); err != nil {
		return nil, err
	}
	switch format {
	case render.FormatJSON:
		return RenderJSON(l)
	case render.FormatPNG:
		return RenderPNG(ctx, l, scale, opts...)
	case render.FormatPDF:
		return RenderPDF(ctx, l, opts...)
	default:
		return RenderSVG(l, opts...), nil
	}
}
