package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/render/nodelink"
	"github.com/matzehuels/sankey/pkg/render/sink"
)

// RenderFromLayout generates output artifacts in the requested formats.
// Formats are rendered concurrently; the first failure cancels the rest.
func RenderFromLayout(ctx context.Context, layout graph.Layout, opts Options) (map[string][]byte, error) {
	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(ctx, layout, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, layout graph.Layout, format string, opts Options) ([]byte, error) {
	if layout.IsNodelink() {
		return renderNodelink(ctx, layout, format, opts)
	}
	return sink.Render(ctx, layout, format, opts.Scale, opts.SVGOptions()...)
}

// renderNodelink renders a nodelink layout. The layout must carry a DOT string.
func renderNodelink(ctx context.Context, layout graph.Layout, format string, opts Options) ([]byte, error) {
	dot, err := nodelink.Parse(layout)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot, opts.Scale)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	case FormatJSON:
		return graph.MarshalLayout(layout)
	}
	return nil, ValidateFormat(format)
}
