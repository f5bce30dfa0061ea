package sink

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo/float"

	"github.com/matzehuels/sankey/pkg/graph"
)

// Default colors, as drawn by the d3 sankey component.
const (
	DefaultNodeColor   = "#666"
	DefaultLinkColor   = "#999"
	DefaultLinkOpacity = 0.35
	DefaultBackground  = "transparent"
)

const (
	labelOffset   = 6
	labelFontSize = "12px"
	cornerRadius  = 3
	minExtent     = 1
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style       string
	background  string
	nodeColor   string
	linkColor   string
	linkOpacity float64
	tooltips    bool
}

// WithStyle overrides the style recorded in the layout ("simple" or "ribbon").
func WithStyle(s string) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithBackground fills the frame with a color.
func WithBackground(c string) SVGOption { return func(r *svgRenderer) { r.background = c } }

// WithNodeColor sets the fill of node rectangles (default [DefaultNodeColor]).
func WithNodeColor(c string) SVGOption { return func(r *svgRenderer) { r.nodeColor = c } }

// WithLinkColor sets the stroke of simple links or the fill of ribbons
// (default [DefaultLinkColor]).
func WithLinkColor(c string) SVGOption { return func(r *svgRenderer) { r.linkColor = c } }

// WithLinkOpacity sets link opacity in [0, 1] (default [DefaultLinkOpacity]).
func WithLinkOpacity(o float64) SVGOption { return func(r *svgRenderer) { r.linkOpacity = o } }

// WithoutTooltips omits the <title> elements.
func WithoutTooltips() SVGOption { return func(r *svgRenderer) { r.tooltips = false } }

// RenderSVG draws a sankey layout. Links are drawn below nodes; labels sit
// right of nodes in the left half of the frame and left of nodes otherwise.
func RenderSVG(l graph.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(l, opts...)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(l.Width, l.Height,
		fmt.Sprintf(`viewBox="0 0 %.2f %.2f"`, l.Width, l.Height))

	if r.background != "" && r.background != DefaultBackground {
		canvas.Rect(0, 0, l.Width, l.Height, fmt.Sprintf(`fill="%s"`, r.background))
	}

	r.renderLinks(canvas, l.Links)
	r.renderNodes(canvas, l.Nodes)
	r.renderLabels(canvas, l.Nodes, l.Width)

	canvas.End()
	return buf.Bytes()
}

func newSVGRenderer(l graph.Layout, opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		style:       l.Style,
		background:  DefaultBackground,
		nodeColor:   DefaultNodeColor,
		linkColor:   DefaultLinkColor,
		linkOpacity: DefaultLinkOpacity,
		tooltips:    true,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.style == "" {
		r.style = graph.StyleSimple
	}
	return r
}

func (r svgRenderer) renderLinks(canvas *svg.SVG, links []graph.Band) {
	if r.style == graph.StyleRibbon {
		canvas.Group(`class="links"`, fmt.Sprintf(`fill="%s"`, r.linkColor),
			fmt.Sprintf(`fill-opacity="%.2f"`, r.linkOpacity))
	} else {
		canvas.Group(`class="links"`, `fill="none"`, fmt.Sprintf(`stroke="%s"`, r.linkColor),
			fmt.Sprintf(`stroke-opacity="%.2f"`, r.linkOpacity))
	}

	for _, b := range links {
		canvas.Group(`class="link"`)
		if r.tooltips {
			canvas.Title(b.Tooltip)
		}
		if r.style == graph.StyleRibbon {
			canvas.Path(b.Ribbon)
		} else {
			canvas.Path(b.Path, fmt.Sprintf(`stroke-width="%.2f"`, max(minExtent, b.Width)))
		}
		canvas.Gend()
	}
	canvas.Gend()
}

func (r svgRenderer) renderNodes(canvas *svg.SVG, nodes []graph.Box) {
	canvas.Group(`class="nodes"`, fmt.Sprintf(`fill="%s"`, r.nodeColor))
	for _, n := range nodes {
		canvas.Group(`class="node"`)
		if r.tooltips {
			canvas.Title(n.Tooltip)
		}
		canvas.Roundrect(n.X0, n.Y0, max(minExtent, n.X1-n.X0), max(minExtent, n.Y1-n.Y0),
			cornerRadius, cornerRadius)
		canvas.Gend()
	}
	canvas.Gend()
}

func (r svgRenderer) renderLabels(canvas *svg.SVG, nodes []graph.Box, width float64) {
	canvas.Group(`class="labels"`, fmt.Sprintf(`font-size="%s"`, labelFontSize))
	for _, n := range nodes {
		x, anchor := n.X1+labelOffset, "start"
		if n.X0 >= width/2 {
			x, anchor = n.X0-labelOffset, "end"
		}
		canvas.Text(x, (n.Y0+n.Y1)/2, n.Label, `dy="0.35em"`, fmt.Sprintf(`text-anchor="%s"`, anchor))
	}
	canvas.Gend()
}
