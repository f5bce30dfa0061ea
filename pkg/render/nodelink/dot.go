package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/render"
)

// DefaultMaxPenWidth is the stroke width of the heaviest edge.
const DefaultMaxPenWidth = 12.0

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes node throughput and metadata in node labels.
	// When false, only the display label is shown.
	Detailed bool

	// MaxPenWidth is the edge width given to the largest link value.
	// Other edges scale linearly down to a minimum of 1.
	MaxPenWidth float64
}

// ToDOT converts a flow graph to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// The graph flows left to right like a sankey diagram. Edge pen widths are
// proportional to link values and every edge is labelled with its value.
func ToDOT(g *flow.Graph, opts Options) string {
	maxPen := opts.MaxPenWidth
	if maxPen <= 0 {
		maxPen = DefaultMaxPenWidth
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#99999999\", fontsize=10];\n")
	buf.WriteString("  ranksep=1.0;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := fmtLabel(g, n, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, label)
	}

	buf.WriteString("\n")
	links := g.Links()
	maxValue := 0.0
	for _, l := range links {
		maxValue = max(maxValue, l.Value)
	}
	for _, l := range links {
		fmt.Fprintf(&buf, "  %q -> %q [penwidth=%.2f, label=%q];\n",
			l.Source, l.Target, penWidth(l.Value, maxValue, maxPen), fmtValue(l.Value))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func penWidth(v, maxValue, maxPen float64) float64 {
	if maxValue <= 0 {
		return 1
	}
	return max(1, maxPen*v/maxValue)
}

func fmtLabel(g *flow.Graph, n flow.Node, detailed bool) string {
	if !detailed {
		return n.DisplayLabel()
	}

	parts := []string{"value: " + fmtValue(g.ValueOf(n.ID))}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}

	return n.DisplayLabel() + "\n" + strings.Join(parts, "\n")
}

func fmtValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one whose
// viewBox starts at the origin, so the SVG scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
