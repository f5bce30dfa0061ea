package pipeline

import (
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/render/nodelink"
	"github.com/matzehuels/sankey/pkg/sankey"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout generates a serializable layout for any visualization type.
// Options must have been validated with [Options.ValidateForLayout].
func GenerateLayout(g *flow.Graph, opts Options) (graph.Layout, error) {
	if opts.IsNodelink() {
		return generateNodelinkLayout(g, opts), nil
	}
	return generateSankeyLayout(g, opts)
}

// generateSankeyLayout computes the layout inside the margin and exports
// it in frame coordinates.
func generateSankeyLayout(g *flow.Graph, opts Options) (graph.Layout, error) {
	m := deref(opts.Margin)
	w := opts.Width - 2*m
	h := opts.Height - 2*m

	l, err := sankey.Compute(g, w, h, opts.SankeyOptions()...)
	if err != nil {
		return graph.Layout{}, errors.Classify(err)
	}

	return graph.FromSankey(l, graph.ExportOptions{
		Margin: m,
		Style:  opts.Style,
		Align:  opts.Align,
	}), nil
}

func generateNodelinkLayout(g *flow.Graph, opts Options) graph.Layout {
	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})
	return nodelink.Export(dot, opts.Width, opts.Height, opts.Style)
}
