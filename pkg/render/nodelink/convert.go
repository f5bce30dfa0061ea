package nodelink

import (
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/graph"
)

// Engine is the Graphviz layout engine recorded in exported layouts.
const Engine = "dot"

// Export packages a DOT string into the unified layout format.
//
// Unlike sankey layouts, nodelink layouts carry no positions: Graphviz
// computes them while rendering. Width and height are the requested frame
// and are only informational.
func Export(dot string, width, height float64, style string) graph.Layout {
	return graph.Layout{
		VizType: graph.VizTypeNodelink,
		DOT:     dot,
		Width:   width,
		Height:  height,
		Engine:  Engine,
		Style:   style,
	}
}

// Parse returns the DOT source of a nodelink layout. A sankey layout gives
// INVALID_VIZ_TYPE and a layout without DOT gives INVALID_INPUT.
func Parse(layout graph.Layout) (string, error) {
	if layout.VizType != "" && layout.VizType != graph.VizTypeNodelink {
		return "", errors.New(errors.ErrCodeInvalidVizType, "layout is %q, not %q", layout.VizType, graph.VizTypeNodelink)
	}
	if layout.DOT == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "nodelink layout has no DOT source")
	}
	return layout.DOT, nil
}
