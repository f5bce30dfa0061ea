package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/observability"
)

// ParseGraph decodes and validates a graph document in the given format
// (graph.FormatJSON or graph.FormatYAML). Errors carry input error codes.
func ParseGraph(ctx context.Context, r io.Reader, format string) (*flow.Graph, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, format)
	start := time.Now()

	g, err := graph.ReadGraph(r, format)

	n := 0
	if g != nil {
		n = g.NodeCount()
	}
	hooks.OnParseComplete(ctx, format, n, time.Since(start), err)
	return g, err
}

// ParseGraphFile reads a graph file; the format follows the extension.
func ParseGraphFile(ctx context.Context, path string) (*flow.Graph, error) {
	format := graph.FormatFromPath(path)
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, format)
	start := time.Now()

	g, err := graph.ReadGraphFile(path)

	n := 0
	if g != nil {
		n = g.NodeCount()
	}
	hooks.OnParseComplete(ctx, format, n, time.Since(start), err)
	return g, err
}
