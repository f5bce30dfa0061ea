package pipeline

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/observability"
)

// Relayouter recomputes the layout of one graph for changing frame sizes.
//
// At most one computation runs at a time. Every call takes a generation
// number when it starts; a call that is still waiting for the lock when a
// newer call arrives returns a SUPERSEDED error without computing. Each
// computation starts from the canonical graph, so results never depend on
// earlier calls.
type Relayouter struct {
	runner *Runner
	graph  *flow.Graph
	opts   Options

	mu  sync.Mutex
	gen atomic.Uint64
}

// NewRelayouter binds a graph and base options. Width and height in opts
// are replaced on each call.
func NewRelayouter(r *Runner, g *flow.Graph, opts Options) *Relayouter {
	return &Relayouter{runner: r, graph: g, opts: opts}
}

// Relayout computes the layout for a width × height frame.
func (r *Relayouter) Relayout(ctx context.Context, width, height float64) (graph.Layout, error) {
	gen := r.gen.Add(1)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return graph.Layout{}, err
	}
	if r.gen.Load() != gen {
		observability.Pipeline().OnSuperseded(ctx)
		return graph.Layout{}, errors.New(errors.ErrCodeSuperseded, "layout request superseded by a newer one")
	}

	opts := r.opts
	opts.Width, opts.Height = width, height
	return r.runner.GenerateLayout(ctx, r.graph, opts)
}

// Generation returns the number of Relayout calls made so far.
func (r *Relayouter) Generation() uint64 {
	return r.gen.Load()
}
