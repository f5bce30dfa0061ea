// Package flow provides the validated graph model behind Sankey layouts.
//
// # Overview
//
// A flow graph is a set of named nodes connected by directed, valued links.
// Link values are the flow magnitudes: in the rendered diagram a node is as
// tall as the larger of its total inflow and total outflow, and every link is
// as thick as its value.
//
// The graph is built once from external input and never modified by the
// layout stages downstream. Validation happens as nodes and links are added,
// so a [Graph] that was built without error is always structurally sound:
//
//   - node IDs are non-empty and unique
//   - every link references existing nodes ([ErrInvalidReference])
//   - no link connects a node to itself ([ErrSelfLoop])
//   - every link value is positive and finite ([ErrInvalidValue])
//
// Acyclicity is the one property that is checked on demand, since some
// callers tolerate cycles by ignoring back-edges. Use [Graph.Validate] or
// [Graph.FindCycle].
//
// # Basic Usage
//
//	g, err := flow.New(
//	    []flow.Node{{ID: "solar"}, {ID: "grid"}, {ID: "homes"}},
//	    []flow.Link{
//	        {Source: "solar", Target: "grid", Value: 100},
//	        {Source: "grid", Target: "homes", Value: 80},
//	    },
//	)
//
// Query the structure with [Graph.Outgoing] and [Graph.Incoming], which return
// link indices in input order, and with [Graph.InflowOf], [Graph.OutflowOf]
// and [Graph.ValueOf].
//
// # Ordering
//
// Everything in this package preserves input order. Nodes are returned in the
// order they were added and adjacency lists follow link input order. Layout
// determinism depends on this.
//
// # Concurrency
//
// A Graph is not safe for concurrent mutation. Once built, concurrent reads
// are safe.
package flow
