// Package sankey computes the geometry of a Sankey flow diagram.
//
// # Overview
//
// Given a validated [flow.Graph] and the size of a drawing area, [Compute]
// returns a [Layout] with a rectangle for every node and a band for every
// link. Node height and band thickness are proportional to flow, columns
// follow the direction of the links and bands are drawn as horizontal
// S-curves between the node edges.
//
// # Pipeline
//
//	flow.Graph → transform.AssignDepths → x per column → y per node → relax → link anchors
//
//  1. Columns come from [transform.AssignDepths], optionally realigned
//     with [WithAlign]. Column x is depth × (width - thickness) / maxDepth.
//  2. The scale k = (height - (n-1) × padding) / T uses the largest node
//     count n and the largest column total T over all columns, so no column
//     can overflow. Nodes are stacked in input order.
//  3. [WithIterations] sweeps move each node to the flow-weighted center of
//     its neighbors, left to right over incoming links and then right to
//     left over outgoing links. After each column the nodes are re-sorted,
//     pushed apart to keep the padding and the column is re-centered.
//  4. Bands are stacked on each node from the top, ordered by the position
//     of the node at the other end.
//
// The result is deterministic but heuristic: it does not minimise
// crossings.
//
// # Usage
//
//	l, err := sankey.Compute(g, 960, 500,
//	    sankey.WithNodePadding(16),
//	    sankey.WithAlign(transform.AlignJustify),
//	)
//	for i := range l.Links {
//	    d := l.Path(i).SVG()
//	    ...
//	}
//
// # Cycles
//
// Layout requires acyclic links. By default cyclic input fails with
// [flow.ErrCyclicGraph]. [WithCyclePolicy]([CycleBreak]) lays out cyclic
// graphs by ignoring depth-first back-edges for column assignment; those
// links are still drawn and reported with Link.Cyclic set.
//
// # Concurrency
//
// Compute has no shared state and never blocks. Concurrent calls on the same
// graph are safe because the graph is only read.
package sankey
