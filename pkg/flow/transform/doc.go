// Package transform assigns flow graph nodes to columns.
//
// # Overview
//
// A Sankey diagram places every node in a vertical column such that each
// link runs strictly left to right. This package computes that column index
// (the depth) for every node of a [flow.Graph] without modifying the graph.
//
// # Longest-Path Layering
//
// [AssignDepths] runs Kahn's algorithm over the links: nodes without incoming
// links sit at depth 0, every other node sits at one plus the maximum depth
// of its sources. The result is a [Layering] indexed by node insertion order.
//
// # Alignment
//
// [Realign] moves nodes between columns without breaking the left-to-right
// property. [AlignLeft] keeps the longest-path depth, [AlignRight] pushes
// nodes toward the last column, [AlignJustify] moves only the sinks to the
// last column and [AlignCenter] pulls pure sources next to their targets.
//
// # Cycles
//
// Layering is undefined on cyclic input and [AssignDepths] reports
// [flow.ErrCyclicGraph]. Callers that prefer to draw cyclic graphs anyway
// can compute [BackEdges] and pass them as the ignore set; those links are
// then skipped for layering only.
package transform
