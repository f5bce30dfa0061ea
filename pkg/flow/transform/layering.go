package transform

import (
	"fmt"

	"github.com/matzehuels/sankey/pkg/flow"
)

// Layering is the column assignment of a flow graph.
type Layering struct {
	Depth    []int // column per node, indexed by insertion order
	MaxDepth int   // largest value in Depth; 0 for an empty graph
}

// Columns groups node indices by depth. Within a column nodes keep their
// insertion order.
func (l Layering) Columns() [][]int {
	if len(l.Depth) == 0 {
		return nil
	}
	cols := make([][]int, l.MaxDepth+1)
	for i, d := range l.Depth {
		cols[d] = append(cols[d], i)
	}
	return cols
}

// AssignDepths computes the longest-path depth of every node.
//
// Links whose index is in ignore are treated as absent. Pass nil to consider
// every link. Sources (no considered incoming links) are at depth 0 and every
// other node is one deeper than its deepest source, so for each considered
// link depth(target) > depth(source) holds.
//
// If the considered links contain a cycle, AssignDepths returns an error
// wrapping [flow.ErrCyclicGraph] that names the nodes of the cycle.
//
// Time complexity is O(V + E).
func AssignDepths(g *flow.Graph, ignore map[int]bool) (Layering, error) {
	order, err := topoOrder(g, ignore)
	if err != nil {
		return Layering{}, err
	}

	nodes := g.Nodes()
	depth := make([]int, len(nodes))
	maxDepth := 0
	for _, i := range order {
		for _, li := range g.Outgoing(nodes[i].ID) {
			if ignore[li] {
				continue
			}
			t, _ := g.Index(g.Link(li).Target)
			if d := depth[i] + 1; d > depth[t] {
				depth[t] = d
				maxDepth = max(maxDepth, d)
			}
		}
	}
	return Layering{Depth: depth, MaxDepth: maxDepth}, nil
}

// AssignHeights computes, for every node, the length of the longest path to a
// sink. Sinks have height 0. The ignore set has the same meaning as in
// [AssignDepths].
func AssignHeights(g *flow.Graph, ignore map[int]bool) ([]int, error) {
	order, err := topoOrder(g, ignore)
	if err != nil {
		return nil, err
	}

	nodes := g.Nodes()
	height := make([]int, len(nodes))
	for k := len(order) - 1; k >= 0; k-- {
		i := order[k]
		for _, li := range g.Outgoing(nodes[i].ID) {
			if ignore[li] {
				continue
			}
			t, _ := g.Index(g.Link(li).Target)
			height[i] = max(height[i], height[t]+1)
		}
	}
	return height, nil
}

// topoOrder returns node indices in Kahn order. Ready nodes are taken in
// insertion order so the result is deterministic.
func topoOrder(g *flow.Graph, ignore map[int]bool) ([]int, error) {
	nodes := g.Nodes()
	inDegree := make([]int, len(nodes))
	for i, n := range nodes {
		for _, li := range g.Incoming(n.ID) {
			if !ignore[li] {
				inDegree[i]++
			}
		}
	}

	queue := make([]int, 0, len(nodes))
	for i, d := range inDegree {
		if d == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, len(nodes))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		order = append(order, curr)

		for _, li := range g.Outgoing(nodes[curr].ID) {
			if ignore[li] {
				continue
			}
			t, _ := g.Index(g.Link(li).Target)
			inDegree[t]--
			if inDegree[t] == 0 {
				queue = append(queue, t)
			}
		}
	}

	if len(order) < len(nodes) {
		return nil, cycleError(g, ignore)
	}
	return order, nil
}

func cycleError(g *flow.Graph, ignore map[int]bool) error {
	if len(ignore) == 0 {
		if cycle := g.FindCycle(); cycle != nil {
			return fmt.Errorf("%w: %v", flow.ErrCyclicGraph, cycle)
		}
	}
	return flow.ErrCyclicGraph
}
