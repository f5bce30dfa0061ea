package flow

import (
	"errors"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// FindCycle returns the IDs of the nodes in one strongly connected component
// that contains a directed cycle, or nil if the graph is acyclic.
//
// When several components are cyclic, the one containing the earliest
// inserted node is reported. IDs are returned in insertion order.
func (g *Graph) FindCycle() []string {
	if len(g.links) == 0 {
		return nil
	}

	dg := simple.NewDirectedGraph()
	for i := range g.nodes {
		dg.AddNode(simple.Node(i))
	}
	for _, l := range g.links {
		from, to := g.index[l.Source], g.index[l.Target]
		if from == to || dg.HasEdgeFromTo(int64(from), int64(to)) {
			continue
		}
		dg.SetEdge(dg.NewEdge(simple.Node(from), simple.Node(to)))
	}

	_, err := topo.SortStabilized(dg, byID)
	var unorderable topo.Unorderable
	if !errors.As(err, &unorderable) || len(unorderable) == 0 {
		return nil
	}

	var best []int
	for _, component := range unorderable {
		members := make([]int, len(component))
		for i, n := range component {
			members[i] = int(n.ID())
		}
		slices.Sort(members)
		if best == nil || members[0] < best[0] {
			best = members
		}
	}

	ids := make([]string, len(best))
	for i, idx := range best {
		ids[i] = g.nodes[idx].ID
	}
	return ids
}

// byID orders gonum nodes by ID so the sort is independent of map iteration.
func byID(nodes []graph.Node) {
	slices.SortFunc(nodes, func(a, b graph.Node) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})
}
