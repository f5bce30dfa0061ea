package transform

import "github.com/matzehuels/sankey/pkg/flow"

// BackEdges returns the indices of links that close a cycle during a
// depth-first traversal. Ignoring them leaves an acyclic set of links.
//
// The traversal starts from sources in insertion order, then from any node
// not yet visited, and follows outgoing links in input order, so the result
// is deterministic. An acyclic graph yields an empty set.
func BackEdges(g *flow.Graph) map[int]bool {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.NodeCount())
	back := make(map[int]bool)

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, li := range g.Outgoing(node) {
			child := g.Link(li).Target
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				back[li] = true
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	return back
}
