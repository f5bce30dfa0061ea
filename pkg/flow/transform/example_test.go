package transform_test

import (
	"fmt"

	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/flow/transform"
)

func ExampleAssignDepths() {
	g, _ := flow.New(
		[]flow.Node{{ID: "Oil"}, {ID: "Refinery"}, {ID: "Transport"}},
		[]flow.Link{
			{Source: "Oil", Target: "Refinery", Value: 50},
			{Source: "Refinery", Target: "Transport", Value: 45},
		},
	)

	l, err := transform.AssignDepths(g, nil)
	if err != nil {
		panic(err)
	}
	for i, n := range g.Nodes() {
		fmt.Println(n.ID, l.Depth[i])
	}
	// Output:
	// Oil 0
	// Refinery 1
	// Transport 2
}

func ExampleBackEdges() {
	g, _ := flow.New(
		[]flow.Node{{ID: "A"}, {ID: "B"}},
		[]flow.Link{
			{Source: "A", Target: "B", Value: 3},
			{Source: "B", Target: "A", Value: 1},
		},
	)

	back := transform.BackEdges(g)
	l, _ := transform.AssignDepths(g, back)
	fmt.Println(len(back), l.Depth)
	// Output: 1 [0 1]
}
