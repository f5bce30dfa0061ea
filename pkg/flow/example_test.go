package flow_test

import (
	"errors"
	"fmt"

	"github.com/matzehuels/sankey/pkg/flow"
)

func Example() {
	g, err := flow.New(
		[]flow.Node{{ID: "Coal"}, {ID: "Gas"}, {ID: "Electricity"}},
		[]flow.Link{
			{Source: "Coal", Target: "Electricity", Value: 200},
			{Source: "Gas", Target: "Electricity", Value: 130},
		},
	)
	if err != nil {
		panic(err)
	}

	fmt.Println("nodes:", g.NodeCount())
	fmt.Println("links:", g.LinkCount())
	fmt.Println("electricity:", g.ValueOf("Electricity"))
	// Output:
	// nodes: 3
	// links: 2
	// electricity: 330
}

func ExampleNew_invalidReference() {
	_, err := flow.New(
		[]flow.Node{{ID: "Coal"}},
		[]flow.Link{{Source: "Coal", Target: "Steel", Value: 1}},
	)
	fmt.Println(errors.Is(err, flow.ErrInvalidReference))
	// Output: true
}

func ExampleGraph_Validate() {
	g, _ := flow.New(
		[]flow.Node{{ID: "A"}, {ID: "B"}},
		[]flow.Link{
			{Source: "A", Target: "B", Value: 1},
			{Source: "B", Target: "A", Value: 1},
		},
	)
	err := g.Validate()
	fmt.Println(errors.Is(err, flow.ErrCyclicGraph))
	fmt.Println(g.FindCycle())
	// Output:
	// true
	// [A B]
}
