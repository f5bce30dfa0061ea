package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/render/nodelink"
)

func ExampleToDOT() {
	g, _ := flow.New(
		[]flow.Node{{ID: "solar"}, {ID: "grid"}},
		[]flow.Link{{Source: "solar", Target: "grid", Value: 4}},
	)

	dot := nodelink.ToDOT(g, nodelink.Options{MaxPenWidth: 8})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "solar" -> "grid" [penwidth=8.00, label="4"];
}
