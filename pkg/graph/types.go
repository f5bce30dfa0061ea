package graph

import (
	"maps"

	"github.com/matzehuels/sankey/pkg/flow"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visualization types.
const (
	VizTypeSankey   = "sankey"
	VizTypeNodelink = "nodelink"
)

// Visual styles for rendering.
const (
	StyleSimple = "simple" // stroked center lines, as drawn by d3-sankey
	StyleRibbon = "ribbon" // filled band outlines
)

// Input formats for graph files.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// =============================================================================
// Graph - Flow Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for flow graphs.
// Used for input files, API requests, and cache keys.
//
// Node and link order is significant: it is the initial vertical order of
// nodes within a column and the tie-breaker for link anchors.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes" validate:"required,dive"`
	Links []Link `json:"links" yaml:"links" validate:"dive"`
}

// Node is a serialized flow node.
type Node struct {
	ID    string         `json:"id" yaml:"id" validate:"required"`
	Label string         `json:"label,omitempty" yaml:"label,omitempty"` // Display label (defaults to ID)
	Meta  map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Link is a serialized flow link.
type Link struct {
	Source string  `json:"source" yaml:"source" validate:"required"`
	Target string  `json:"target" yaml:"target" validate:"required"`
	Value  float64 `json:"value" yaml:"value"`
}

// =============================================================================
// flow.Graph ↔ Graph Conversion
// =============================================================================

// FromFlow converts a flow graph to its serialization format.
// Nodes and links keep their insertion order.
func FromFlow(g *flow.Graph) Graph {
	nodes := g.Nodes()
	links := g.Links()
	out := Graph{
		Nodes: make([]Node, len(nodes)),
		Links: make([]Link, len(links)),
	}
	for i, n := range nodes {
		out.Nodes[i] = Node{ID: n.ID, Label: n.Label, Meta: cleanMeta(n.Meta)}
	}
	for i, l := range links {
		out.Links[i] = Link{Source: l.Source, Target: l.Target, Value: l.Value}
	}
	return out
}

// ToFlow validates a serialized graph and converts it to a flow graph.
// Errors carry a code from pkg/errors: INVALID_INPUT for structural
// problems, or the code matching the violated graph rule.
func ToFlow(gj Graph) (*flow.Graph, error) {
	if err := Validate(gj); err != nil {
		return nil, err
	}

	nodes := make([]flow.Node, len(gj.Nodes))
	for i, nj := range gj.Nodes {
		nodes[i] = flow.Node{ID: nj.ID, Label: nj.Label, Meta: maps.Clone(nj.Meta)}
	}
	links := make([]flow.Link, len(gj.Links))
	for i, lj := range gj.Links {
		links[i] = flow.Link{Source: lj.Source, Target: lj.Target, Value: lj.Value}
	}

	g, err := flow.New(nodes, links)
	if err != nil {
		return nil, classify(err)
	}
	return g, nil
}

// cleanMeta returns nil for empty metadata so it is omitted on output.
func cleanMeta(m flow.Metadata) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return maps.Clone(m)
}
