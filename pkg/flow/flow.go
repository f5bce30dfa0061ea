package flow

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidReference is returned by [Graph.AddLink] when the source or
	// target of a link is not a known node.
	ErrInvalidReference = errors.New("link references unknown node")

	// ErrSelfLoop is returned by [Graph.AddLink] when source and target are
	// the same node.
	ErrSelfLoop = errors.New("link source and target are the same node")

	// ErrInvalidValue is returned by [Graph.AddLink] when the link value is
	// not a positive finite number.
	ErrInvalidValue = errors.New("link value must be positive and finite")

	// ErrCyclicGraph is returned by [Graph.Validate] when the links form a
	// directed cycle.
	ErrCyclicGraph = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to a node.
type Metadata map[string]any

// Node is a named vertex of the flow graph.
type Node struct {
	ID    string   // Unique identifier
	Label string   // Display text; empty means the ID is shown
	Meta  Metadata // Arbitrary metadata (never nil after AddNode)
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Link is a directed flow of Value from Source to Target.
type Link struct {
	Source string
	Target string
	Value  float64
}

// Graph is a validated set of nodes and directed valued links.
//
// The zero value is not usable - use [New] or [NewEmpty].
type Graph struct {
	nodes    []*Node
	index    map[string]int
	links    []Link
	outgoing map[string][]int // nodeID -> indices into links
	incoming map[string][]int // nodeID -> indices into links
}

// NewEmpty creates a graph without nodes or links.
func NewEmpty() *Graph {
	return &Graph{
		index:    make(map[string]int),
		outgoing: make(map[string][]int),
		incoming: make(map[string][]int),
	}
}

// New builds a graph from a node list and a link list, validating as it goes.
// The first invalid node or link aborts construction; the returned error
// wraps one of the package sentinels and names the offending element.
//
// New does not check for cycles. Call [Graph.Validate] for that.
func New(nodes []Node, links []Link) (*Graph, error) {
	g := NewEmpty()
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
	}
	for i, l := range links {
		if err := g.AddLink(l); err != nil {
			return nil, fmt.Errorf("link %d (%s → %s): %w", i, l.Source, l.Target, err)
		}
	}
	return g, nil
}

// AddNode appends a node. Returns ErrInvalidNodeID if the ID is empty or
// ErrDuplicateNodeID if it is already taken.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, &n)
	return nil
}

// AddLink appends a link between two existing nodes.
// Parallel links between the same pair are allowed and kept separate.
func (g *Graph) AddLink(l Link) error {
	if _, ok := g.index[l.Source]; !ok {
		return fmt.Errorf("%w: source %q", ErrInvalidReference, l.Source)
	}
	if _, ok := g.index[l.Target]; !ok {
		return fmt.Errorf("%w: target %q", ErrInvalidReference, l.Target)
	}
	if l.Source == l.Target {
		return ErrSelfLoop
	}
	if !(l.Value > 0) || math.IsInf(l.Value, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidValue, l.Value)
	}
	idx := len(g.links)
	g.links = append(g.links, l)
	g.outgoing[l.Source] = append(g.outgoing[l.Source], idx)
	g.incoming[l.Target] = append(g.incoming[l.Target], idx)
	return nil
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = *n
	}
	return out
}

// Links returns a copy of all links in insertion order.
func (g *Graph) Links() []Link { return slices.Clone(g.links) }

// Link returns the link at index i.
func (g *Graph) Link(i int) Link { return g.links[i] }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// LinkCount returns the number of links.
func (g *Graph) LinkCount() int { return len(g.links) }

// Node returns the node with the given ID and true, or a zero Node and false.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return *g.nodes[i], true
}

// Index returns the insertion position of the node with the given ID.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Outgoing returns the indices of links leaving the node, in input order.
// The returned slice must not be modified.
func (g *Graph) Outgoing(id string) []int { return g.outgoing[id] }

// Incoming returns the indices of links entering the node, in input order.
// The returned slice must not be modified.
func (g *Graph) Incoming(id string) []int { return g.incoming[id] }

// InflowOf returns the sum of values of links entering the node.
func (g *Graph) InflowOf(id string) float64 {
	var sum float64
	for _, i := range g.incoming[id] {
		sum += g.links[i].Value
	}
	return sum
}

// OutflowOf returns the sum of values of links leaving the node.
func (g *Graph) OutflowOf(id string) float64 {
	var sum float64
	for _, i := range g.outgoing[id] {
		sum += g.links[i].Value
	}
	return sum
}

// ValueOf returns the node value: the larger of its inflow and outflow.
// Isolated nodes have value 0.
func (g *Graph) ValueOf(id string) float64 {
	return max(g.InflowOf(id), g.OutflowOf(id))
}

// Sources returns nodes without incoming links, in insertion order.
func (g *Graph) Sources() []Node {
	var out []Node
	for _, n := range g.nodes {
		if len(g.incoming[n.ID]) == 0 {
			out = append(out, *n)
		}
	}
	return out
}

// Sinks returns nodes without outgoing links, in insertion order.
func (g *Graph) Sinks() []Node {
	var out []Node
	for _, n := range g.nodes {
		if len(g.outgoing[n.ID]) == 0 {
			out = append(out, *n)
		}
	}
	return out
}

// TotalValue returns the sum of all link values.
func (g *Graph) TotalValue() float64 {
	var sum float64
	for _, l := range g.links {
		sum += l.Value
	}
	return sum
}

// Validate reports whether the graph is acyclic. It returns an error wrapping
// ErrCyclicGraph that names the nodes of one offending cycle.
func (g *Graph) Validate() error {
	if cycle := g.FindCycle(); cycle != nil {
		return fmt.Errorf("%w: %v", ErrCyclicGraph, cycle)
	}
	return nil
}
