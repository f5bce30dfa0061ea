package sankey

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/flow/transform"
)

var (
	// ErrDegenerateCanvas is returned when the drawing area cannot hold the
	// graph: a non-positive size, a width smaller than one node, columns
	// closer than one node, or no height left after padding.
	ErrDegenerateCanvas = errors.New("degenerate canvas")

	// ErrInvalidOptions is returned for out-of-range options.
	ErrInvalidOptions = errors.New("invalid layout options")
)

// Node is a laid out flow node.
type Node struct {
	ID    string
	Label string
	Depth int     // column index
	Order int     // position within the column, top to bottom
	Value float64 // max(inflow, outflow)

	X0, X1 float64 // horizontal extent, X1 = X0 + node thickness
	Y0, Y1 float64 // vertical extent, Y1 - Y0 = Value * scale

	Incoming []int // indices into Layout.Links, input order
	Outgoing []int // indices into Layout.Links, input order
}

// Center is the vertical midpoint of the node.
func (n Node) Center() float64 { return (n.Y0 + n.Y1) / 2 }

// Height is the vertical extent of the node.
func (n Node) Height() float64 { return n.Y1 - n.Y0 }

// Tooltip returns "<id>: <value>".
func (n Node) Tooltip() string { return n.ID + ": " + formatValue(n.Value) }

// Link is a laid out flow link.
type Link struct {
	Index  int // position in the input link list
	Source string
	Target string
	Value  float64
	Width  float64 // band thickness, Value * scale
	Y0     float64 // center of the band where it leaves the source
	Y1     float64 // center of the band where it enters the target
	Cyclic bool    // ignored for layering under CycleBreak
}

// Tooltip returns "<source> → <target>: <value>".
func (l Link) Tooltip() string {
	return l.Source + " → " + l.Target + ": " + formatValue(l.Value)
}

// Layout is the result of [Compute]. Coordinates are relative to the
// drawing area: x in [0, Width], y in [0, Height], y growing downward.
type Layout struct {
	Width  float64
	Height float64
	Scale  float64 // pixels per unit of flow

	Nodes   []Node  // input order
	Links   []Link  // input order
	Columns [][]int // node indices per column, top to bottom

	index map[string]int
}

// Node returns the laid out node with the given ID.
func (l *Layout) Node(id string) (Node, bool) {
	i, ok := l.index[id]
	if !ok {
		return Node{}, false
	}
	return l.Nodes[i], true
}

// Path returns the S-curve of link i, from the right edge of its source to
// the left edge of its target.
func (l *Layout) Path(i int) Path {
	link := l.Links[i]
	s := l.Nodes[l.index[link.Source]]
	t := l.Nodes[l.index[link.Target]]
	return LinkPath(s.X1, link.Y0, t.X0, link.Y1, link.Width)
}

// Compute lays out g inside a width × height drawing area.
//
// The graph is not modified and every call starts from scratch, so equal
// inputs yield equal layouts. Errors wrap [flow.ErrCyclicGraph],
// [flow.ErrInvalidValue] (node values overflowing), [ErrDegenerateCanvas] or
// [ErrInvalidOptions].
func Compute(g *flow.Graph, width, height float64, opts ...Option) (*Layout, error) {
	cfg := newConfig(opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return nil, fmt.Errorf("%w: size %vx%v", ErrDegenerateCanvas, width, height)
	}
	if width < cfg.thickness {
		return nil, fmt.Errorf("%w: width %v below node thickness %v", ErrDegenerateCanvas, width, cfg.thickness)
	}

	var ignore map[int]bool
	if cfg.cycles == CycleBreak {
		ignore = transform.BackEdges(g)
	}
	layering, err := transform.AssignDepths(g, ignore)
	if err != nil {
		return nil, err
	}
	if layering, err = transform.Realign(g, layering, cfg.align, ignore); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	l := newBuilder(g, layering, ignore, width, height, cfg.label)
	if err := l.computeNodeBreadths(layering.MaxDepth, cfg.thickness); err != nil {
		return nil, err
	}
	if err := l.computeNodeDepths(cfg.padding); err != nil {
		return nil, err
	}
	l.relax(cfg.iterations, cfg.padding)
	l.computeLinkBreadths()
	return l.Layout, nil
}

// builder holds the state of one Compute call.
type builder struct {
	*Layout
	ignore map[int]bool
}

func newBuilder(g *flow.Graph, layering transform.Layering, ignore map[int]bool, width, height float64, label LabelFunc) *builder {
	nodes := g.Nodes()
	l := &Layout{
		Width:  width,
		Height: height,
		Nodes:  make([]Node, len(nodes)),
		Links:  make([]Link, g.LinkCount()),
		index:  make(map[string]int, len(nodes)),
	}
	for i, n := range nodes {
		l.index[n.ID] = i
		l.Nodes[i] = Node{
			ID:       n.ID,
			Label:    label(n),
			Depth:    layering.Depth[i],
			Value:    g.ValueOf(n.ID),
			Incoming: slices.Clone(g.Incoming(n.ID)),
			Outgoing: slices.Clone(g.Outgoing(n.ID)),
		}
	}
	for i, fl := range g.Links() {
		l.Links[i] = Link{
			Index:  i,
			Source: fl.Source,
			Target: fl.Target,
			Value:  fl.Value,
			Cyclic: ignore[i],
		}
	}
	l.Columns = layering.Columns()
	return &builder{Layout: l, ignore: ignore}
}

// computeNodeBreadths assigns x coordinates from the column index.
func (b *builder) computeNodeBreadths(maxDepth int, thickness float64) error {
	spacing := 0.0
	if maxDepth > 0 {
		spacing = (b.Width - thickness) / float64(maxDepth)
		if spacing < thickness {
			return fmt.Errorf("%w: column spacing %.2f below node thickness %v",
				ErrDegenerateCanvas, spacing, thickness)
		}
	}
	for i := range b.Nodes {
		n := &b.Nodes[i]
		n.X0 = float64(n.Depth) * spacing
		n.X1 = n.X0 + thickness
	}
	return nil
}

func formatValue(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
