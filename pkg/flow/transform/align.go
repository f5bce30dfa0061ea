package transform

import (
	"fmt"
	"strings"

	"github.com/matzehuels/sankey/pkg/flow"
)

// Align selects how nodes are distributed over columns.
type Align int

const (
	// AlignLeft places every node at its longest-path depth.
	AlignLeft Align = iota
	// AlignRight places every node as far right as its descendants allow.
	AlignRight
	// AlignJustify is AlignLeft with every sink moved to the last column.
	AlignJustify
	// AlignCenter is AlignLeft with every pure source moved next to its
	// closest target.
	AlignCenter
)

var alignNames = [...]string{"left", "right", "justify", "center"}

func (a Align) String() string {
	if a < 0 || int(a) >= len(alignNames) {
		return fmt.Sprintf("Align(%d)", int(a))
	}
	return alignNames[a]
}

// ParseAlign converts a case-insensitive alignment name. The empty string
// means [AlignLeft].
func ParseAlign(s string) (Align, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return AlignLeft, nil
	}
	for i, name := range alignNames {
		if name == s {
			return Align(i), nil
		}
	}
	return AlignLeft, fmt.Errorf("unknown alignment %q (want one of %s)", s, strings.Join(alignNames[:], ", "))
}

// Realign moves nodes of a left-aligned layering according to a. The
// number of columns does not change and depth(target) > depth(source) keeps
// holding for every link not in ignore.
func Realign(g *flow.Graph, l Layering, a Align, ignore map[int]bool) (Layering, error) {
	switch a {
	case AlignLeft:
		return l, nil
	case AlignRight:
		return alignRight(g, l, ignore)
	case AlignJustify:
		return alignJustify(g, l, ignore), nil
	case AlignCenter:
		return alignCenter(g, l, ignore), nil
	default:
		return Layering{}, fmt.Errorf("unknown alignment %v", a)
	}
}

func alignRight(g *flow.Graph, l Layering, ignore map[int]bool) (Layering, error) {
	height, err := AssignHeights(g, ignore)
	if err != nil {
		return Layering{}, err
	}
	depth := make([]int, len(height))
	for i, h := range height {
		depth[i] = l.MaxDepth - h
	}
	return Layering{Depth: depth, MaxDepth: l.MaxDepth}, nil
}

func alignJustify(g *flow.Graph, l Layering, ignore map[int]bool) Layering {
	depth := make([]int, len(l.Depth))
	for i, n := range g.Nodes() {
		if countLinks(g.Outgoing(n.ID), ignore) > 0 {
			depth[i] = l.Depth[i]
		} else {
			depth[i] = l.MaxDepth
		}
	}
	return Layering{Depth: depth, MaxDepth: l.MaxDepth}
}

func alignCenter(g *flow.Graph, l Layering, ignore map[int]bool) Layering {
	depth := make([]int, len(l.Depth))
	for i, n := range g.Nodes() {
		switch {
		case countLinks(g.Incoming(n.ID), ignore) > 0:
			depth[i] = l.Depth[i]
		case countLinks(g.Outgoing(n.ID), ignore) > 0:
			closest := l.MaxDepth
			for _, li := range g.Outgoing(n.ID) {
				if ignore[li] {
					continue
				}
				t, _ := g.Index(g.Link(li).Target)
				closest = min(closest, l.Depth[t])
			}
			depth[i] = closest - 1
		default:
			depth[i] = 0
		}
	}
	return Layering{Depth: depth, MaxDepth: l.MaxDepth}
}

func countLinks(links []int, ignore map[int]bool) int {
	n := 0
	for _, li := range links {
		if !ignore[li] {
			n++
		}
	}
	return n
}
