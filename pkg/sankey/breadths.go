package sankey

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/sankey/pkg/flow"
)

// computeNodeDepths fixes the height scale and stacks every column in input
// order. Leftover space is spread evenly between and around the nodes.
// Link values that are finite on their own can still overflow when summed;
// such graphs are rejected with flow.ErrInvalidValue.
func (b *builder) computeNodeDepths(padding float64) error {
	if len(b.Nodes) == 0 {
		return nil
	}

	maxNodes, maxTotal := 0, 0.0
	for _, col := range b.Columns {
		maxNodes = max(maxNodes, len(col))
		total := 0.0
		for _, i := range col {
			total += b.Nodes[i].Value
		}
		if math.IsInf(total, 0) || math.IsNaN(total) {
			return fmt.Errorf("%w: column total overflows", flow.ErrInvalidValue)
		}
		maxTotal = max(maxTotal, total)
	}

	avail := b.Height - float64(maxNodes-1)*padding
	if !(avail > 0) {
		return fmt.Errorf("%w: %d nodes with padding %v do not fit in height %v",
			ErrDegenerateCanvas, maxNodes, padding, b.Height)
	}
	if maxTotal > 0 {
		b.Scale = avail / maxTotal
	}

	for _, col := range b.Columns {
		y := 0.0
		for _, i := range col {
			n := &b.Nodes[i]
			n.Y0 = y
			n.Y1 = y + n.Value*b.Scale
			y = n.Y1 + padding
		}
		gap := (b.Height - y + padding) / float64(len(col)+1)
		for k, i := range col {
			b.shift(i, gap*float64(k+1))
			b.Nodes[i].Order = k
		}
	}
	return nil
}

// relax moves nodes toward the flow-weighted centers of their neighbors.
// Each iteration sweeps left to right over incoming links, then right to
// left over outgoing links.
func (b *builder) relax(iterations int, padding float64) {
	for range iterations {
		for c := 1; c < len(b.Columns); c++ {
			for _, i := range b.Columns[c] {
				if y, ok := b.weightedCenter(b.Nodes[i].Incoming, true); ok {
					b.moveCenter(i, y)
				}
			}
			b.resolveCollisions(c, padding)
		}
		for c := len(b.Columns) - 2; c >= 0; c-- {
			for _, i := range b.Columns[c] {
				if y, ok := b.weightedCenter(b.Nodes[i].Outgoing, false); ok {
					b.moveCenter(i, y)
				}
			}
			b.resolveCollisions(c, padding)
		}
	}
}

// weightedCenter averages the centers of the far ends of links, weighted by
// link value. Cyclic links are skipped. ok is false when no link remains.
func (b *builder) weightedCenter(links []int, fromSource bool) (y float64, ok bool) {
	// Running mean, so value*center never overflows for huge values.
	var weight float64
	for _, li := range links {
		if b.ignore[li] {
			continue
		}
		link := b.Links[li]
		other := link.Target
		if fromSource {
			other = link.Source
		}
		weight += link.Value
		y += (b.Nodes[b.index[other]].Center() - y) * (link.Value / weight)
	}
	return y, weight > 0
}

// resolveCollisions reorders column c by center and pushes nodes apart so
// they keep at least padding between them and stay inside [0, Height].
// The column is then centered vertically as a whole.
func (b *builder) resolveCollisions(c int, padding float64) {
	col := b.Columns[c]
	if len(col) == 0 {
		return
	}
	slices.SortStableFunc(col, func(x, y int) int {
		return cmp.Compare(b.Nodes[x].Center(), b.Nodes[y].Center())
	})

	y := 0.0
	for _, i := range col {
		n := &b.Nodes[i]
		if dy := y - n.Y0; dy > 0 {
			b.shift(i, dy)
		}
		y = n.Y1 + padding
	}

	y = b.Height
	for k := len(col) - 1; k >= 0; k-- {
		n := &b.Nodes[col[k]]
		if dy := n.Y1 - y; dy > 0 {
			b.shift(col[k], -dy)
		}
		y = n.Y0 - padding
	}

	top, bottom := b.Nodes[col[0]].Y0, b.Nodes[col[len(col)-1]].Y1
	if dy := (b.Height - bottom - top) / 2; dy != 0 {
		for _, i := range col {
			b.shift(i, dy)
		}
	}

	for k, i := range col {
		b.Nodes[i].Order = k
	}
}

func (b *builder) moveCenter(i int, y float64) {
	b.shift(i, y-b.Nodes[i].Center())
}

func (b *builder) shift(i int, dy float64) {
	b.Nodes[i].Y0 += dy
	b.Nodes[i].Y1 += dy
}
