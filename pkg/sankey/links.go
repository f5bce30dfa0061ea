package sankey

import (
	"cmp"
	"slices"
)

// computeLinkBreadths assigns every link its thickness and its anchor on
// both end nodes. At each node the bands are stacked from the top, outgoing
// links ordered by target center and incoming links by source center so
// bands leave and enter without crossing at the node.
func (b *builder) computeLinkBreadths() {
	for i := range b.Links {
		b.Links[i].Width = b.Links[i].Value * b.Scale
	}

	for i := range b.Nodes {
		n := &b.Nodes[i]

		out := b.sortedByCenter(n.Outgoing, func(l Link) string { return l.Target })
		y := n.Y0
		for _, li := range out {
			w := b.Links[li].Width
			b.Links[li].Y0 = y + w/2
			y += w
		}

		in := b.sortedByCenter(n.Incoming, func(l Link) string { return l.Source })
		y = n.Y0
		for _, li := range in {
			w := b.Links[li].Width
			b.Links[li].Y1 = y + w/2
			y += w
		}
	}
}

// sortedByCenter returns a copy of links ordered by the center of the node
// picked by end, ties broken by link index.
func (b *builder) sortedByCenter(links []int, end func(Link) string) []int {
	out := slices.Clone(links)
	slices.SortFunc(out, func(x, y int) int {
		cx := b.Nodes[b.index[end(b.Links[x])]].Center()
		cy := b.Nodes[b.index[end(b.Links[y])]].Center()
		return cmp.Or(cmp.Compare(cx, cy), cmp.Compare(x, y))
	})
	return out
}
