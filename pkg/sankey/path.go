package sankey

import (
	"fmt"
	"strings"
)

// Point is a position in layout coordinates.
type Point struct {
	X, Y float64
}

// Path is a horizontal cubic Bézier S-curve of a given stroke width.
// Both control points share the horizontal midpoint, so the curve leaves
// and enters horizontally.
type Path struct {
	Source, Target Point
	C1, C2         Point
	Width          float64
}

// LinkPath builds the curve from (x0, y0) to (x1, y1) with control points
// (xm, y0) and (xm, y1), xm = (x0+x1)/2.
func LinkPath(x0, y0, x1, y1, width float64) Path {
	xm := (x0 + x1) / 2
	return Path{
		Source: Point{x0, y0},
		Target: Point{x1, y1},
		C1:     Point{xm, y0},
		C2:     Point{xm, y1},
		Width:  width,
	}
}

// SVG returns the path data of the center line, suitable for a stroked
// <path d="...">.
func (p Path) SVG() string {
	return fmt.Sprintf("M%.2f,%.2fC%.2f,%.2f %.2f,%.2f %.2f,%.2f",
		p.Source.X, p.Source.Y, p.C1.X, p.C1.Y, p.C2.X, p.C2.Y, p.Target.X, p.Target.Y)
}

// Ribbon returns the path data of the band outline: the top edge forward,
// the bottom edge back, closed. Fill it instead of stroking.
func (p Path) Ribbon() string {
	h := p.Width / 2
	top := p.offset(-h)
	bot := p.offset(h)

	var sb strings.Builder
	fmt.Fprintf(&sb, "M%.2f,%.2fC%.2f,%.2f %.2f,%.2f %.2f,%.2f",
		top.Source.X, top.Source.Y, top.C1.X, top.C1.Y, top.C2.X, top.C2.Y, top.Target.X, top.Target.Y)
	fmt.Fprintf(&sb, "L%.2f,%.2fC%.2f,%.2f %.2f,%.2f %.2f,%.2fZ",
		bot.Target.X, bot.Target.Y, bot.C2.X, bot.C2.Y, bot.C1.X, bot.C1.Y, bot.Source.X, bot.Source.Y)
	return sb.String()
}

// At evaluates the curve at t in [0, 1].
func (p Path) At(t float64) Point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return Point{
		X: a*p.Source.X + b*p.C1.X + c*p.C2.X + d*p.Target.X,
		Y: a*p.Source.Y + b*p.C1.Y + c*p.C2.Y + d*p.Target.Y,
	}
}

func (p Path) offset(dy float64) Path {
	return Path{
		Source: Point{p.Source.X, p.Source.Y + dy},
		Target: Point{p.Target.X, p.Target.Y + dy},
		C1:     Point{p.C1.X, p.C1.Y + dy},
		C2:     Point{p.C2.X, p.C2.Y + dy},
		Width:  p.Width,
	}
}
