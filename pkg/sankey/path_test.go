package sankey

import (
	"strings"
	"testing"
)

func TestLinkPath(t *testing.T) {
	p := LinkPath(18, 100, 282, 40, 20)

	if p.C1 != (Point{150, 100}) || p.C2 != (Point{150, 40}) {
		t.Errorf("control points = %v %v, want (150,100) (150,40)", p.C1, p.C2)
	}
	if got, want := p.SVG(), "M18.00,100.00C150.00,100.00 150.00,40.00 282.00,40.00"; got != want {
		t.Errorf("SVG() = %q, want %q", got, want)
	}

	if got := p.At(0); got != p.Source {
		t.Errorf("At(0) = %v, want %v", got, p.Source)
	}
	if got := p.At(1); got != p.Target {
		t.Errorf("At(1) = %v, want %v", got, p.Target)
	}
	if got := p.At(0.5); !near(got.X, 150) || !near(got.Y, 70) {
		t.Errorf("At(0.5) = %v, want (150, 70)", got)
	}
}

func TestRibbon(t *testing.T) {
	p := LinkPath(0, 50, 100, 50, 10)
	want := "M0.00,45.00C50.00,45.00 50.00,45.00 100.00,45.00" +
		"L100.00,55.00C50.00,55.00 50.00,55.00 0.00,55.00Z"
	if got := p.Ribbon(); got != want {
		t.Errorf("Ribbon() = %q, want %q", got, want)
	}
	if !strings.HasSuffix(p.Ribbon(), "Z") {
		t.Error("Ribbon() should be closed")
	}
}

func TestLayoutPath(t *testing.T) {
	l, err := Compute(energyGraph(t), 960, 500)
	if err != nil {
		t.Fatal(err)
	}
	for i, link := range l.Links {
		p := l.Path(i)
		s, _ := l.Node(link.Source)
		d, _ := l.Node(link.Target)
		if p.Source.X != s.X1 || p.Target.X != d.X0 {
			t.Errorf("link %d x = (%v, %v), want (%v, %v)", i, p.Source.X, p.Target.X, s.X1, d.X0)
		}
		if p.Source.Y != link.Y0 || p.Target.Y != link.Y1 || p.Width != link.Width {
			t.Errorf("link %d path does not follow its anchors", i)
		}
		if link.Y0-link.Width/2 < s.Y0-eps || link.Y0+link.Width/2 > s.Y1+eps {
			t.Errorf("link %d leaves outside %s", i, s.ID)
		}
		if link.Y1-link.Width/2 < d.Y0-eps || link.Y1+link.Width/2 > d.Y1+eps {
			t.Errorf("link %d enters outside %s", i, d.ID)
		}
	}
}
