package flow

import (
	"errors"
	"slices"
	"testing"
)

func TestFindCycle(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		links [][2]string
		want  []string
	}{
		{
			name:  "acyclic chain",
			nodes: []string{"a", "b", "c"},
			links: [][2]string{{"a", "b"}, {"b", "c"}},
			want:  nil,
		},
		{
			name:  "no links",
			nodes: []string{"a", "b"},
			want:  nil,
		},
		{
			name:  "two-cycle",
			nodes: []string{"a", "b"},
			links: [][2]string{{"a", "b"}, {"b", "a"}},
			want:  []string{"a", "b"},
		},
		{
			name:  "triangle behind a source",
			nodes: []string{"root", "x", "y", "z"},
			links: [][2]string{{"root", "x"}, {"x", "y"}, {"y", "z"}, {"z", "x"}},
			want:  []string{"x", "y", "z"},
		},
		{
			name:  "earliest component wins",
			nodes: []string{"p", "q", "a", "b"},
			links: [][2]string{{"a", "b"}, {"b", "a"}, {"p", "q"}, {"q", "p"}},
			want:  []string{"p", "q"},
		},
		{
			name:  "parallel links are not a cycle",
			nodes: []string{"a", "b"},
			links: [][2]string{{"a", "b"}, {"a", "b"}},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewEmpty()
			for _, id := range tt.nodes {
				if err := g.AddNode(Node{ID: id}); err != nil {
					t.Fatal(err)
				}
			}
			for _, l := range tt.links {
				if err := g.AddLink(Link{Source: l[0], Target: l[1], Value: 1}); err != nil {
					t.Fatal(err)
				}
			}

			got := g.FindCycle()
			if !slices.Equal(got, tt.want) {
				t.Errorf("FindCycle() = %v, want %v", got, tt.want)
			}

			err := g.Validate()
			if (err != nil) != (tt.want != nil) {
				t.Errorf("Validate() error = %v, want cycle %v", err, tt.want)
			}
			if err != nil && !errors.Is(err, ErrCyclicGraph) {
				t.Errorf("Validate() error = %v, want ErrCyclicGraph", err)
			}
		})
	}
}
