package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

func testLayout() graph.Layout {
	return graph.Layout{
		VizType: graph.VizTypeSankey,
		Width:   400,
		Height:  200,
		Nodes: []graph.Box{
			{ID: "a", Label: "A", Depth: 0, Value: 8, Y0: 10, Y1: 90},
			{ID: "b", Label: "B", Depth: 1, Value: 5, Y0: 10, Y1: 60},
			{ID: "c", Label: "C", Depth: 2, Value: 5, Y0: 10, Y1: 60},
		},
		Links: []graph.Band{
			{Source: "a", Target: "b", Value: 5, Width: 50},
			{Source: "b", Target: "c", Value: 5, Width: 50, Cyclic: true},
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m inspectModel, msg tea.Msg) (inspectModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(inspectModel), cmd
}

func TestInspectNavigation(t *testing.T) {
	m := newInspectModel(context.Background(), "test", nil, testLayout())

	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("down"))
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped to last node)", m.cursor)
	}

	m, _ = update(t, m, key("tab"))
	if m.tab != tabLinks || m.cursor != 0 {
		t.Errorf("after tab: tab=%d cursor=%d, want links tab at 0", m.tab, m.cursor)
	}
	if m.rowCount() != 2 {
		t.Errorf("rowCount() = %d, want 2 links", m.rowCount())
	}

	m, _ = update(t, m, key("up"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}

	if _, cmd := update(t, m, key("q")); cmd == nil {
		t.Error("q should return a quit command")
	}
}

func TestInspectScrollOffset(t *testing.T) {
	m := newInspectModel(context.Background(), "test", nil, testLayout())
	m.height = 1

	m, _ = update(t, m, key("down"))
	if m.offset != 1 {
		t.Errorf("offset = %d, want 1", m.offset)
	}
	m, _ = update(t, m, key("up"))
	if m.offset != 0 {
		t.Errorf("offset = %d, want 0", m.offset)
	}
}

func TestInspectLayoutMsg(t *testing.T) {
	m := newInspectModel(context.Background(), "test", nil, testLayout())
	m.pending = 2

	superseded := errors.New(errors.ErrCodeSuperseded, "superseded")
	m, _ = update(t, m, layoutMsg{err: superseded})
	if m.err != nil {
		t.Errorf("superseded result should be ignored, got err %v", m.err)
	}
	if m.pending != 1 {
		t.Errorf("pending = %d, want 1", m.pending)
	}

	bigger := testLayout()
	bigger.Width, bigger.Height = 500, 250
	m, _ = update(t, m, layoutMsg{layout: bigger})
	if m.layout.Width != 500 || m.pending != 0 {
		t.Errorf("layout width = %v pending = %d, want 500 and 0", m.layout.Width, m.pending)
	}

	failed := errors.New(errors.ErrCodeDegenerateCanvas, "too small")
	m, _ = update(t, m, layoutMsg{err: failed})
	if m.err == nil || m.layout.Width != 500 {
		t.Error("failed relayout should keep the previous layout and record the error")
	}
}

func TestInspectResize(t *testing.T) {
	g, err := graph.ReadGraph(strings.NewReader(testGraph), graph.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	opts := pipeline.Options{}
	if err := opts.ValidateForLayout(); err != nil {
		t.Fatal(err)
	}

	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
	rl := pipeline.NewRelayouter(runner, g, opts)
	ctx := context.Background()
	l, err := rl.Relayout(ctx, 400, 200)
	if err != nil {
		t.Fatal(err)
	}

	m := newInspectModel(ctx, "test", rl, l)
	m, cmd := update(t, m, key("+"))
	m, cmd2 := update(t, m, key("+"))
	if cmd == nil || cmd2 == nil {
		t.Fatal("resize should return a relayout command")
	}
	if m.pending != 2 {
		t.Errorf("pending = %d, want 2", m.pending)
	}

	want := 400 * resizeFactor * resizeFactor
	msg := cmd2().(layoutMsg)
	if msg.err != nil {
		t.Fatalf("relayout: %v", msg.err)
	}
	if msg.layout.Width != want {
		t.Errorf("layout width = %v, want %v", msg.layout.Width, want)
	}
}

func TestNodeAndLinkRows(t *testing.T) {
	l := testLayout()

	nodes := nodeRows(l)
	if len(nodes) != 3 {
		t.Fatalf("nodeRows() = %d rows, want 3", len(nodes))
	}
	if got := strings.Join(nodes[0], "|"); got != "a|A|0|8|10.0|80.0" {
		t.Errorf("nodeRows()[0] = %q", got)
	}

	links := linkRows(l)
	if got := strings.Join(links[1], "|"); got != "b|c|5|50.0|yes" {
		t.Errorf("linkRows()[1] = %q", got)
	}
	if links[0][4] != "" {
		t.Errorf("non-cyclic link marked %q", links[0][4])
	}
}

func TestInspectView(t *testing.T) {
	m := newInspectModel(context.Background(), "flows.json", nil, testLayout())
	view := m.View()
	for _, want := range []string{"flows.json", "Nodes (3)", "Links (2)"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
