package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

// Frame resize step for the +/- keys.
const resizeFactor = 1.25

// headerRow is the row index lipgloss tables pass for the header.
const headerRow = -1

const noSelection = -2

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	tabActiveStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tableHeaderStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// inspectCommand creates the inspect command, an interactive browser for
// the nodes and links of a computed layout.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		plain bool
		flags pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "inspect [graph.json]",
		Short: "Browse the nodes and links of a layout",
		Long: `Browse the nodes and links of a sankey layout.

Keys: tab switches between nodes and links, ↑/↓ scroll, +/- grow or shrink
the frame and recompute the layout, q quits. With --plain both tables are
printed once instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.VizType = graph.VizTypeSankey
			return c.runInspect(cmd.Context(), args[0], c.pipelineOptions(flags), plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print tables instead of starting the browser")
	cmd.Flags().Float64Var(&flags.Width, "width", 0, "frame width in pixels (default 960)")
	cmd.Flags().Float64Var(&flags.Height, "height", 0, "frame height in pixels (default 520)")
	cmd.Flags().StringVar(&flags.Align, "align", "", "node alignment: left (default), right, justify, center")
	cmd.Flags().StringVar(&flags.Cycles, "cycles", "", "cycle policy: reject (default), break")
	registerValueCompletions(cmd)

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, opts pipeline.Options, plain bool) error {
	g, err := pipeline.ParseGraphFile(ctx, input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	rl := pipeline.NewRelayouter(runner, g, opts)
	layout, err := rl.Relayout(ctx, opts.Width, opts.Height)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	if plain {
		printKeyValue("Graph", input)
		printKeyValue("Frame", fmt.Sprintf("%.0f×%.0f", layout.Width, layout.Height))
		printKeyValue("Align", opts.Align)
		printNewline()
		fmt.Fprintln(uiOut, StyleTitle.Render(fmt.Sprintf("Nodes (%d)", len(layout.Nodes))))
		fmt.Fprintln(uiOut, renderTable(nodeHeaders, nodeRows(layout), noSelection))
		fmt.Fprintln(uiOut, StyleTitle.Render(fmt.Sprintf("Links (%d)", len(layout.Links))))
		fmt.Fprintln(uiOut, renderTable(linkHeaders, linkRows(layout), noSelection))
		return nil
	}

	m := newInspectModel(ctx, input, rl, layout)
	_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

// =============================================================================
// inspectModel - Interactive layout browser
// =============================================================================

const (
	tabNodes = iota
	tabLinks
)

// layoutMsg carries the result of an asynchronous relayout.
type layoutMsg struct {
	layout graph.Layout
	err    error
}

// inspectModel is the bubbletea model for the layout browser.
type inspectModel struct {
	ctx        context.Context
	title      string
	relayouter *pipeline.Relayouter
	layout     graph.Layout

	// frame is the most recently requested size; it runs ahead of layout
	// while relayouts are pending.
	frameW, frameH float64

	tab     int
	cursor  int
	offset  int
	height  int
	pending int
	err     error
}

func newInspectModel(ctx context.Context, title string, rl *pipeline.Relayouter, l graph.Layout) inspectModel {
	return inspectModel{
		ctx:        ctx,
		title:      title,
		relayouter: rl,
		layout:     l,
		frameW:     l.Width,
		frameH:     l.Height,
		height:     15,
	}
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.tab = (m.tab + 1) % 2
			m.cursor, m.offset = 0, 0
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < m.rowCount()-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "+", "=":
			return m.resize(resizeFactor)
		case "-":
			return m.resize(1 / resizeFactor)
		}
	case layoutMsg:
		m.pending--
		switch {
		case errors.Is(msg.err, errors.ErrCodeSuperseded):
			// A newer relayout is on its way.
		case msg.err != nil:
			m.err = msg.err
		default:
			m.layout, m.err = msg.layout, nil
			if m.cursor >= m.rowCount() {
				m.cursor, m.offset = 0, 0
			}
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

// resize scales the frame and starts a relayout. Results of requests that
// a later keypress superseded are dropped.
func (m inspectModel) resize(factor float64) (tea.Model, tea.Cmd) {
	m.frameW *= factor
	m.frameH *= factor
	w, h := m.frameW, m.frameH
	m.pending++
	rl, ctx := m.relayouter, m.ctx
	return m, func() tea.Msg {
		l, err := rl.Relayout(ctx, w, h)
		return layoutMsg{layout: l, err: err}
	}
}

func (m inspectModel) rowCount() int {
	if m.tab == tabLinks {
		return len(m.layout.Links)
	}
	return len(m.layout.Nodes)
}

func (m inspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %.0f×%.0f", m.layout.Width, m.layout.Height)))
	if m.pending > 0 {
		b.WriteString(listDimStyle.Render("  computing..."))
	}
	b.WriteString("\n")

	nodesTab, linksTab := listDimStyle, listDimStyle
	if m.tab == tabNodes {
		nodesTab = tabActiveStyle
	} else {
		linksTab = tabActiveStyle
	}
	b.WriteString(nodesTab.Render(fmt.Sprintf("Nodes (%d)", len(m.layout.Nodes))))
	b.WriteString("  ")
	b.WriteString(linksTab.Render(fmt.Sprintf("Links (%d)", len(m.layout.Links))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("⇥ switch  ↑/↓ navigate  +/- resize  q quit"))
	b.WriteString("\n\n")

	headers, rows := nodeHeaders, nodeRows(m.layout)
	if m.tab == tabLinks {
		headers, rows = linkHeaders, linkRows(m.layout)
	}
	end := min(m.offset+m.height, len(rows))
	b.WriteString(renderTable(headers, rows[m.offset:end], m.cursor-m.offset))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + errors.UserMessage(m.err) + "\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.cursor+1, len(rows)), len(rows))))
	return b.String()
}

// =============================================================================
// Tables
// =============================================================================

var (
	nodeHeaders = []string{"ID", "Label", "Col", "Value", "Y", "Height"}
	linkHeaders = []string{"Source", "Target", "Value", "Width", "Cyclic"}
)

func nodeRows(l graph.Layout) [][]string {
	rows := make([][]string, len(l.Nodes))
	for i, n := range l.Nodes {
		rows[i] = []string{
			n.ID,
			n.Label,
			strconv.Itoa(n.Depth),
			fmtNum(n.Value),
			fmtPx(n.Y0),
			fmtPx(n.Y1 - n.Y0),
		}
	}
	return rows
}

func linkRows(l graph.Layout) [][]string {
	rows := make([][]string, len(l.Links))
	for i, b := range l.Links {
		cyclic := ""
		if b.Cyclic {
			cyclic = "yes"
		}
		rows[i] = []string{b.Source, b.Target, fmtNum(b.Value), fmtPx(b.Width), cyclic}
	}
	return rows
}

// renderTable draws rows with a rounded border. selected is the highlighted
// row index within rows; pass a negative value for none.
func renderTable(headers []string, rows [][]string, selected int) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == headerRow:
				return tableHeaderStyle
			case row == selected:
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fmtPx(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
