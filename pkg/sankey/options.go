package sankey

import (
	"fmt"
	"math"

	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/flow/transform"
)

const (
	// DefaultNodeThickness is the horizontal size of every node rectangle.
	DefaultNodeThickness = 18.0
	// DefaultNodePadding is the minimum vertical gap between nodes of a column.
	DefaultNodePadding = 12.0
	// DefaultIterations is the number of relaxation sweeps.
	DefaultIterations = 6
)

// CyclePolicy decides what happens when the links contain a directed cycle.
type CyclePolicy int

const (
	// CycleReject fails the layout with flow.ErrCyclicGraph.
	CycleReject CyclePolicy = iota
	// CycleBreak ignores depth-first back-edges when assigning columns and
	// during relaxation. Those links are still laid out and marked Cyclic.
	CycleBreak
)

func (p CyclePolicy) String() string {
	switch p {
	case CycleReject:
		return "reject"
	case CycleBreak:
		return "break"
	}
	return fmt.Sprintf("CyclePolicy(%d)", int(p))
}

// ParseCyclePolicy converts "reject" or "break". The empty string means
// [CycleReject].
func ParseCyclePolicy(s string) (CyclePolicy, error) {
	switch s {
	case "", "reject":
		return CycleReject, nil
	case "break":
		return CycleBreak, nil
	}
	return CycleReject, fmt.Errorf("unknown cycle policy %q (want reject or break)", s)
}

// LabelFunc returns the display text for a node.
type LabelFunc func(flow.Node) string

// DefaultLabel returns the node ID.
func DefaultLabel(n flow.Node) string { return n.ID }

// Option configures [Compute].
type Option func(*config)

type config struct {
	thickness  float64
	padding    float64
	iterations int
	align      transform.Align
	cycles     CyclePolicy
	label      LabelFunc
}

func newConfig(opts []Option) config {
	c := config{
		thickness:  DefaultNodeThickness,
		padding:    DefaultNodePadding,
		iterations: DefaultIterations,
		align:      transform.AlignLeft,
		cycles:     CycleReject,
		label:      DefaultLabel,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c config) validate() error {
	switch {
	case !(c.thickness > 0) || math.IsInf(c.thickness, 0):
		return fmt.Errorf("%w: node thickness %v must be positive", ErrInvalidOptions, c.thickness)
	case !(c.padding >= 0) || math.IsInf(c.padding, 0):
		return fmt.Errorf("%w: node padding %v must not be negative", ErrInvalidOptions, c.padding)
	case c.iterations < 0:
		return fmt.Errorf("%w: iterations %d must not be negative", ErrInvalidOptions, c.iterations)
	case c.cycles != CycleReject && c.cycles != CycleBreak:
		return fmt.Errorf("%w: %v", ErrInvalidOptions, c.cycles)
	case c.label == nil:
		return fmt.Errorf("%w: label function is nil", ErrInvalidOptions)
	}
	return nil
}

// WithNodeThickness sets the width of node rectangles (default 18).
func WithNodeThickness(t float64) Option { return func(c *config) { c.thickness = t } }

// WithNodePadding sets the vertical gap between nodes (default 12).
func WithNodePadding(p float64) Option { return func(c *config) { c.padding = p } }

// WithIterations sets the number of relaxation sweeps (default 6).
// Zero keeps the initial input-order placement.
func WithIterations(n int) Option { return func(c *config) { c.iterations = n } }

// WithAlign selects the column assignment (default [transform.AlignLeft]).
func WithAlign(a transform.Align) Option { return func(c *config) { c.align = a } }

// WithCyclePolicy selects how cyclic input is handled (default [CycleReject]).
func WithCyclePolicy(p CyclePolicy) Option { return func(c *config) { c.cycles = p } }

// WithLabel overrides the node label hook.
func WithLabel(f LabelFunc) Option { return func(c *config) { c.label = f } }
