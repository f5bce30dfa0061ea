// Package pipeline provides the layout pipeline shared by the CLI and server.
//
// This package implements the complete parse → layout → render pipeline.
// By centralizing this logic, both entry points produce identical output for
// identical input and share one cache key scheme.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Decode and validate a graph document (JSON or YAML)
//  2. Layout: Compute a sankey layout (or a Graphviz DOT for nodelink)
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	g, err := pipeline.ParseGraph(ctx, r, graph.FormatJSON)
//	result, err := runner.Execute(ctx, g, pipeline.Options{Formats: []string{"svg"}})
//	svg := result.Artifacts["svg"]
//
// A [Relayouter] serializes repeated layouts of one graph, e.g. on resize,
// and drops requests that a newer one has superseded.
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/flow/transform"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/render"
	"github.com/matzehuels/sankey/pkg/render/sink"
	"github.com/matzehuels/sankey/pkg/sankey"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, config and server
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 960.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 520.0

	// DefaultMargin is the gap between the frame and the drawing area.
	DefaultMargin = 10.0

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultNodeColor, DefaultLinkColor and DefaultLinkOpacity mirror the
	// SVG writer defaults.
	DefaultNodeColor   = sink.DefaultNodeColor
	DefaultLinkColor   = sink.DefaultLinkColor
	DefaultLinkOpacity = sink.DefaultLinkOpacity

	// DefaultNodeThickness, DefaultNodePadding and DefaultIterations mirror
	// the layout engine defaults.
	DefaultNodeThickness = sankey.DefaultNodeThickness
	DefaultNodePadding   = sankey.DefaultNodePadding
	DefaultIterations    = sankey.DefaultIterations
)

// DefaultVizType is the default visualization type.
const DefaultVizType = graph.VizTypeSankey

// DefaultStyle is the default visual style.
const DefaultStyle = graph.StyleSimple

// DefaultAlign is the default node alignment.
const DefaultAlign = "left"

// DefaultCycles is the default cycle policy.
const DefaultCycles = "reject"

// Format constants for output formats.
const (
	FormatSVG  = render.FormatSVG
	FormatPNG  = render.FormatPNG
	FormatPDF  = render.FormatPDF
	FormatJSON = render.FormatJSON
)

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	graph.StyleSimple: true,
	graph.StyleRibbon: true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	graph.VizTypeSankey:   true,
	graph.VizTypeNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests; zero values
// mean "use the default". Margin, NodePadding, Iterations and LinkOpacity
// accept zero as a real setting, so they are pointers and nil means "use
// the default".
type Options struct {
	// Layout options
	VizType       string   `json:"viz_type,omitempty"`
	Width         float64  `json:"width,omitempty"`
	Height        float64  `json:"height,omitempty"`
	Margin        *float64 `json:"margin,omitempty"`
	NodeThickness float64  `json:"node_thickness,omitempty"`
	NodePadding   *float64 `json:"node_padding,omitempty"`
	Iterations    *int     `json:"iterations,omitempty"`
	Align         string   `json:"align,omitempty"`
	Cycles        string   `json:"cycles,omitempty"`
	Detailed      bool     `json:"detailed,omitempty"` // nodelink: metadata in node labels

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Style       string   `json:"style,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Background  string   `json:"background,omitempty"`
	NodeColor   string   `json:"node_color,omitempty"`
	LinkColor   string   `json:"link_color,omitempty"`
	LinkOpacity *float64 `json:"link_opacity,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the input flow graph.
	Graph *flow.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Layout contains the serialized layout.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	LinkCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return render.ValidateFormat(format)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: simple, ribbon)", style)
	}
	return nil
}

// ValidateColor checks that a color can be written into an SVG attribute
// as is. Any CSS color syntax is accepted; markup characters are not.
func ValidateColor(c string) error {
	if i := strings.IndexAny(c, "\"'<>&"); i >= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid color %q: unexpected %q", c, c[i])
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: sankey, nodelink)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and validates the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Margin == nil {
		o.Margin = Ptr(DefaultMargin)
	}
	if o.NodeThickness == 0 {
		o.NodeThickness = DefaultNodeThickness
	}
	if o.NodePadding == nil {
		o.NodePadding = Ptr(DefaultNodePadding)
	}
	if o.Iterations == nil {
		o.Iterations = Ptr(DefaultIterations)
	}
	if o.Align == "" {
		o.Align = DefaultAlign
	}
	if o.Cycles == "" {
		o.Cycles = DefaultCycles
	}
	// The style is recorded in the layout, so it is part of the layout key.
	if o.Style == "" {
		o.Style = DefaultStyle
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if *o.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "margin must not be negative, got %v", *o.Margin)
	}
	if *o.NodePadding < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "node_padding must not be negative, got %v", *o.NodePadding)
	}
	if *o.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "iterations must not be negative, got %d", *o.Iterations)
	}
	if _, err := transform.ParseAlign(o.Align); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%v", err)
	}
	if _, err := sankey.ParseCyclePolicy(o.Cycles); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%v", err)
	}
	return ValidateStyle(o.Style)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.NodeColor == "" {
		o.NodeColor = DefaultNodeColor
	}
	if o.LinkColor == "" {
		o.LinkColor = DefaultLinkColor
	}
	if o.LinkOpacity == nil {
		o.LinkOpacity = Ptr(DefaultLinkOpacity)
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must not be negative, got %v", o.Scale)
	}
	if op := *o.LinkOpacity; !(op >= 0 && op <= 1) {
		return errors.New(errors.ErrCodeInvalidInput, "link_opacity must be between 0 and 1, got %v", op)
	}
	for _, c := range []struct{ name, value string }{
		{"background", o.Background},
		{"node_color", o.NodeColor},
		{"link_color", o.LinkColor},
	} {
		if err := ValidateColor(c.value); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: %v", c.name, err)
		}
	}
	return ValidateStyle(o.Style)
}

// Overlay returns o with every set field of over applied on top: non-zero
// values, and non-nil pointers even when they point at zero.
// The server uses it to apply request options over configured defaults.
func (o Options) Overlay(over Options) Options {
	out := o
	out.validated = false
	out.Formats = slices.Clone(o.Formats)

	if over.VizType != "" {
		out.VizType = over.VizType
	}
	if over.Width != 0 {
		out.Width = over.Width
	}
	if over.Height != 0 {
		out.Height = over.Height
	}
	if over.Margin != nil {
		out.Margin = Ptr(*over.Margin)
	}
	if over.NodeThickness != 0 {
		out.NodeThickness = over.NodeThickness
	}
	if over.NodePadding != nil {
		out.NodePadding = Ptr(*over.NodePadding)
	}
	if over.Iterations != nil {
		out.Iterations = Ptr(*over.Iterations)
	}
	if over.Align != "" {
		out.Align = over.Align
	}
	if over.Cycles != "" {
		out.Cycles = over.Cycles
	}
	if len(over.Formats) > 0 {
		out.Formats = slices.Clone(over.Formats)
	}
	if over.Style != "" {
		out.Style = over.Style
	}
	if over.Scale != 0 {
		out.Scale = over.Scale
	}
	if over.Background != "" {
		out.Background = over.Background
	}
	if over.NodeColor != "" {
		out.NodeColor = over.NodeColor
	}
	if over.LinkColor != "" {
		out.LinkColor = over.LinkColor
	}
	if over.LinkOpacity != nil {
		out.LinkOpacity = Ptr(*over.LinkOpacity)
	}
	out.Detailed = o.Detailed || over.Detailed
	out.Refresh = o.Refresh || over.Refresh
	return out
}

// Ptr returns a pointer to v, for the optional fields of [Options].
func Ptr[T any](v T) *T { return &v }

func deref[T any](p *T) T {
	var v T
	if p != nil {
		v = *p
	}
	return v
}

// IsSankey returns true if this is a sankey visualization.
func (o *Options) IsSankey() bool {
	return o.VizType == "" || o.VizType == graph.VizTypeSankey
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == graph.VizTypeNodelink
}

// SankeyOptions translates the layout options for [sankey.Compute].
// Options must have been validated.
func (o *Options) SankeyOptions() []sankey.Option {
	align, _ := transform.ParseAlign(o.Align)
	cycles, _ := sankey.ParseCyclePolicy(o.Cycles)
	return []sankey.Option{
		sankey.WithNodeThickness(o.NodeThickness),
		sankey.WithNodePadding(deref(o.NodePadding)),
		sankey.WithIterations(deref(o.Iterations)),
		sankey.WithAlign(align),
		sankey.WithCyclePolicy(cycles),
		sankey.WithLabel(flow.Node.DisplayLabel),
	}
}

// SVGOptions translates the render options for [sink.RenderSVG].
func (o *Options) SVGOptions() []sink.SVGOption {
	opts := []sink.SVGOption{sink.WithStyle(o.Style)}
	if o.Background != "" {
		opts = append(opts, sink.WithBackground(o.Background))
	}
	if o.NodeColor != "" {
		opts = append(opts, sink.WithNodeColor(o.NodeColor))
	}
	if o.LinkColor != "" {
		opts = append(opts, sink.WithLinkColor(o.LinkColor))
	}
	if o.LinkOpacity != nil {
		opts = append(opts, sink.WithLinkOpacity(*o.LinkOpacity))
	}
	return opts
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		VizType:       o.VizType,
		Width:         o.Width,
		Height:        o.Height,
		Margin:        deref(o.Margin),
		NodeThickness: o.NodeThickness,
		NodePadding:   deref(o.NodePadding),
		Iterations:    deref(o.Iterations),
		Align:         o.Align,
		Cycles:        o.Cycles,
		Style:         o.Style,
		Detailed:      o.Detailed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:      format,
		Style:       o.Style,
		Background:  o.Background,
		NodeColor:   o.NodeColor,
		LinkColor:   o.LinkColor,
		LinkOpacity: deref(o.LinkOpacity),
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
