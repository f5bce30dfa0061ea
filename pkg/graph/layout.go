package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/sankey/pkg/sankey"
)

// =============================================================================
// Layout - Unified Visualization Format
// =============================================================================

// Layout is the unified serialization format for all visualizations.
//
// This is a discriminated union type - check VizType to determine which
// fields are populated:
//
//	Sankey ("sankey"):
//	  - Nodes, Links: positioned rectangles and bands in frame coordinates
//	  - Margin, Scale, Align: layout parameters
//
//	Nodelink ("nodelink"):
//	  - DOT: Graphviz DOT string for rendering
//	  - Engine: Graphviz layout engine (e.g., "dot")
//
// Shared fields (both types):
//   - Width, Height: frame dimensions
//   - Style: visual style ("simple", "ribbon")
type Layout struct {
	// Discriminator
	VizType string `json:"viz_type"`

	// Common dimensions and style
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Style  string  `json:"style,omitempty"`

	// Sankey-specific
	Margin  float64    `json:"margin,omitempty"`
	Scale   float64    `json:"scale,omitempty"`
	Align   string     `json:"align,omitempty"`
	Nodes   []Box      `json:"nodes,omitempty"`
	Links   []Band     `json:"links,omitempty"`
	Columns [][]string `json:"columns,omitempty"`

	// Nodelink-specific
	DOT    string `json:"dot,omitempty"`
	Engine string `json:"engine,omitempty"`
}

// IsSankey returns true if this is a sankey layout.
func (l *Layout) IsSankey() bool { return l.VizType == VizTypeSankey }

// IsNodelink returns true if this is a nodelink layout.
func (l *Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }

// =============================================================================
// Box, Band - Sankey Visualization Elements
// =============================================================================

// Box is a positioned node rectangle.
type Box struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Depth   int     `json:"depth"`
	Order   int     `json:"order"`
	Value   float64 `json:"value"`
	X0      float64 `json:"x0"`
	X1      float64 `json:"x1"`
	Y0      float64 `json:"y0"`
	Y1      float64 `json:"y1"`
	Tooltip string  `json:"tooltip"`
}

// Band is a positioned link.
type Band struct {
	Source  string  `json:"source"`
	Target  string  `json:"target"`
	Value   float64 `json:"value"`
	Width   float64 `json:"width"`
	Y0      float64 `json:"y0"`
	Y1      float64 `json:"y1"`
	Path    string  `json:"path"`   // center line for stroking
	Ribbon  string  `json:"ribbon"` // band outline for filling
	Cyclic  bool    `json:"cyclic,omitempty"`
	Tooltip string  `json:"tooltip"`
}

// ExportOptions controls [FromSankey].
type ExportOptions struct {
	Margin float64 // offset of the drawing area inside the frame
	Style  string  // recorded for renderers, StyleSimple when empty
	Align  string  // recorded for reference only
}

// FromSankey converts a computed sankey layout to the serialization format.
// Coordinates are shifted by the margin so they are frame coordinates, and
// the frame is the drawing area plus the margin on every side.
func FromSankey(l *sankey.Layout, opts ExportOptions) Layout {
	m := opts.Margin
	style := opts.Style
	if style == "" {
		style = StyleSimple
	}

	out := Layout{
		VizType: VizTypeSankey,
		Width:   l.Width + 2*m,
		Height:  l.Height + 2*m,
		Style:   style,
		Margin:  m,
		Scale:   l.Scale,
		Align:   opts.Align,
		Nodes:   make([]Box, len(l.Nodes)),
		Links:   make([]Band, len(l.Links)),
		Columns: make([][]string, len(l.Columns)),
	}

	for i, n := range l.Nodes {
		out.Nodes[i] = Box{
			ID:      n.ID,
			Label:   n.Label,
			Depth:   n.Depth,
			Order:   n.Order,
			Value:   n.Value,
			X0:      n.X0 + m,
			X1:      n.X1 + m,
			Y0:      n.Y0 + m,
			Y1:      n.Y1 + m,
			Tooltip: n.Tooltip(),
		}
	}

	for i, link := range l.Links {
		p := l.Path(i)
		p.Source.X += m
		p.Source.Y += m
		p.Target.X += m
		p.Target.Y += m
		p.C1.X += m
		p.C1.Y += m
		p.C2.X += m
		p.C2.Y += m
		out.Links[i] = Band{
			Source:  link.Source,
			Target:  link.Target,
			Value:   link.Value,
			Width:   link.Width,
			Y0:      link.Y0 + m,
			Y1:      link.Y1 + m,
			Path:    p.SVG(),
			Ribbon:  p.Ribbon(),
			Cyclic:  link.Cyclic,
			Tooltip: link.Tooltip(),
		}
	}

	for c, col := range l.Columns {
		ids := make([]string, len(col))
		for k, i := range col {
			ids[k] = l.Nodes[i].ID
		}
		out.Columns[c] = ids
	}

	return out
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that required fields are present for the viz type.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if l.VizType == "" {
		l.VizType = VizTypeSankey
	}

	switch {
	case l.IsSankey():
		if l.Width <= 0 || l.Height <= 0 {
			return Layout{}, fmt.Errorf("sankey layout must have a positive size")
		}
		for _, b := range l.Links {
			if b.Path == "" {
				return Layout{}, fmt.Errorf("sankey link %s → %s has no path", b.Source, b.Target)
			}
		}
	case l.IsNodelink():
		if l.DOT == "" {
			return Layout{}, fmt.Errorf("nodelink layout must contain DOT string")
		}
	default:
		return Layout{}, fmt.Errorf("unknown viz_type %q", l.VizType)
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

// IsLayoutFile reports whether the JSON file holds a layout rather than a
// graph, by checking for a viz_type key.
func IsLayoutFile(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var head struct {
		VizType string `json:"viz_type"`
	}
	return json.Unmarshal(data, &head) == nil && head.VizType != ""
}
