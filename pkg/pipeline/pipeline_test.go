package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/sankey/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"ribbon", false},
		{"handdrawn", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestValidateVizType(t *testing.T) {
	tests := []struct {
		vizType string
		wantErr bool
	}{
		{"sankey", false},
		{"nodelink", false},
		{"tower", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateVizType(tt.vizType)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVizType(%q) error = %v, wantErr %v", tt.vizType, err, tt.wantErr)
		}
	}
}

func TestSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}

	if opts.VizType != DefaultVizType {
		t.Errorf("VizType = %q, want %q", opts.VizType, DefaultVizType)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("size = %vx%v, want %vx%v", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if *opts.Margin != DefaultMargin {
		t.Errorf("Margin = %v, want %v", *opts.Margin, DefaultMargin)
	}
	if opts.NodeThickness != DefaultNodeThickness || *opts.NodePadding != DefaultNodePadding {
		t.Errorf("node geometry = %v/%v, want defaults", opts.NodeThickness, *opts.NodePadding)
	}
	if *opts.Iterations != DefaultIterations {
		t.Errorf("Iterations = %d, want %d", *opts.Iterations, DefaultIterations)
	}
	if opts.Align != DefaultAlign || opts.Cycles != DefaultCycles {
		t.Errorf("Align/Cycles = %q/%q, want defaults", opts.Align, opts.Cycles)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Style != DefaultStyle || opts.Scale != DefaultScale {
		t.Errorf("Style/Scale = %q/%v, want defaults", opts.Style, opts.Scale)
	}
}

func TestValidateForLayout(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"defaults", Options{}, ""},
		{"negative width", Options{Width: -5}, errors.ErrCodeDegenerateCanvas},
		{"huge height", Options{Height: 1e9}, errors.ErrCodeInvalidInput},
		{"negative margin", Options{Margin: Ptr(-1.0)}, errors.ErrCodeInvalidInput},
		{"negative padding", Options{NodePadding: Ptr(-1.0)}, errors.ErrCodeInvalidInput},
		{"negative iterations", Options{Iterations: Ptr(-1)}, errors.ErrCodeInvalidInput},
		{"unknown align", Options{Align: "diagonal"}, errors.ErrCodeInvalidInput},
		{"unknown cycles", Options{Cycles: "ignore"}, errors.ErrCodeInvalidInput},
		{"unknown viz type", Options{VizType: "tower"}, errors.ErrCodeInvalidVizType},
		{"right align", Options{Align: "right"}, ""},
		{"break cycles", Options{Cycles: "break"}, ""},
		{"unknown style", Options{Style: "handdrawn"}, errors.ErrCodeInvalidStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLayout()
			if tt.code == "" {
				if err != nil {
					t.Errorf("ValidateForLayout() error = %v", err)
				}
				return
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("ValidateForLayout() code = %v, want %v (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestValidateForRender(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"defaults", Options{}, ""},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad style", Options{Style: "handdrawn"}, errors.ErrCodeInvalidStyle},
		{"negative scale", Options{Scale: -1}, errors.ErrCodeInvalidInput},
		{"opaque links", Options{LinkOpacity: Ptr(1.0)}, ""},
		{"transparent links", Options{LinkOpacity: Ptr(0.0)}, ""},
		{"opacity above one", Options{LinkOpacity: Ptr(1.5)}, errors.ErrCodeInvalidInput},
		{"css color", Options{NodeColor: "rgb(10, 20, 30)", LinkColor: "steelblue"}, ""},
		{"quote in color", Options{LinkColor: `red" onload="x`}, errors.ErrCodeInvalidInput},
		{"markup in background", Options{Background: "<script>"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForRender()
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("ValidateForRender() code = %v, want %v (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestKeyOpts(t *testing.T) {
	a := Options{Width: 800}
	b := Options{Width: 801}
	a.SetLayoutDefaults()
	b.SetLayoutDefaults()
	if a.LayoutKeyOpts() == b.LayoutKeyOpts() {
		t.Error("LayoutKeyOpts should differ when the width differs")
	}

	o := Options{Scale: 3}
	o.SetRenderDefaults()
	if got := o.ArtifactKeyOpts(FormatSVG).Scale; got != 0 {
		t.Errorf("svg artifact key should ignore scale, got %v", got)
	}
	if got := o.ArtifactKeyOpts(FormatPNG).Scale; got != 3 {
		t.Errorf("png artifact key scale = %v, want 3", got)
	}

	red := Options{LinkColor: "red"}
	red.SetRenderDefaults()
	if red.ArtifactKeyOpts(FormatSVG) == o.ArtifactKeyOpts(FormatSVG) {
		t.Error("ArtifactKeyOpts should differ when the link color differs")
	}
}

func TestIsSankeyIsNodelink(t *testing.T) {
	if !(&Options{}).IsSankey() {
		t.Error("empty VizType should be sankey")
	}
	o := Options{VizType: "nodelink"}
	if o.IsSankey() || !o.IsNodelink() {
		t.Error("nodelink options misclassified")
	}
}

func TestOverlay(t *testing.T) {
	base := Options{Width: 800, Height: 400, Align: "justify", Formats: []string{"svg"}, Style: "ribbon"}
	got := base.Overlay(Options{Width: 300, Formats: []string{"png"}, Refresh: true})

	if got.Width != 300 || got.Height != 400 {
		t.Errorf("Overlay() size = %vx%v, want 300x400", got.Width, got.Height)
	}
	if got.Align != "justify" || got.Style != "ribbon" {
		t.Errorf("Overlay() align/style = %q/%q, want justify/ribbon", got.Align, got.Style)
	}
	if len(got.Formats) != 1 || got.Formats[0] != "png" {
		t.Errorf("Overlay() formats = %v, want [png]", got.Formats)
	}
	if !got.Refresh {
		t.Error("Overlay() dropped Refresh")
	}

	got.Formats[0] = "pdf"
	if base.Formats[0] != "svg" {
		t.Error("Overlay() shares the formats slice with its receiver")
	}
}

func TestOverlay_ExplicitZero(t *testing.T) {
	base := Options{Margin: Ptr(10.0), NodePadding: Ptr(12.0), Iterations: Ptr(6)}

	got := base.Overlay(Options{Margin: Ptr(0.0), NodePadding: Ptr(0.0), Iterations: Ptr(0)})
	if *got.Margin != 0 || *got.NodePadding != 0 || *got.Iterations != 0 {
		t.Errorf("Overlay() = margin %v padding %v iterations %d, want all zero",
			*got.Margin, *got.NodePadding, *got.Iterations)
	}

	kept := base.Overlay(Options{})
	if *kept.Margin != 10 || *kept.NodePadding != 12 || *kept.Iterations != 6 {
		t.Error("Overlay() with unset fields should keep the base values")
	}

	*got.Margin = 5
	if *base.Margin != 10 {
		t.Error("Overlay() shares the margin pointer with its receiver")
	}
}

func TestOptionsJSON_ExplicitZero(t *testing.T) {
	var o Options
	if err := json.Unmarshal([]byte(`{"margin": 0, "iterations": 0}`), &o); err != nil {
		t.Fatal(err)
	}
	o.SetLayoutDefaults()
	if *o.Margin != 0 || *o.Iterations != 0 {
		t.Errorf("margin/iterations = %v/%d, want explicit zeros kept", *o.Margin, *o.Iterations)
	}
	if *o.NodePadding != DefaultNodePadding {
		t.Errorf("NodePadding = %v, want default %v", *o.NodePadding, DefaultNodePadding)
	}
}
