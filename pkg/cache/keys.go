package cache

// Keyer builds cache keys for the pipeline stages.
type Keyer interface {
	// LayoutKey addresses a computed layout by graph content and layout options.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey addresses a rendered output by layout content and render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a computed layout.
type LayoutKeyOpts struct {
	VizType       string  `json:"viz_type"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Margin        float64 `json:"margin"`
	NodeThickness float64 `json:"node_thickness"`
	NodePadding   float64 `json:"node_padding"`
	Iterations    int     `json:"iterations"`
	Align         string  `json:"align"`
	Cycles        string  `json:"cycles"`
	Style         string  `json:"style"`
	Detailed      bool    `json:"detailed"`
}

// ArtifactKeyOpts holds every option that changes a rendered output.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Style       string  `json:"style"`
	Scale       float64 `json:"scale,omitempty"`
	Background  string  `json:"background,omitempty"`
	NodeColor   string  `json:"node_color,omitempty"`
	LinkColor   string  `json:"link_color,omitempty"`
	LinkOpacity float64 `json:"link_opacity,omitempty"`
}

// DefaultKeyer produces keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey(KindLayout, graphHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(KindArtifact, layoutHash, opts)
}
