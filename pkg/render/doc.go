// Package render provides visualization rendering for flow graphs.
//
// # Overview
//
// This package contains the rendering pipeline that turns computed layouts
// into visual outputs. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Sankey diagram output (in [sink] subpackage)
//   - Node-link diagrams (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both sankey and node-link
// renderers use them.
//
//	svg := sink.RenderSVG(layout)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// Without rsvg-convert on PATH both return an UNSUPPORTED error.
//
// # Sankey Diagrams
//
// The [sink] subpackage draws a serialized sankey layout: node rectangles,
// link bands with tooltips and side-aware labels.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the flow graph as a traditional
// directed graph using Graphviz, with edge widths proportional to flow.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [sink]: github.com/matzehuels/sankey/pkg/render/sink
// [nodelink]: github.com/matzehuels/sankey/pkg/render/nodelink
package render
