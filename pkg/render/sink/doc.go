// Package sink writes sankey layouts to output formats.
//
// [RenderSVG] draws a [graph.Layout] the way the d3 sankey component does:
// links as grey translucent strokes of their band width (or filled ribbons
// with the "ribbon" style), nodes as small rounded rectangles, and a label
// beside every node. Each link and node carries a <title> tooltip.
//
// Extents below one pixel are drawn one pixel wide so that thin links and
// empty nodes stay visible.
//
// [RenderJSON] writes the layout as JSON. [RenderPNG] and [RenderPDF] go
// through SVG and rsvg-convert. [Render] picks one of them by format name.
package sink
