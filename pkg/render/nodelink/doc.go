// Package nodelink renders flow graphs as traditional node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// nodes appear as boxes connected by arrows. It's an alternative to the
// sankey diagram when the topology matters more than the magnitudes, and it
// accepts cyclic graphs that the sankey layout rejects.
//
// # Usage
//
// Convert a flow graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # DOT Format
//
// The generated DOT flows left to right (rankdir=LR). Edge pen widths scale
// with link values up to [Options].MaxPenWidth, and each edge is labelled
// with its value.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
