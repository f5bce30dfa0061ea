// Package graph provides serialization types for flow graphs and layouts.
//
// This package defines the canonical wire format for sankey's data, used for
// input files, layout files, API requests and responses, and caching.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph], [Layout]: Serialization types (this package)
//   - pkg/flow.Graph: Internal validated graph
//   - pkg/sankey.Layout: Internal computed layout
//
// Use [FromFlow]/[ToFlow] and [FromSankey] to convert between them.
//
// # Graph Serialization
//
// Graphs use a node-link format in JSON or YAML:
//
//	{
//	  "nodes": [{"id": "Coal"}, {"id": "Electricity"}],
//	  "links": [{"source": "Coal", "target": "Electricity", "value": 200}]
//	}
//
// Decoding rejects unknown fields, checks required fields with struct tags
// and then builds a [flow.Graph], which enforces the graph rules. All
// failures carry a pkg/errors code.
//
//	g, err := graph.ReadGraphFile("energy.yaml")   // File → flow.Graph
//	data, _ := graph.MarshalGraph(g)               // flow.Graph → []byte
//
// # Layout Serialization
//
// Layouts are discriminated by VizType:
//
//	layout, _ := graph.UnmarshalLayout(data)
//	if layout.IsSankey() {
//	    // Use layout.Nodes and layout.Links
//	} else {
//	    // Use layout.DOT for Graphviz rendering
//	}
//
// Sankey layouts are stored in frame coordinates: the margin is already
// added, and every link carries ready-to-use SVG path data.
//
// # Concurrency
//
// All functions are safe for concurrent use.
package graph
