// Package pkg provides the core libraries for sankey diagram layout.
//
// # Overview
//
// Sankey turns flow graphs (nodes plus weighted links) into sankey
// diagrams: nodes become rectangles whose height is proportional to their
// throughput, and links become bands whose width is proportional to their
// value. The pkg directory is organized into these areas:
//
//  1. [flow] - The in-memory flow graph and its column transforms
//  2. [sankey] - The layout engine (columns, vertical relaxation, link paths)
//  3. [graph] - Serialization types for graphs and layouts
//  4. [render] - Output formats (SVG, PNG, PDF, JSON, node-link diagrams)
//  5. [pipeline] - Orchestration (parse → layout → render) with caching
//  6. [server] - The HTTP API over the pipeline
//
// # Architecture
//
// The typical data flow:
//
//	graph.json / graph.yaml
//	         ↓
//	    [graph] package (decode + validate)
//	         ↓
//	    [flow] package (graph structure, depths, alignment)
//	         ↓
//	    [sankey] package (node and link geometry)
//	         ↓
//	    [render/sink] package (SVG, then PNG/PDF via rsvg-convert)
//
// # Quick Start
//
//	g, _ := graph.ReadGraphFile("energy.json")
//
//	l, err := sankey.Compute(g, 940, 480,
//	    sankey.WithNodePadding(12),
//	    sankey.WithCyclePolicy(sankey.CycleBreak),
//	)
//	if err != nil {
//	    return err
//	}
//
//	layout := graph.FromSankey(l, graph.ExportOptions{Margin: 10})
//	svg := sink.RenderSVG(layout)
//
// Most callers go through [pipeline] instead, which adds option defaults,
// validation and caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, g, pipeline.Options{Formats: []string{"svg"}})
//
// # Supporting Packages
//
// [cache] - File, Redis and null caches keyed by content hash.
//
// [config] - The sankey.toml configuration file.
//
// [errors] - Error codes shared by the CLI and the HTTP API.
//
// [observability] - Hooks for pipeline and HTTP events, with a Prometheus
// implementation in observability/prom.
//
// [buildinfo] - Version information set at build time.
//
// [flow]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/flow
// [sankey]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/sankey
// [graph]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/buildinfo
package pkg
