// Package pkg provides the core libraries for modgraph module graph analysis.
//
// # Overview
//
// modgraph takes the module graph of a dependency-injection application
// (modules, the services they export and the modules they import), orders
// the modules into initialization phases, labels each one as infrastructure
// or domain, and renders the result as Mermaid or Graphviz diagrams.
//
// # Architecture
//
//	JSON / HCL graph file
//	         ↓
//	    [io] package (decode into a graph)
//	         ↓
//	    [graph] package (modules, edges, queries)
//	         ↓
//	    [graph/layering] + [classify] (phases and labels)
//	         ↓
//	    [render] package (flowchart, class, timeline, dot, svg)
//
// [pipeline] ties the steps together and caches rendered artifacts through
// [cache]. [config] loads modgraph.toml, [errors] carries stable error codes
// for the CLI and HTTP server, and [observability] exposes hooks for
// instrumentation.
//
// # Quick Start
//
//	g, err := io.Load("boot.json")
//	if err != nil {
//	    return err
//	}
//	opts := pipeline.DefaultOptions()
//	opts.Formats = []string{"timeline"}
//	artifacts, err := pipeline.Render(ctx, g, opts)
//
// [io]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/io
// [graph]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/graph
// [graph/layering]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/graph/layering
// [classify]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/classify
// [render]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/modgraph/pkg/observability
package pkg
