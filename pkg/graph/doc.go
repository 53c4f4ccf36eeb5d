// Package graph provides the in-memory module dependency graph analyzed by
// modgraph.
//
// # Overview
//
// A [Graph] holds [Module] nodes keyed by class name and an ordered list of
// [Edge] values. Modules are iterated in insertion order so that every
// diagram derived from the graph is byte-for-byte stable across runs.
//
//	g := graph.New()
//	_ = g.AddModule(graph.Module{ClassName: `App\Db\DbModule`, Exports: []string{`App\Db\Conn`}})
//	_ = g.AddModule(graph.Module{ClassName: `App\User\UserModule`, Imports: []string{`App\Db\Conn`}})
//	g.AddEdge(graph.Edge{From: `App\User\UserModule`, To: `App\Db\DbModule`})
//
// # Imports vs Edges
//
// Each module carries two declarative lists: Exports (services offered) and
// Imports (services it says it needs). Edges are the resolved structure and
// are not required to agree with Imports. [Graph.IndependentModules] looks at
// Imports; [Graph.UnusedModules] looks at edges.
//
// # Dangling Edges
//
// [Graph.AddEdge] accepts edges whose endpoints are not registered. Consumers
// that need both endpoints use [Graph.ResolveEdge] or [Graph.ResolvedEdges]
// and skip unresolved edges instead of failing.
//
// # Duplicate Registration
//
// [Graph.AddModule] rejects a class name that is already registered with a
// [*DuplicateModuleError] (matching [ErrDuplicateModule] via errors.Is).
//
// # Concurrency
//
// A Graph must not be modified concurrently. Once built, any number of
// goroutines may read it; no query mutates internal state.
package graph
