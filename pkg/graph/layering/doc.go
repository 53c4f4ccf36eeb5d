// Package layering orders the modules of a dependency graph into
// initialization phases.
//
// # Overview
//
// A module can be initialized once every module it depends on has been
// initialized. [Compute] groups modules into phases so that, for every
// dependency edge A→B, phase(A) > phase(B):
//
//	res := layering.Compute(g)
//	for i, phase := range res.Phases {
//	    fmt.Printf("Phase %d: %d modules\n", i, len(phase))
//	}
//
// Phase 0 holds modules with no outgoing edges. Within a phase, modules are
// sorted by short name so that output is stable across runs.
//
// # Cycles and Dangling Edges
//
// Layering is a best-effort diagnostic. Modules that can never become ready
// (cycles, self-loops, or edges into unregistered modules) are collected into
// a final catch-all phase rather than reported as an error. Use
// [Result.HasFallback] and [Result.Unordered] to detect this case.
//
// # Prerequisites vs Imports
//
// Only edges are considered. The declared Imports of a module are metadata
// and do not affect its phase. Duplicate edges between the same pair count
// once.
package layering
