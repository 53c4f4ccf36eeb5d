package layering

import (
	"cmp"
	"slices"

	"github.com/matzehuels/modgraph/pkg/graph"
)

// Counts holds the declared export and import counts of a module, carried
// alongside the phases for display.
type Counts struct {
	Exports int
	Imports int
}

// Result is the phase ordering of a graph.
//
// Phases[i] holds the modules initialized in phase i, sorted by short name.
// When the graph contains cycles (or edges into unregistered modules), the
// modules that could not be ordered are collected into one trailing phase.
type Result struct {
	Phases [][]graph.Module

	level    map[string]int
	counts   map[string]Counts
	fallback []string
}

// Compute assigns every module of g to an initialization phase.
//
// Compute uses Kahn-style layering over dependency edges. A module's
// prerequisites are the distinct targets of its outgoing edges; it becomes
// ready once all of them have been placed. Each round places every ready
// module at once, sorted by short name, and releases its dependents.
//
// # Cycles
//
// Modules on a cycle (including self-loops) never become ready. Instead of
// failing, Compute places all remaining modules into a final catch-all phase.
// An edge whose target is not registered counts as a prerequisite that is
// never satisfied, so its source also lands in the catch-all phase.
//
// Compute never mutates g. Time complexity is O(V log V + E).
func Compute(g *graph.Graph) *Result {
	modules := g.Modules()
	byID := make(map[string]graph.Module, len(modules))
	index := make(map[string]int, len(modules))
	for i, m := range modules {
		byID[m.ClassName] = m
		index[m.ClassName] = i
	}

	prereqs := make(map[string]map[string]bool, len(modules))
	dependents := make(map[string]map[string]bool, len(modules))
	for _, e := range g.Edges() {
		if prereqs[e.From] == nil {
			prereqs[e.From] = make(map[string]bool)
		}
		if dependents[e.To] == nil {
			dependents[e.To] = make(map[string]bool)
		}
		prereqs[e.From][e.To] = true
		dependents[e.To][e.From] = true
	}

	res := &Result{
		level:  make(map[string]int, len(modules)),
		counts: make(map[string]Counts, len(modules)),
	}

	remaining := make(map[string]int, len(modules))
	var frontier []graph.Module
	for _, m := range modules {
		remaining[m.ClassName] = len(prereqs[m.ClassName])
		res.counts[m.ClassName] = Counts{Exports: m.ExportCount(), Imports: m.ImportCount()}
		if remaining[m.ClassName] == 0 {
			frontier = append(frontier, m)
		}
	}

	// Each module enters a frontier exactly once, when its count reaches 0.
	for len(frontier) > 0 {
		sortByShortName(frontier, index)
		phase := len(res.Phases)
		res.Phases = append(res.Phases, frontier)

		var next []graph.Module
		for _, m := range frontier {
			delete(remaining, m.ClassName)
			res.level[m.ClassName] = phase
		}
		for _, m := range frontier {
			for dep := range dependents[m.ClassName] {
				deg, ok := remaining[dep]
				if !ok || deg == 0 {
					continue
				}
				remaining[dep] = deg - 1
				if deg == 1 {
					next = append(next, byID[dep])
				}
			}
		}
		frontier = next
	}

	if len(remaining) > 0 {
		last := make([]graph.Module, 0, len(remaining))
		for _, m := range modules {
			if _, ok := remaining[m.ClassName]; ok {
				last = append(last, m)
			}
		}
		sortByShortName(last, index)
		phase := len(res.Phases)
		res.Phases = append(res.Phases, last)
		for _, m := range last {
			res.level[m.ClassName] = phase
			res.fallback = append(res.fallback, m.ClassName)
		}
	}

	return res
}

// sortByShortName orders modules by short name. Equal short names keep
// module insertion order, given by index.
func sortByShortName(ms []graph.Module, index map[string]int) {
	slices.SortFunc(ms, func(a, b graph.Module) int {
		return cmp.Or(
			cmp.Compare(a.ShortName, b.ShortName),
			cmp.Compare(index[a.ClassName], index[b.ClassName]),
		)
	})
}

// PhaseCount returns the number of phases, including the catch-all phase.
func (r *Result) PhaseCount() int { return len(r.Phases) }

// Level returns the phase index of the module with class name id.
func (r *Result) Level(id string) (int, bool) {
	l, ok := r.level[id]
	return l, ok
}

// Levels returns a copy of the class name to phase index mapping.
func (r *Result) Levels() map[string]int {
	out := make(map[string]int, len(r.level))
	for k, v := range r.level {
		out[k] = v
	}
	return out
}

// Counts returns the export and import counts of the module with class name id.
// Unknown modules report zero counts.
func (r *Result) Counts(id string) Counts { return r.counts[id] }

// HasFallback reports whether a catch-all phase was needed.
func (r *Result) HasFallback() bool { return len(r.fallback) > 0 }

// Unordered returns the class names placed by the catch-all phase, in the
// same order as the phase itself.
func (r *Result) Unordered() []string { return slices.Clone(r.fallback) }
