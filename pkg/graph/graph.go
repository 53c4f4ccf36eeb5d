package graph

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidModuleID is returned by [Graph.AddModule] when the module's
	// class name is empty. Every module must be addressable.
	ErrInvalidModuleID = errors.New("module class name must not be empty")

	// ErrDuplicateModule is returned by [Graph.AddModule] when a module with
	// the same class name is already registered. The error is wrapped in a
	// [*DuplicateModuleError] that carries the offending class name.
	ErrDuplicateModule = errors.New("duplicate module")
)

// DuplicateModuleError reports a second registration of the same class name.
type DuplicateModuleError struct {
	ClassName string
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateModule, e.ClassName)
}

// Unwrap lets errors.Is match [ErrDuplicateModule].
func (e *DuplicateModuleError) Unwrap() error { return ErrDuplicateModule }

// Module is a node in the dependency graph.
//
// Exports and Imports are declarative metadata carried on the module. Imports
// is not required to match the module's outgoing edges: edges are the resolved
// structure, imports are what the module says it needs.
type Module struct {
	ClassName string   // Globally unique identifier, e.g. "App\\User\\UserModule"
	ShortName string   // Display name, e.g. "UserModule"
	Exports   []string // Service identifiers offered to other modules
	Imports   []string // Service identifiers the module declares it needs
}

// ExportCount returns the number of exported services.
func (m Module) ExportCount() int { return len(m.Exports) }

// ImportCount returns the number of declared imports.
func (m Module) ImportCount() int { return len(m.Imports) }

// HasExports reports whether the module exports anything.
func (m Module) HasExports() bool { return len(m.Exports) > 0 }

// clone returns a copy of m that shares no slices with it.
func (m Module) clone() Module {
	m.Exports = slices.Clone(m.Exports)
	m.Imports = slices.Clone(m.Imports)
	return m
}

// Edge is a directed dependency from an importing module to the module it
// depends on. ImportedServices lists which of To's exports From consumes.
type Edge struct {
	From             string
	To               string
	ImportedServices []string
}

func (e Edge) clone() Edge {
	e.ImportedServices = slices.Clone(e.ImportedServices)
	return e
}

// ResolvedEdge pairs an edge with its endpoint modules. A nil endpoint marks a
// class name that is not registered in the graph.
type ResolvedEdge struct {
	Edge
	FromModule *Module
	ToModule   *Module
}

// Resolved reports whether both endpoints exist in the graph.
func (e ResolvedEdge) Resolved() bool { return e.FromModule != nil && e.ToModule != nil }

// Graph holds modules in insertion order and an ordered list of dependency
// edges. Edges may reference modules that are not registered; such edges are
// kept as-is and skipped by consumers that need to resolve both endpoints.
//
// The zero value is not usable - use [New] or [NewWithEdges].
// A Graph is safe for concurrent reads once construction is finished.
type Graph struct {
	modules map[string]*Module
	order   []string
	edges   []Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{modules: make(map[string]*Module)}
}

// NewWithEdges builds a graph from a module list and an edge list in one step.
// It is the construction seam for callers (and tests) that already hold the
// full edge set, including edges that point at unregistered modules.
func NewWithEdges(modules []Module, edges []Edge) (*Graph, error) {
	g := New()
	for _, m := range modules {
		if err := g.AddModule(m); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		g.AddEdge(e)
	}
	return g, nil
}

// AddModule registers m under its class name.
// Returns ErrInvalidModuleID for an empty class name, or a
// [*DuplicateModuleError] if the class name is already registered.
// Slices are copied so later changes by the caller do not leak into the graph.
func (g *Graph) AddModule(m Module) error {
	if m.ClassName == "" {
		return ErrInvalidModuleID
	}
	if _, exists := g.modules[m.ClassName]; exists {
		return &DuplicateModuleError{ClassName: m.ClassName}
	}
	if m.ShortName == "" {
		m.ShortName = ShortName(m.ClassName)
	}
	m.Exports = slices.Clone(m.Exports)
	m.Imports = slices.Clone(m.Imports)
	g.modules[m.ClassName] = &m
	g.order = append(g.order, m.ClassName)
	return nil
}

// AddEdge appends a dependency edge. Endpoints are not validated and
// duplicate edges between the same pair are kept.
func (g *Graph) AddEdge(e Edge) {
	g.edges = append(g.edges, e.clone())
}

// Module returns the module registered under id and true, or the zero Module
// and false if there is none.
func (g *Graph) Module(id string) (Module, bool) {
	m, ok := g.modules[id]
	if !ok {
		return Module{}, false
	}
	return m.clone(), true
}

// Has reports whether a module with the given class name is registered.
func (g *Graph) Has(id string) bool {
	_, ok := g.modules[id]
	return ok
}

// Modules returns all modules in insertion order.
func (g *Graph) Modules() []Module {
	out := make([]Module, len(g.order))
	for i, id := range g.order {
		out[i] = g.modules[id].clone()
	}
	return out
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	for i, e := range g.edges {
		out[i] = e.clone()
	}
	return out
}

// ModuleCount returns the number of registered modules.
func (g *Graph) ModuleCount() int { return len(g.order) }

// EdgeCount returns the number of edges, including unresolved ones.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// IncomingEdges returns the edges whose target is id, in insertion order.
func (g *Graph) IncomingEdges(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.To == id {
			out = append(out, e.clone())
		}
	}
	return out
}

// OutgoingEdges returns the edges whose source is id, in insertion order.
func (g *Graph) OutgoingEdges(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.From == id {
			out = append(out, e.clone())
		}
	}
	return out
}

// IndependentModules returns modules with no declared imports, in module order.
// The result is recomputed on every call.
func (g *Graph) IndependentModules() []Module {
	var out []Module
	for _, id := range g.order {
		if m := g.modules[id]; len(m.Imports) == 0 {
			out = append(out, m.clone())
		}
	}
	return out
}

// UnusedModules returns modules that are never the target of an edge, in
// module order. The result is recomputed on every call.
func (g *Graph) UnusedModules() []Module {
	targeted := make(map[string]bool, len(g.edges))
	for _, e := range g.edges {
		targeted[e.To] = true
	}
	var out []Module
	for _, id := range g.order {
		if !targeted[id] {
			out = append(out, g.modules[id].clone())
		}
	}
	return out
}

// ResolveEdge looks up both endpoints of e.
// ok is false if either endpoint is not registered.
func (g *Graph) ResolveEdge(e Edge) (from, to Module, ok bool) {
	f, okF := g.modules[e.From]
	t, okT := g.modules[e.To]
	if !okF || !okT {
		return Module{}, Module{}, false
	}
	return f.clone(), t.clone(), true
}

// ResolvedEdges returns every edge with its endpoints looked up. Unresolved
// endpoints are nil; no edge is dropped.
func (g *Graph) ResolvedEdges() []ResolvedEdge {
	out := make([]ResolvedEdge, len(g.edges))
	for i, e := range g.edges {
		re := ResolvedEdge{Edge: e.clone()}
		if m, ok := g.modules[e.From]; ok {
			cp := m.clone()
			re.FromModule = &cp
		}
		if m, ok := g.modules[e.To]; ok {
			cp := m.clone()
			re.ToModule = &cp
		}
		out[i] = re
	}
	return out
}

// ShortName returns the final segment of a namespaced identifier, splitting
// on backslash or slash. An identifier without separators is returned as-is.
func ShortName(identifier string) string {
	i := strings.LastIndexAny(identifier, `\/`)
	if i < 0 || i == len(identifier)-1 {
		return identifier
	}
	return identifier[i+1:]
}
