package graph

import (
	"errors"
	"slices"
	"testing"
)

func classNames(ms []Module) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ClassName
	}
	return out
}

func TestAddModule(t *testing.T) {
	g := New()
	if err := g.AddModule(Module{ClassName: `App\A\AModule`}); err != nil {
		t.Fatalf("AddModule() error = %v", err)
	}

	m, ok := g.Module(`App\A\AModule`)
	if !ok {
		t.Fatal("Module() not found after AddModule")
	}
	if m.ShortName != "AModule" {
		t.Errorf("ShortName = %q, want derived %q", m.ShortName, "AModule")
	}

	if _, ok := g.Module("missing"); ok {
		t.Error("Module(missing) should report not found")
	}
}

func TestAddModule_Errors(t *testing.T) {
	g := New()
	if err := g.AddModule(Module{}); !errors.Is(err, ErrInvalidModuleID) {
		t.Errorf("empty class name: err = %v, want ErrInvalidModuleID", err)
	}

	_ = g.AddModule(Module{ClassName: "a", ShortName: "A"})
	err := g.AddModule(Module{ClassName: "a", ShortName: "Other"})
	if !errors.Is(err, ErrDuplicateModule) {
		t.Fatalf("duplicate: err = %v, want ErrDuplicateModule", err)
	}
	var dup *DuplicateModuleError
	if !errors.As(err, &dup) || dup.ClassName != "a" {
		t.Errorf("duplicate: err = %#v, want *DuplicateModuleError{a}", err)
	}

	m, _ := g.Module("a")
	if m.ShortName != "A" {
		t.Errorf("duplicate registration overwrote module: ShortName = %q", m.ShortName)
	}
	if g.ModuleCount() != 1 {
		t.Errorf("ModuleCount() = %d, want 1", g.ModuleCount())
	}
}

func TestAddModule_CopiesSlices(t *testing.T) {
	exports := []string{"X"}
	g := New()
	_ = g.AddModule(Module{ClassName: "a", Exports: exports})
	exports[0] = "changed"

	m, _ := g.Module("a")
	if m.Exports[0] != "X" {
		t.Errorf("Exports[0] = %q, caller mutation leaked into graph", m.Exports[0])
	}
}

func TestReadAccessors_ReturnCopies(t *testing.T) {
	g, err := NewWithEdges(
		[]Module{
			{ClassName: `App\A`, Exports: []string{`App\AService`}, Imports: []string{`App\BService`}},
			{ClassName: `App\B`, Exports: []string{`App\BService`}},
		},
		[]Edge{{From: `App\A`, To: `App\B`, ImportedServices: []string{`App\BService`}}},
	)
	if err != nil {
		t.Fatalf("NewWithEdges() error = %v", err)
	}

	m, _ := g.Module(`App\A`)
	m.Exports[0] = "MUTATED"
	m.Imports[0] = "MUTATED"
	g.Modules()[1].Exports[0] = "MUTATED"
	g.IndependentModules()[0].Exports[0] = "MUTATED"
	g.UnusedModules()[0].Imports[0] = "MUTATED"
	g.Edges()[0].ImportedServices[0] = "MUTATED"
	g.IncomingEdges(`App\B`)[0].ImportedServices[0] = "MUTATED"
	g.OutgoingEdges(`App\A`)[0].ImportedServices[0] = "MUTATED"
	from, to, _ := g.ResolveEdge(g.Edges()[0])
	from.Exports[0] = "MUTATED"
	to.Exports[0] = "MUTATED"
	re := g.ResolvedEdges()[0]
	re.FromModule.Exports[0] = "MUTATED"
	re.ToModule.Exports[0] = "MUTATED"
	re.ImportedServices[0] = "MUTATED"

	a, _ := g.Module(`App\A`)
	b, _ := g.Module(`App\B`)
	if a.Exports[0] != `App\AService` || a.Imports[0] != `App\BService` {
		t.Errorf("module A changed through a query: %+v", a)
	}
	if b.Exports[0] != `App\BService` {
		t.Errorf("module B changed through a query: %+v", b)
	}
	if got := g.Edges()[0].ImportedServices[0]; got != `App\BService` {
		t.Errorf("edge services changed through a query: %q", got)
	}
}

func TestModules_InsertionOrder(t *testing.T) {
	g := New()
	for _, id := range []string{"z", "a", "m"} {
		_ = g.AddModule(Module{ClassName: id})
	}

	got := classNames(g.Modules())
	want := []string{"z", "a", "m"}
	if !slices.Equal(got, want) {
		t.Errorf("Modules() = %v, want %v", got, want)
	}
}

func TestEdges(t *testing.T) {
	g := New()
	_ = g.AddModule(Module{ClassName: "a"})
	_ = g.AddModule(Module{ClassName: "b"})
	g.AddEdge(Edge{From: "a", To: "b", ImportedServices: []string{"S"}})
	g.AddEdge(Edge{From: "a", To: "b"})
	g.AddEdge(Edge{From: "a", To: "ghost"})

	if g.EdgeCount() != 3 {
		t.Fatalf("EdgeCount() = %d, want 3 (duplicates and dangling kept)", g.EdgeCount())
	}

	edges := g.Edges()
	edges[0].From = "mutated"
	if g.Edges()[0].From != "a" {
		t.Error("Edges() should return a copy")
	}

	if got := len(g.IncomingEdges("b")); got != 2 {
		t.Errorf("IncomingEdges(b) = %d edges, want 2", got)
	}
	if got := len(g.OutgoingEdges("a")); got != 3 {
		t.Errorf("OutgoingEdges(a) = %d edges, want 3", got)
	}
	if got := g.IncomingEdges("a"); got != nil {
		t.Errorf("IncomingEdges(a) = %v, want nil", got)
	}
}

func TestIndependentAndUnused(t *testing.T) {
	g, err := NewWithEdges(
		[]Module{
			{ClassName: "cfg", ShortName: "Cfg", Exports: []string{"C"}},
			{ClassName: "db", ShortName: "Db", Exports: []string{"D"}},
			{ClassName: "user", ShortName: "User", Imports: []string{"U"}},
			{ClassName: "order", ShortName: "Order", Imports: []string{"O"}},
		},
		[]Edge{
			{From: "user", To: "db"},
			{From: "order", To: "user"},
		},
	)
	if err != nil {
		t.Fatalf("NewWithEdges() error = %v", err)
	}

	tests := []struct {
		name string
		got  func() []Module
		want []string
	}{
		{"independent", g.IndependentModules, []string{"cfg", "db"}},
		{"unused", g.UnusedModules, []string{"cfg", "order"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := classNames(tt.got())
			second := classNames(tt.got())
			if !slices.Equal(first, tt.want) {
				t.Errorf("got %v, want %v", first, tt.want)
			}
			if !slices.Equal(first, second) {
				t.Errorf("repeated call not stable: %v vs %v", first, second)
			}
		})
	}
}

func TestIndependentAndUnused_Overlap(t *testing.T) {
	g := New()
	_ = g.AddModule(Module{ClassName: "lonely"})

	if len(g.IndependentModules()) != 1 || len(g.UnusedModules()) != 1 {
		t.Error("a module with no imports and no incoming edges should be both independent and unused")
	}
}

func TestNewWithEdges_Duplicate(t *testing.T) {
	_, err := NewWithEdges([]Module{{ClassName: "a"}, {ClassName: "a"}}, nil)
	if !errors.Is(err, ErrDuplicateModule) {
		t.Errorf("err = %v, want ErrDuplicateModule", err)
	}
}

func TestResolveEdge(t *testing.T) {
	g, _ := NewWithEdges(
		[]Module{{ClassName: "a", ShortName: "A"}, {ClassName: "b", ShortName: "B"}},
		[]Edge{{From: "a", To: "b"}, {From: "a", To: "z"}, {From: "z", To: "b"}},
	)

	from, to, ok := g.ResolveEdge(Edge{From: "a", To: "b"})
	if !ok || from.ShortName != "A" || to.ShortName != "B" {
		t.Errorf("ResolveEdge(a->b) = %v, %v, %v", from, to, ok)
	}
	if _, _, ok := g.ResolveEdge(Edge{From: "a", To: "z"}); ok {
		t.Error("ResolveEdge(a->z) should not resolve")
	}

	resolved := g.ResolvedEdges()
	if len(resolved) != 3 {
		t.Fatalf("ResolvedEdges() = %d, want 3", len(resolved))
	}
	if !resolved[0].Resolved() {
		t.Error("edge a->b should be resolved")
	}
	if resolved[1].ToModule != nil || resolved[1].FromModule == nil {
		t.Error("edge a->z should have a nil target marker")
	}
	if resolved[2].FromModule != nil || resolved[2].Resolved() {
		t.Error("edge z->b should have a nil source marker")
	}
}

func TestShortName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`App\User\UserModule`, "UserModule"},
		{"app/user/UserModule", "UserModule"},
		{"UserModule", "UserModule"},
		{"", ""},
		{`App\`, `App\`},
	}
	for _, tt := range tests {
		if got := ShortName(tt.in); got != tt.want {
			t.Errorf("ShortName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
