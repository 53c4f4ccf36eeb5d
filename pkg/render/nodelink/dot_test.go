package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/modgraph/pkg/graph"
	"github.com/matzehuels/modgraph/pkg/render"
)

func bootGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.NewWithEdges(
		[]graph.Module{
			{ClassName: `App\DatabaseModule`, Exports: []string{`App\DatabaseService`}},
			{ClassName: `App\UserModule`, Imports: []string{`App\DatabaseModule`}, Exports: []string{`App\UserService`}},
		},
		[]graph.Edge{
			{From: `App\UserModule`, To: `App\DatabaseModule`, ImportedServices: []string{`App\DatabaseService`}},
			{From: `App\UserModule`, To: `App\Missing`},
		},
	)
	if err != nil {
		t.Fatalf("NewWithEdges: %v", err)
	}
	return g
}

func TestDOT_Render(t *testing.T) {
	out, err := NewDOT(render.DefaultOptions(), nil).Render(bootGraph(t))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	wants := []string{
		"digraph G {\n",
		`"App\\DatabaseModule" [label="DatabaseModule\nDatabaseService", fillcolor="#e1f5fe"];`,
		`"App\\UserModule" [label="UserModule\nUserService", fillcolor="#fff3e0", style="rounded,filled,dashed"];`,
		`{ rank=same; "App\\DatabaseModule"; } // phase 0`,
		`"App\\UserModule" -> "App\\DatabaseModule" [label="DatabaseService"];`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "Missing") {
		t.Errorf("dangling edge rendered:\n%s", out)
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("output not terminated: %q", out)
	}
}

func TestDOT_HiddenLabels(t *testing.T) {
	out, err := NewDOT(render.Options{}, nil).Render(bootGraph(t))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, `[label="DatabaseModule", fillcolor=`) {
		t.Errorf("exports should be hidden:\n%s", out)
	}
	if !strings.Contains(out, "  \"App\\\\UserModule\" -> \"App\\\\DatabaseModule\";\n") {
		t.Errorf("edge label should be hidden:\n%s", out)
	}
}

func TestDOT_Empty(t *testing.T) {
	out, err := NewDOT(render.DefaultOptions(), nil).Render(graph.New())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, "->") || strings.Contains(out, "rank=same") {
		t.Errorf("empty graph produced nodes:\n%s", out)
	}
}

func TestRegister(t *testing.T) {
	reg := render.NewRegistry()
	Register(reg, nil)
	r, err := reg.New(FormatDOT, render.DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.FileExtension() != "dot" {
		t.Errorf("FileExtension = %q", r.FileExtension())
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.25"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.50 200.25" width="100" height="200"><g/></svg>`
	if got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}

	noBox := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(noBox)) != string(noBox) {
		t.Error("svg without viewBox should be unchanged")
	}
}
