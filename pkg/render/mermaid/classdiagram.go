package mermaid

import (
	"fmt"
	"strings"

	"github.com/matzehuels/modgraph/pkg/classify"
	"github.com/matzehuels/modgraph/pkg/graph"
	"github.com/matzehuels/modgraph/pkg/render"
)

const classDiagramHeader = `---
config:
  class:
    hideEmptyMembersBox: true
---
classDiagram
direction TB
`

// ClassDiagram renders each module as a Mermaid class whose members are its
// exports. Dependencies become dashed relations labelled with the imported
// services.
type ClassDiagram struct {
	opts       render.Options
	classifier *classify.Classifier
}

// NewClassDiagram creates a class diagram renderer. A nil classifier uses the
// default keywords.
func NewClassDiagram(opts render.Options, c *classify.Classifier) *ClassDiagram {
	return &ClassDiagram{opts: opts, classifier: c}
}

func (d *ClassDiagram) Metadata() render.Metadata {
	return render.Metadata{
		Name:        "Mermaid Class Diagram Renderer",
		Description: "Renders dependency graphs as Mermaid classDiagram with modules as classes.",
		Version:     Version,
	}
}

func (d *ClassDiagram) FileExtension() string { return FileExtension }
func (d *ClassDiagram) MimeType() string      { return MimeType }
func (d *ClassDiagram) Description() string   { return "Mermaid class diagram" }

// Render implements [render.Renderer].
func (d *ClassDiagram) Render(g *graph.Graph) (string, error) {
	v := render.NewView(g, d.classifier)

	var b strings.Builder
	b.WriteString(classDiagramHeader)
	for _, m := range v.Modules {
		d.writeClass(&b, m)
	}
	b.WriteString("\n")

	// Stereotypes must be declared outside class blocks.
	for _, m := range v.IndependentModules() {
		fmt.Fprintf(&b, "    <<independent>> %s\n", render.SanitizeID(m.ShortName))
	}
	for _, m := range v.UnusedModules() {
		fmt.Fprintf(&b, "    <<unused>> %s\n", render.SanitizeID(m.ShortName))
	}
	b.WriteString("\n")

	for _, e := range v.Edges {
		if !e.Resolved() {
			continue
		}
		from := render.SanitizeID(e.FromModule.ShortName)
		to := render.SanitizeID(e.ToModule.ShortName)
		if label := render.ServiceLabel(e.ImportedServices, d.opts); label != "" {
			fmt.Fprintf(&b, "    %s ..> %s : %s\n", from, to, label)
		} else {
			fmt.Fprintf(&b, "    %s ..> %s\n", from, to)
		}
	}

	b.WriteString("\n")
	for _, m := range v.IndependentModules() {
		fmt.Fprintf(&b, "    class %s:::independent\n", render.SanitizeID(m.ShortName))
	}
	for _, m := range v.UnusedModules() {
		fmt.Fprintf(&b, "    class %s:::unused\n", render.SanitizeID(m.ShortName))
	}

	b.WriteString("\n")
	if len(v.IndependentModules()) > 0 {
		b.WriteString("    classDef independent fill:#e1f5fe, stroke:#0277bd, stroke-width:2px;\n")
	}
	if len(v.UnusedModules()) > 0 {
		b.WriteString("    classDef unused fill:#fff3e0, stroke:#f57c00, stroke-width:2px, stroke-dasharray: 2;\n")
	}

	return b.String(), nil
}

func (d *ClassDiagram) writeClass(b *strings.Builder, m graph.Module) {
	fmt.Fprintf(b, "    class %s {\n", render.SanitizeID(m.ShortName))
	if d.opts.ShowExports {
		for _, export := range m.Exports {
			fmt.Fprintf(b, "        + %s\n", graph.ShortName(export))
		}
	}
	b.WriteString("    }\n")
}

var _ render.Renderer = (*ClassDiagram)(nil)
