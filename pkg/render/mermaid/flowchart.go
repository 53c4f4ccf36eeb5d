package mermaid

import (
	"fmt"
	"strings"

	"github.com/matzehuels/modgraph/pkg/classify"
	"github.com/matzehuels/modgraph/pkg/graph"
	"github.com/matzehuels/modgraph/pkg/render"
)

const (
	classDefIndependent = "    classDef independent fill:#e1f5fe,stroke:#0277bd,stroke-width:2px\n"
	classDefUnused      = "    classDef unused fill:#fff3e0,stroke:#f57c00,stroke-width:2px\n"
)

// Flowchart renders the graph as a left-to-right Mermaid flowchart. Nodes
// list their exports, edges carry the imported services, and independent or
// unused modules are styled with dedicated classes.
type Flowchart struct {
	opts       render.Options
	classifier *classify.Classifier
}

// NewFlowchart creates a flowchart renderer. A nil classifier uses the
// default keywords.
func NewFlowchart(opts render.Options, c *classify.Classifier) *Flowchart {
	return &Flowchart{opts: opts, classifier: c}
}

func (f *Flowchart) Metadata() render.Metadata {
	return render.Metadata{
		Name:        "Mermaid Renderer",
		Description: "A renderer that visualizes module dependency graphs using Mermaid syntax.",
		Version:     Version,
	}
}

func (f *Flowchart) FileExtension() string { return FileExtension }
func (f *Flowchart) MimeType() string      { return MimeType }
func (f *Flowchart) Description() string   { return "Mermaid flowchart diagram" }

// Render implements [render.Renderer].
func (f *Flowchart) Render(g *graph.Graph) (string, error) {
	v := render.NewView(g, f.classifier)

	var b strings.Builder
	b.WriteString("graph LR\n")
	for _, m := range v.Modules {
		f.writeNode(&b, m)
	}
	b.WriteString("\n")

	for _, e := range v.Edges {
		if !e.Resolved() {
			continue
		}
		from := render.SanitizeID(e.FromModule.ShortName)
		to := render.SanitizeID(e.ToModule.ShortName)
		if label := render.ServiceLabel(e.ImportedServices, f.opts); label != "" {
			fmt.Fprintf(&b, "    %s --> |%s| %s\n", from, label, to)
		} else {
			fmt.Fprintf(&b, "    %s --> %s\n", from, to)
		}
	}

	f.writeStyling(&b, v)
	return b.String(), nil
}

func (f *Flowchart) writeNode(b *strings.Builder, m graph.Module) {
	label := m.ShortName
	if f.opts.ShowExports && m.HasExports() {
		label += "<br/>exports:<br/>" + strings.Join(render.ShortNames(m.Exports), "<br/>")
	}
	fmt.Fprintf(b, "    %s[%s]\n", render.SanitizeID(m.ShortName), label)
}

// writeStyling assigns classes per module, then defines each class once.
// A module can be both independent and unused.
func (f *Flowchart) writeStyling(b *strings.Builder, v *render.View) {
	b.WriteString("\n")
	for _, m := range v.Modules {
		id := render.SanitizeID(m.ShortName)
		if v.Independent[m.ClassName] {
			fmt.Fprintf(b, "    class %s independent\n", id)
		}
		if v.Unused[m.ClassName] {
			fmt.Fprintf(b, "    class %s unused\n", id)
		}
	}

	hasIndependent := len(v.Independent) > 0
	hasUnused := len(v.Unused) > 0
	if hasIndependent || hasUnused {
		b.WriteString("\n")
	}
	if hasIndependent {
		b.WriteString(classDefIndependent)
	}
	if hasUnused {
		b.WriteString(classDefUnused)
	}
}

var _ render.Renderer = (*Flowchart)(nil)
