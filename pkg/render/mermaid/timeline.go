package mermaid

import (
	"fmt"
	"strings"

	"github.com/matzehuels/modgraph/pkg/classify"
	"github.com/matzehuels/modgraph/pkg/graph"
	"github.com/matzehuels/modgraph/pkg/graph/layering"
	"github.com/matzehuels/modgraph/pkg/render"
)

// continuation indents follow-up entries of a phase under its first entry.
const continuation = "            : "

// Timeline renders module boot order as a Mermaid timeline. Modules are
// grouped into phases by [layering.Compute] and split into an
// Infrastructure and a Domain section by the classifier.
type Timeline struct {
	opts       render.Options
	classifier *classify.Classifier
}

// NewTimeline creates a timeline renderer. opts.Title and opts.ShowCounts
// apply; an empty title omits the title line. A nil classifier uses the
// default keywords.
func NewTimeline(opts render.Options, c *classify.Classifier) *Timeline {
	return &Timeline{opts: opts, classifier: c}
}

func (t *Timeline) Metadata() render.Metadata {
	return render.Metadata{
		Name:        "Mermaid Timeline Renderer",
		Description: "Renders module boot order as a Mermaid timeline grouped by dependency levels.",
		Version:     Version,
	}
}

func (t *Timeline) FileExtension() string { return FileExtension }
func (t *Timeline) MimeType() string      { return MimeType }
func (t *Timeline) Description() string   { return "Mermaid timeline" }

// Render implements [render.Renderer].
func (t *Timeline) Render(g *graph.Graph) (string, error) {
	v := render.NewView(g, t.classifier)

	var b strings.Builder
	b.WriteString("timeline\n")
	if t.opts.Title != "" {
		fmt.Fprintf(&b, "title %s\n", t.opts.Title)
	}

	b.WriteString("section Infrastructure\n")
	t.writePhases(&b, v.Layers, func(m graph.Module) bool {
		return v.Partition.Is(m.ClassName, classify.Infrastructure)
	})

	b.WriteString("section Domain\n")
	t.writePhases(&b, v.Layers, func(m graph.Module) bool {
		return v.Partition.Is(m.ClassName, classify.Domain)
	})

	return b.String(), nil
}

// writePhases emits every phase that has at least one module passing keep.
// Phase numbers are global, so a section may skip indices.
func (t *Timeline) writePhases(b *strings.Builder, layers *layering.Result, keep func(graph.Module) bool) {
	for i, phase := range layers.Phases {
		first := true
		for _, m := range phase {
			if !keep(m) {
				continue
			}
			label := t.moduleLabel(m, layers.Counts(m.ClassName))
			if first {
				fmt.Fprintf(b, "  Phase %d : %s\n", i, label)
				first = false
			} else {
				b.WriteString(continuation + label + "\n")
			}
		}
	}
}

func (t *Timeline) moduleLabel(m graph.Module, c layering.Counts) string {
	if !t.opts.ShowCounts {
		return m.ShortName
	}
	return fmt.Sprintf("%s (exports:%d, imports:%d)", m.ShortName, c.Exports, c.Imports)
}

var _ render.Renderer = (*Timeline)(nil)
