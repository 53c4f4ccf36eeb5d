package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/modgraph/pkg/classify"
	"github.com/matzehuels/modgraph/pkg/graph"
	"github.com/matzehuels/modgraph/pkg/render"
)

// FormatDOT is the registry name of the DOT renderer.
const FormatDOT = "dot"

const (
	fillInfrastructure = "#e1f5fe"
	fillDomain         = "#fff3e0"
)

// DOT renders the module graph as Graphviz DOT source. Modules that share an
// initialization phase are placed on the same rank, and fill colour encodes
// the infrastructure/domain label.
type DOT struct {
	opts       render.Options
	classifier *classify.Classifier
}

// NewDOT creates a DOT renderer. A nil classifier uses the default keywords.
func NewDOT(opts render.Options, c *classify.Classifier) *DOT {
	return &DOT{opts: opts, classifier: c}
}

// Register installs the DOT renderer in r.
func Register(r *render.Registry, c *classify.Classifier) {
	r.Register(FormatDOT, func(o render.Options) render.Renderer { return NewDOT(o, c) })
}

func (d *DOT) Metadata() render.Metadata {
	return render.Metadata{
		Name:        "Graphviz Renderer",
		Description: "Renders dependency graphs as Graphviz DOT with modules ranked by initialization phase.",
		Version:     "0.1.0",
	}
}

func (d *DOT) FileExtension() string { return "dot" }
func (d *DOT) MimeType() string      { return "text/vnd.graphviz" }
func (d *DOT) Description() string   { return "Graphviz node-link diagram" }

// Render implements [render.Renderer].
func (d *DOT) Render(g *graph.Graph) (string, error) {
	v := render.NewView(g, d.classifier)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, m := range v.Modules {
		attrs := d.fmtAttrs(m, v)
		fmt.Fprintf(&buf, "  %q [%s];\n", m.ClassName, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i, phase := range v.Layers.Phases {
		ids := make([]string, len(phase))
		for j, m := range phase {
			ids[j] = strconv.Quote(m.ClassName)
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; } // phase %d\n", strings.Join(ids, "; "), i)
	}

	buf.WriteString("\n")
	for _, e := range v.Edges {
		if !e.Resolved() {
			continue
		}
		if label := render.ServiceLabel(e.ImportedServices, d.opts); label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, label)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func (d *DOT) fmtLabel(m graph.Module) string {
	if !d.opts.ShowExports || !m.HasExports() {
		return m.ShortName
	}
	return m.ShortName + "\n" + strings.Join(render.ShortNames(m.Exports), "\n")
}

func (d *DOT) fmtAttrs(m graph.Module, v *render.View) []string {
	attrs := []string{fmt.Sprintf("label=%q", d.fmtLabel(m))}
	if v.Partition.Is(m.ClassName, classify.Infrastructure) {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fillInfrastructure))
	} else {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fillDomain))
	}
	if v.Unused[m.ClassName] {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

var _ render.Renderer = (*DOT)(nil)
