package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/modgraph/pkg/graph"
)

type document struct {
	Modules []module `json:"modules"`
	Edges   []edge   `json:"edges"`
}

type module struct {
	Class     string   `json:"class"`
	ShortName string   `json:"short_name,omitempty"`
	Exports   []string `json:"exports,omitempty"`
	Imports   []string `json:"imports,omitempty"`
}

type edge struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Services []string `json:"services,omitempty"`
}

func toDocument(g *graph.Graph) document {
	mods := g.Modules()
	edges := g.Edges()
	out := document{
		Modules: make([]module, len(mods)),
		Edges:   make([]edge, len(edges)),
	}
	for i, m := range mods {
		out.Modules[i] = module{Class: m.ClassName, Exports: m.Exports, Imports: m.Imports}
		if m.ShortName != graph.ShortName(m.ClassName) {
			out.Modules[i].ShortName = m.ShortName
		}
	}
	for i, e := range edges {
		out.Edges[i] = edge{From: e.From, To: e.To, Services: e.ImportedServices}
	}
	return out
}

// WriteJSON encodes g as indented JSON and writes it to w.
// Modules and edges keep their insertion order, and short names are only
// written when they differ from the derived default, so the output can be
// re-imported with [ReadJSON] unchanged.
func WriteJSON(g *graph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalJSON returns the compact JSON encoding of g. The encoding is
// deterministic for a given graph and is used to derive cache keys.
func MarshalJSON(g *graph.Graph) ([]byte, error) {
	data, err := json.Marshal(toDocument(g))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
