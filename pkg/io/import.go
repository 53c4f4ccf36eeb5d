package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/modgraph/pkg/graph"
)

// ReadJSON decodes a JSON module graph from r.
//
// The input must be an object with "modules" and "edges" arrays. Each module
// needs a "class"; edges need "from" and "to". ReadJSON returns an error if
// the JSON is malformed, a module has no class, or a class is listed twice.
// Errors name the offending module and wrap the [graph] sentinel, so
// errors.Is works against [graph.ErrDuplicateModule] and
// [graph.ErrInvalidModuleID].
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return data.build()
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func (d document) build() (*graph.Graph, error) {
	g := graph.New()
	for i, m := range d.Modules {
		err := g.AddModule(graph.Module{
			ClassName: m.Class,
			ShortName: m.ShortName,
			Exports:   m.Exports,
			Imports:   m.Imports,
		})
		if err != nil {
			if m.Class == "" {
				return nil, fmt.Errorf("module #%d: %w", i, err)
			}
			return nil, fmt.Errorf("module %s: %w", m.Class, err)
		}
	}
	for _, e := range d.Edges {
		g.AddEdge(graph.Edge{From: e.From, To: e.To, ImportedServices: e.Services})
	}
	return g, nil
}
