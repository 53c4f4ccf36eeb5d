package io

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/matzehuels/modgraph/pkg/graph"
)

// hclRoot is the top-level structure of an HCL graph file.
type hclRoot struct {
	Modules      []*hclModule     `hcl:"module,block"`
	Dependencies []*hclDependency `hcl:"dependency,block"`
	Remain       hcl.Body         `hcl:",remain"`
}

type hclModule struct {
	Class     string   `hcl:"class,label"`
	ShortName string   `hcl:"short_name,optional"`
	Exports   []string `hcl:"exports,optional"`
	Imports   []string `hcl:"imports,optional"`
}

type hclDependency struct {
	From     string   `hcl:"from"`
	To       string   `hcl:"to"`
	Services []string `hcl:"services,optional"`
}

// ReadHCL decodes an HCL module graph from r. The filename is used only in
// diagnostics. Unknown top-level blocks and attributes are ignored so graph
// files can carry other tooling configuration.
func ReadHCL(r io.Reader, filename string) (*graph.Graph, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root hclRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	doc := document{
		Modules: make([]module, len(root.Modules)),
		Edges:   make([]edge, len(root.Dependencies)),
	}
	for i, m := range root.Modules {
		doc.Modules[i] = module{Class: m.Class, ShortName: m.ShortName, Exports: m.Exports, Imports: m.Imports}
	}
	for i, d := range root.Dependencies {
		doc.Edges[i] = edge{From: d.From, To: d.To, Services: d.Services}
	}
	return doc.build()
}

// ImportHCL reads an HCL graph file at path.
func ImportHCL(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadHCL(f, path)
}
