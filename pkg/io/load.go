package io

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matzehuels/modgraph/pkg/graph"
)

// ErrUnsupportedFormat is returned by [Load] for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported graph file format")

// Formats lists the file extensions [Load] understands.
var Formats = []string{".json", ".hcl"}

// Load reads a graph file, choosing the decoder by extension.
func Load(path string) (*graph.Graph, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ImportJSON(path)
	case ".hcl":
		return ImportHCL(path)
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnsupportedFormat, ext, strings.Join(Formats, ", "))
	}
}
