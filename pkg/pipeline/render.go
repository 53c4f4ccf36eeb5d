package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/modgraph/pkg/classify"
	"github.com/matzehuels/modgraph/pkg/graph"
	"github.com/matzehuels/modgraph/pkg/render"
	"github.com/matzehuels/modgraph/pkg/render/nodelink"
)

// Render generates artifacts for every format in opts without caching.
// Formats must already be validated.
func Render(ctx context.Context, g *graph.Graph, opts Options) (map[string][]byte, error) {
	reg := NewRegistry(classify.New(opts.Keywords))
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, reg, g, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, reg *render.Registry, g *graph.Graph, format string, opts Options) ([]byte, error) {
	if format == FormatSVG {
		r, err := reg.New(nodelink.FormatDOT, opts.Render)
		if err != nil {
			return nil, err
		}
		dot, err := r.Render(g)
		if err != nil {
			return nil, err
		}
		return nodelink.RenderSVG(ctx, dot)
	}

	r, err := reg.New(format, opts.Render)
	if err != nil {
		return nil, err
	}
	out, err := r.Render(g)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}
