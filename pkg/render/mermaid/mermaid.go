package mermaid

import (
	"github.com/matzehuels/modgraph/pkg/classify"
	"github.com/matzehuels/modgraph/pkg/render"
)

// Shared renderer metadata.
const (
	Version       = "0.1.0"
	FileExtension = "mmd"
	MimeType      = "text/plain"
)

// Format names under which [Register] installs the renderers.
const (
	FormatFlowchart    = "flowchart"
	FormatClassDiagram = "class"
	FormatTimeline     = "timeline"
)

// Register installs the flowchart, class diagram and timeline renderers in r.
// All three share classifier c; nil means default keywords.
func Register(r *render.Registry, c *classify.Classifier) {
	r.Register(FormatFlowchart, func(o render.Options) render.Renderer { return NewFlowchart(o, c) })
	r.Register(FormatClassDiagram, func(o render.Options) render.Renderer { return NewClassDiagram(o, c) })
	r.Register(FormatTimeline, func(o render.Options) render.Renderer { return NewTimeline(o, c) })
}
