// Package pipeline runs the load → analyze → render flow shared by the CLI
// and the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a graph file (JSON or HCL) into a [graph.Graph]
//  2. Analyze: compute initialization phases and the infrastructure/domain
//     partition
//  3. Render: produce diagram text in one or more formats
//
// Rendered artifacts are cached by content: the key covers the graph, the
// format, the render options and the classifier keywords, so a cache hit is
// byte-identical to a fresh render.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	g, err := runner.Load(ctx, "modules.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, g, pipeline.Options{
//	    Formats: []string{"flowchart", "timeline"},
//	})
//	timeline := result.Artifacts["timeline"]
//
// The analysis on its own:
//
//	a := pipeline.Analyze(g, classify.DefaultKeywords())
//	for i, phase := range a.Layers.Phases { ... }
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modgraph/pkg/cache"
	"github.com/matzehuels/modgraph/pkg/classify"
	"github.com/matzehuels/modgraph/pkg/graph"
	"github.com/matzehuels/modgraph/pkg/render"
	"github.com/matzehuels/modgraph/pkg/render/mermaid"
	"github.com/matzehuels/modgraph/pkg/render/nodelink"
)

// FormatSVG renders the DOT diagram through Graphviz.
const FormatSVG = "svg"

// DefaultFormats is used when no format is requested.
var DefaultFormats = []string{mermaid.FormatFlowchart}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains the configuration of a render run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Formats  []string          `json:"formats,omitempty"`
	Render   render.Options    `json:"render"`
	Keywords classify.Keywords `json:"keywords"`
	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// DefaultOptions returns options for the default format with default render
// options and keywords.
func DefaultOptions() Options {
	return Options{
		Formats:  slices.Clone(DefaultFormats),
		Render:   render.DefaultOptions(),
		Keywords: classify.DefaultKeywords(),
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the rendered module graph.
	Graph *graph.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Analysis holds phases and the classification.
	Analysis *Analysis

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ModuleCount int
	EdgeCount   int
	PhaseCount  int
	AnalyzeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits per format.
type CacheInfo struct {
	Hits map[string]bool
}

// AllHit reports whether every artifact was served from the cache.
func (c CacheInfo) AllHit() bool {
	if len(c.Hits) == 0 {
		return false
	}
	for _, hit := range c.Hits {
		if !hit {
			return false
		}
	}
	return true
}

// =============================================================================
// Registry
// =============================================================================

// NewRegistry returns a registry holding every built-in renderer. All
// renderers share classifier c.
func NewRegistry(c *classify.Classifier) *render.Registry {
	reg := render.NewRegistry()
	mermaid.Register(reg, c)
	nodelink.Register(reg, c)
	return reg
}

// Formats lists every format the pipeline can produce, sorted.
func Formats() []string {
	names := append(NewRegistry(nil).Names(), FormatSVG)
	slices.Sort(names)
	return names
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats(), format) {
		return fmt.Errorf("%w: %q (must be one of: %s)", render.ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the requested formats and fills defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(DefaultFormats)
	}
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Render.MaxServiceLength <= 0 {
		o.Render.MaxServiceLength = render.DefaultMaxServiceLength
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// KeyOpts returns cache key options for rendering format.
func (o *Options) KeyOpts(format string) cache.RenderKeyOpts {
	kw := classify.New(o.Keywords).Keywords()
	return cache.RenderKeyOpts{
		Format:           format,
		ShowExports:      o.Render.ShowExports,
		ShowServices:     o.Render.ShowServices,
		MaxServiceLength: o.Render.MaxServiceLength,
		Title:            o.Render.Title,
		ShowCounts:       o.Render.ShowCounts,
		Infrastructure:   kw.Infrastructure,
		Domain:           kw.Domain,
	}
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
