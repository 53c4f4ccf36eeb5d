package render

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/modgraph/pkg/classify"
	"github.com/matzehuels/modgraph/pkg/graph"
	"github.com/matzehuels/modgraph/pkg/graph/layering"
)

// ErrUnknownFormat is returned by [Registry.New] for a format that has not
// been registered.
var ErrUnknownFormat = errors.New("unknown format")

// Default option values.
const (
	DefaultMaxServiceLength = 50
	DefaultTimelineTitle    = "Module initialization timeline"
	ellipsis                = "..."
)

// Metadata describes a renderer for listings and plugin discovery.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// Renderer turns a module graph into diagram text.
// Implementations must be deterministic: identical graphs produce identical
// output.
type Renderer interface {
	Render(g *graph.Graph) (string, error)
	Metadata() Metadata
	FileExtension() string
	MimeType() string
	Description() string
}

// Options holds the formatting flags of all renderers. Each renderer reads
// the fields that apply to it.
type Options struct {
	ShowExports      bool `toml:"show_exports" json:"show_exports"`
	ShowServices     bool `toml:"show_services" json:"show_services"`
	MaxServiceLength int  `toml:"max_service_length" json:"max_service_length"`

	// Timeline only.
	Title      string `toml:"title" json:"title"`
	ShowCounts bool   `toml:"show_counts" json:"show_counts"`
}

// DefaultOptions returns options with exports, service labels and counts
// enabled, a 50 character label limit and the default timeline title.
func DefaultOptions() Options {
	return Options{
		ShowExports:      true,
		ShowServices:     true,
		MaxServiceLength: DefaultMaxServiceLength,
		Title:            DefaultTimelineTitle,
		ShowCounts:       true,
	}
}

// View bundles everything a renderer needs from the analysis core. Renderers
// should build their output purely from a View plus their own options.
type View struct {
	Modules     []graph.Module
	Edges       []graph.ResolvedEdge
	Independent map[string]bool
	Unused      map[string]bool
	Layers      *layering.Result
	Partition   *classify.Partition

	independent []graph.Module
	unused      []graph.Module
}

// NewView analyzes g. A nil classifier uses the default keywords.
func NewView(g *graph.Graph, c *classify.Classifier) *View {
	if c == nil {
		c = classify.NewDefault()
	}
	v := &View{
		Modules:     g.Modules(),
		Edges:       g.ResolvedEdges(),
		Independent: make(map[string]bool),
		Unused:      make(map[string]bool),
		Layers:      layering.Compute(g),
		Partition:   c.Classify(g),
		independent: g.IndependentModules(),
		unused:      g.UnusedModules(),
	}
	for _, m := range v.independent {
		v.Independent[m.ClassName] = true
	}
	for _, m := range v.unused {
		v.Unused[m.ClassName] = true
	}
	return v
}

// IndependentModules returns modules without declared imports, in module order.
func (v *View) IndependentModules() []graph.Module { return v.independent }

// UnusedModules returns modules no edge points to, in module order.
func (v *View) UnusedModules() []graph.Module { return v.unused }

// ServiceLabel joins the short names of an edge's imported services with
// ", " and truncates the result to opts.MaxServiceLength. It returns "" when
// service labels are disabled or the edge carries no services.
func ServiceLabel(services []string, opts Options) string {
	if !opts.ShowServices || len(services) == 0 {
		return ""
	}
	return TruncateLabel(strings.Join(ShortNames(services), ", "), opts.MaxServiceLength)
}

// TruncateLabel shortens s to limit bytes by keeping at most the first
// limit-3 bytes and appending "...". The cut backs off to a rune boundary so
// the result stays valid UTF-8. Strings that fit are returned unchanged.
func TruncateLabel(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	keep := max(limit-len(ellipsis), 0)
	for keep > 0 && !utf8.RuneStart(s[keep]) {
		keep--
	}
	return s[:keep] + ellipsis
}

var unsafeIDChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// SanitizeID replaces every character outside [a-zA-Z0-9_] with an underscore
// so that the result is a valid diagram identifier.
func SanitizeID(name string) string {
	return unsafeIDChars.ReplaceAllString(name, "_")
}

// ShortNames maps identifiers to their short names.
func ShortNames(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = graph.ShortName(id)
	}
	return out
}

// Factory builds a renderer from shared options.
type Factory func(opts Options) Renderer

// Registry maps format names to renderer factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name, replacing any previous registration.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Names returns the registered format names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.factories))
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// New builds the renderer registered under name.
func (r *Registry) New(name string, opts Options) (Renderer, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	return f(opts), nil
}
