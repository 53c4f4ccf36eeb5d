package classify

import (
	"slices"
	"strings"

	"github.com/matzehuels/modgraph/pkg/graph"
)

// Label is the category assigned to a module.
type Label string

const (
	Infrastructure Label = "infrastructure"
	Domain         Label = "domain"
)

// Scoring weights.
const (
	weightNoImports   = 3 // infra: module declares no imports
	weightHasImports  = 2 // domain: module declares imports
	weightHub         = 2 // infra: incoming degree of hubThreshold or more
	weightKeyword     = 1 // name or export keyword match
	weightManyExports = 1 // domain: manyExportsCount or more exports
)

const (
	hubThreshold     = 2
	manyExportsCount = 3
)

// Keywords configures the name-matching part of the heuristic. Matching is a
// case-insensitive substring test.
type Keywords struct {
	Infrastructure []string `toml:"infrastructure" json:"infrastructure"`
	Domain         []string `toml:"domain" json:"domain"`
}

// DefaultKeywords returns a fresh copy of the built-in keyword lists.
func DefaultKeywords() Keywords {
	return Keywords{
		Infrastructure: []string{
			"config", "configuration", "database", "db", "connection", "query", "repository", "storage",
			"cache", "logger", "log", "http", "client", "adapter", "driver", "queue", "kafka", "redis",
			"mail", "email", "sms", "notification", "transport",
		},
		Domain: []string{
			"user", "account", "profile", "order", "product", "catalog", "inventory", "payment",
			"billing", "pricing", "checkout", "cart", "shipping", "delivery", "loyalty", "search",
		},
	}
}

// Score is the pair of accumulated scores for one module.
type Score struct {
	Infra  int `json:"infra"`
	Domain int `json:"domain"`
}

// Label returns Infrastructure if the infra score strictly wins, else Domain.
func (s Score) Label() Label {
	if s.Infra > s.Domain {
		return Infrastructure
	}
	return Domain
}

// Classifier labels modules as infrastructure or domain.
// A Classifier is immutable after [New] and safe for concurrent use.
type Classifier struct {
	infra  []string
	domain []string
}

// New creates a classifier with the given keyword lists. Keywords are
// lower-cased and empty entries are dropped; empty lists disable keyword
// scoring and leave only the structural signals.
func New(kw Keywords) *Classifier {
	return &Classifier{
		infra:  normalize(kw.Infrastructure),
		domain: normalize(kw.Domain),
	}
}

// NewDefault creates a classifier using [DefaultKeywords].
func NewDefault() *Classifier { return New(DefaultKeywords()) }

func normalize(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// Keywords returns a copy of the normalized keyword lists.
func (c *Classifier) Keywords() Keywords {
	return Keywords{Infrastructure: slices.Clone(c.infra), Domain: slices.Clone(c.domain)}
}

// Classify scores every module of g and returns the resulting partition.
// Every module receives exactly one label; ties go to Domain.
func (c *Classifier) Classify(g *graph.Graph) *Partition {
	modules := g.Modules()

	incoming := make(map[string]int, len(modules))
	for _, e := range g.Edges() {
		incoming[e.To]++
	}

	p := &Partition{
		modules: modules,
		labels:  make(map[string]Label, len(modules)),
		scores:  make(map[string]Score, len(modules)),
	}
	for _, m := range modules {
		s := c.Score(m, incoming[m.ClassName])
		p.scores[m.ClassName] = s
		p.labels[m.ClassName] = s.Label()
	}
	return p
}

// Score computes the infra and domain scores of m given its incoming edge count.
func (c *Classifier) Score(m graph.Module, incomingDegree int) Score {
	var s Score

	if m.ImportCount() == 0 {
		s.Infra += weightNoImports
	} else {
		s.Domain += weightHasImports
	}

	if incomingDegree >= hubThreshold {
		s.Infra += weightHub
	}

	name := strings.ToLower(m.ShortName)
	if containsAny(name, c.infra) {
		s.Infra += weightKeyword
	}
	if containsAny(name, c.domain) {
		s.Domain += weightKeyword
	}

	// Only the first export that matches anything contributes.
	for _, export := range m.Exports {
		short := strings.ToLower(graph.ShortName(export))
		if containsAny(short, c.infra) {
			s.Infra += weightKeyword
			break
		}
		if containsAny(short, c.domain) {
			s.Domain += weightKeyword
			break
		}
	}

	if m.ExportCount() >= manyExportsCount {
		s.Domain += weightManyExports
	}

	return s
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// Partition is the result of [Classifier.Classify].
type Partition struct {
	modules []graph.Module
	labels  map[string]Label
	scores  map[string]Score
}

// Label returns the label of the module with class name id.
// ok is false for modules that were not part of the classified graph.
func (p *Partition) Label(id string) (Label, bool) {
	l, ok := p.labels[id]
	return l, ok
}

// Is reports whether the module with class name id carries label l.
func (p *Partition) Is(id string, l Label) bool { return p.labels[id] == l }

// Score returns the scores that produced the label of id.
func (p *Partition) Score(id string) Score { return p.scores[id] }

// Infrastructure returns the infrastructure modules in graph order.
func (p *Partition) Infrastructure() []graph.Module { return p.filter(Infrastructure) }

// Domain returns the domain modules in graph order.
func (p *Partition) Domain() []graph.Module { return p.filter(Domain) }

// Labels returns a copy of the class name to label mapping.
func (p *Partition) Labels() map[string]Label {
	out := make(map[string]Label, len(p.labels))
	for k, v := range p.labels {
		out[k] = v
	}
	return out
}

func (p *Partition) filter(l Label) []graph.Module {
	var out []graph.Module
	for _, m := range p.modules {
		if p.labels[m.ClassName] == l {
			out = append(out, m)
		}
	}
	return out
}
