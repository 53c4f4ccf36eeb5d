package pipeline

import (
	"github.com/matzehuels/modgraph/pkg/classify"
	"github.com/matzehuels/modgraph/pkg/graph"
	"github.com/matzehuels/modgraph/pkg/graph/layering"
)

// Analysis is the renderer-independent summary of a module graph.
type Analysis struct {
	Layers      *layering.Result
	Partition   *classify.Partition
	Independent []graph.Module
	Unused      []graph.Module
	// Dangling lists edges with at least one unregistered endpoint.
	Dangling []graph.Edge
}

// Analyze computes phases, classification and the independent, unused and
// dangling sets of g using keywords kw.
func Analyze(g *graph.Graph, kw classify.Keywords) *Analysis {
	a := &Analysis{
		Layers:      layering.Compute(g),
		Partition:   classify.New(kw).Classify(g),
		Independent: g.IndependentModules(),
		Unused:      g.UnusedModules(),
	}
	for _, e := range g.ResolvedEdges() {
		if !e.Resolved() {
			a.Dangling = append(a.Dangling, e.Edge)
		}
	}
	return a
}
