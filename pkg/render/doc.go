// Package render defines the contract between the analysis core and the
// diagram emitters.
//
// # Overview
//
// Every output format implements [Renderer]. A renderer receives the module
// graph and derives what it needs through [NewView], which bundles the
// artifacts computed by the core:
//
//   - ordered modules and resolved edges (nil endpoint = unresolved)
//   - independent modules (no declared imports)
//   - unused modules (never targeted by an edge)
//   - phase ordering from [layering]
//   - infrastructure/domain partition from [classify]
//
// Output must be a deterministic function of these artifacts plus the
// renderer's [Options].
//
// # Labels
//
// [ServiceLabel] joins the short names of the services on an edge and
// applies [TruncateLabel]: labels longer than MaxServiceLength keep the first
// MaxServiceLength-3 bytes followed by "...".
//
// # Formats
//
// The [mermaid] subpackage provides flowchart, class diagram and timeline
// renderers. The [nodelink] subpackage emits Graphviz DOT and can render it
// to SVG. Formats are looked up by name through a [Registry].
//
// [layering]: github.com/matzehuels/modgraph/pkg/graph/layering
// [classify]: github.com/matzehuels/modgraph/pkg/classify
// [mermaid]: github.com/matzehuels/modgraph/pkg/render/mermaid
// [nodelink]: github.com/matzehuels/modgraph/pkg/render/nodelink
package render
