// Package mermaid renders module dependency graphs as Mermaid diagrams.
//
// # Renderers
//
//   - [Flowchart]: "graph LR" with one node per module (optionally listing
//     exports) and one arrow per resolved edge, labelled with the imported
//     services.
//   - [ClassDiagram]: one class per module with exports as public members
//     and dashed "..>" relations for dependencies.
//   - [Timeline]: modules grouped into initialization phases, split into
//     Infrastructure and Domain sections.
//
// Independent modules (no declared imports) and unused modules (never
// depended on) are styled in the flowchart and class diagram.
//
// Edges whose endpoints are not registered in the graph are skipped.
//
// # Usage
//
//	reg := render.NewRegistry()
//	mermaid.Register(reg, classify.NewDefault())
//	r, _ := reg.New(mermaid.FormatTimeline, render.DefaultOptions())
//	out, _ := r.Render(g)
package mermaid
