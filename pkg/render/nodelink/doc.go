// Package nodelink renders module dependency graphs as Graphviz node-link
// diagrams.
//
// # Overview
//
// [DOT] emits Graphviz DOT source. Modules are boxes filled by their
// classification (infrastructure or domain), unused modules get a dashed
// outline, and modules in the same initialization phase share a rank so the
// diagram reads bottom-up in boot order.
//
//	r := nodelink.NewDOT(render.DefaultOptions(), classify.NewDefault())
//	dot, _ := r.Render(g)
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Dependencies
//
// [RenderSVG] uses [github.com/goccy/go-graphviz] to lay out and render the
// DOT source in-process.
package nodelink
