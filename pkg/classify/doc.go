// Package classify labels modules as infrastructure or domain using a
// weighted heuristic.
//
// # Overview
//
// The classifier is intentionally approximate. It combines structural
// signals with keyword matches on the module's short name and exports:
//
//   - No declared imports: infra +3; otherwise domain +2
//   - Two or more incoming edges (a hub): infra +2
//   - Short name contains an infrastructure keyword: infra +1
//   - Short name contains a domain keyword: domain +1
//   - First export whose short name matches any keyword: +1 to that side
//   - Three or more exports: domain +1
//
// A module is infrastructure only if its infra score is strictly greater
// than its domain score; ties go to domain.
//
// # Keywords
//
// Keyword lists are passed to [New]. [DefaultKeywords] returns the built-in
// lists; callers typically start from it and override from configuration:
//
//	kw := classify.DefaultKeywords()
//	kw.Domain = append(kw.Domain, "invoice")
//	p := classify.New(kw).Classify(g)
//	for _, m := range p.Infrastructure() {
//	    fmt.Println(m.ShortName)
//	}
//
// Empty lists are allowed and reduce scoring to the structural signals.
package classify
