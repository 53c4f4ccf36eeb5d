// Package io reads and writes module graphs in JSON and HCL.
//
// # Overview
//
// Module graphs are usually produced by an external scanner (a framework's
// container dump, a static analyser, a hand-written manifest). This package
// is the boundary where such input becomes a [graph.Graph]. Both formats
// describe the same two lists: modules and dependency edges.
//
// # JSON Format
//
//	{
//	  "modules": [
//	    {"class": "App\\DatabaseModule", "exports": ["App\\DatabaseService"]},
//	    {"class": "App\\UserModule", "imports": ["App\\DatabaseModule"]}
//	  ],
//	  "edges": [
//	    {"from": "App\\UserModule", "to": "App\\DatabaseModule",
//	     "services": ["App\\DatabaseService"]}
//	  ]
//	}
//
// Module fields:
//   - class: fully-qualified identifier (required, unique)
//   - short_name: display name (derived from class when omitted)
//   - exports: services the module provides
//   - imports: modules it declares as dependencies
//
// Edge fields are from, to and services. Edges may reference modules that
// are not listed; they are kept and handled by the analysis as dangling.
//
// # HCL Format
//
//	module "App/DatabaseModule" {
//	  exports = ["App/DatabaseService"]
//	}
//
//	module "App/UserModule" {
//	  imports = ["App/DatabaseModule"]
//	}
//
//	dependency {
//	  from     = "App/UserModule"
//	  to       = "App/DatabaseModule"
//	  services = ["App/DatabaseService"]
//	}
//
// # Loading
//
// [Load] picks the decoder from the file extension (".json" or ".hcl").
// [ReadJSON] and [ReadHCL] decode from an [io.Reader]; [WriteJSON] and
// [ExportJSON] write the JSON form back out, so a graph read from HCL can
// be converted to JSON and re-imported identically.
//
// Duplicate module identifiers are rejected with an error wrapping
// [graph.ErrDuplicateModule].
package io
