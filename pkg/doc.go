// Package pkg provides the core libraries for Grantline timeline layout.
//
// # Overview
//
// Grantline turns raw research-proposal exports into positioned timeline
// data: rows become deduplicated proposals, principal investigators become
// ordered swimlanes, and dated proposals land on a zoomable pixel axis.
// The pkg directory is organized into four main areas:
//
//  1. Domain logic (proposal normalization, collaboration index, ordering, layout, viewport)
//  2. Orchestration (the recompute → project pipeline and its caching runner)
//  3. Serialization (timeline wire types, view state)
//  4. Infrastructure (caching, configuration, input sources, palettes)
//
// # Architecture
//
// The typical data flow through Grantline:
//
//	Raw rows (CSV / JSON export)
//	         ↓
//	    [proposal] package (normalize, dedupe, recover dates)
//	         ↓
//	    [collab] package (pair counts + collaboration weights)
//	         ↓
//	    [sequence] package (pinned + proximity swimlane ordering)
//	         ↓
//	    [layout] package (vertical gaps + fractional-year positions)
//	         ↓
//	    [viewport] package (zoom/pan clamping + pixel mapping + ticks)
//	         ↓
//	    JSON dataset / projection output
//
// # Quick Start
//
// Normalize rows and project a timeline:
//
//	import (
//	    "github.com/grantline/grantline/pkg/pipeline"
//	    "github.com/grantline/grantline/pkg/source"
//	)
//
//	// 1. Load raw rows
//	rows, _ := source.LoadFile("proposals.csv")
//
//	// 2. Normalize into proposals + collaboration index
//	data, _ := pipeline.Recompute(rows)
//
//	// 3. Project onto a positioned timeline
//	opts := pipeline.Options{Pin: "Curie", Zoom: 2}
//	proj, _ := pipeline.Project(data.Proposals, data.Index, opts)
//
// # Main Packages
//
// ## Domain Logic
//
// [proposal] - Row normalization. Flexible cells (strings, numbers, serial
// dates), the date-recovery ladder, duplicate merging, and the reject log.
//
// [collab] - Collaboration index. Counts shared proposals for every pair of
// investigators and derives per-PI weights and partner lists.
//
// [sequence] - Swimlane ordering. Places the pinned investigator first and
// orders the rest so frequent collaborators sit near each other.
//
// [layout] - Vertical layout. Converts the sequence into row offsets whose
// gaps shrink with collaboration strength, and dated proposals into
// fractional-year points.
//
// [viewport] - View transform. Clamps zoom and pan, maps years to pixels,
// and derives tick marks for the visible window.
//
// ## Orchestration
//
// [pipeline] - The recompute → project contract used by the CLI and the
// HTTP server, plus the caching Runner that wraps both stages.
//
// [view] - Stateful view session: dataset identity, pin and viewport state,
// and the command protocol (load, filter, viewport) with stale-load
// detection.
//
// ## Serialization
//
// [timeline] - Wire types for datasets and projections (JSON read/write).
//
// ## Infrastructure
//
// [source] - Input loading: CSV and JSON row parsing plus a caching HTTP
// fetcher for remote exports.
//
// [cache] - Result caching with file, Redis, and null backends and
// content-hash keys.
//
// [httputil] - Cached HTTP GET used by the fetcher.
//
// [config] - TOML configuration (grantline.toml) with strict key checking.
//
// [palette] - YAML theme manifests mapping proposal themes to colors.
//
// [buildinfo] - Version, commit, and build date injected at link time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/proposal/...     # Specific package
//
// [proposal]: https://pkg.go.dev/github.com/grantline/grantline/pkg/proposal
// [collab]: https://pkg.go.dev/github.com/grantline/grantline/pkg/collab
// [sequence]: https://pkg.go.dev/github.com/grantline/grantline/pkg/sequence
// [layout]: https://pkg.go.dev/github.com/grantline/grantline/pkg/layout
// [viewport]: https://pkg.go.dev/github.com/grantline/grantline/pkg/viewport
// [pipeline]: https://pkg.go.dev/github.com/grantline/grantline/pkg/pipeline
// [view]: https://pkg.go.dev/github.com/grantline/grantline/pkg/view
// [timeline]: https://pkg.go.dev/github.com/grantline/grantline/pkg/timeline
// [source]: https://pkg.go.dev/github.com/grantline/grantline/pkg/source
// [cache]: https://pkg.go.dev/github.com/grantline/grantline/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/grantline/grantline/pkg/httputil
// [config]: https://pkg.go.dev/github.com/grantline/grantline/pkg/config
// [palette]: https://pkg.go.dev/github.com/grantline/grantline/pkg/palette
// [buildinfo]: https://pkg.go.dev/github.com/grantline/grantline/pkg/buildinfo
package pkg
