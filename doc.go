// Package corebridge distributes one native document-extraction core to
// many host-language ecosystems from a single source tree.
//
// The extraction engine itself is an external collaborator behind the Core
// interface. What this module owns is everything between that engine and a
// published binding package: the C-compatible call surface, the handle
// lifecycle across the ownership discontinuity, and the release pipeline
// that builds, packages, and version-synchronizes a native artifact for
// every (ecosystem, target) combination.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	corebridge/          Root package with the Core and Document contracts
//	├── status/          Boundary-stable error representation and code table
//	├── handle/          Handle table with at-most-one release semantics
//	├── boundary/        Flat C-callable function surface over a Core
//	├── target/          Target descriptors, ecosystems, artifact naming
//	├── buildkit/        Per-target artifact builds with failure isolation
//	├── packager/        Deterministic per-ecosystem package assembly
//	├── versionsync/     Atomic version rewrite across binding manifests
//	└── release/         Release context and pipeline orchestration
//
// # Quick Start
//
// Serve a core across the boundary:
//
//	api := boundary.New(core)
//	defer api.Close()
//
//	var h handle.Handle
//	var berr status.Error
//	if api.OpenDocument(data, &h, &berr) != status.CodeOK {
//	    return berr.Err()
//	}
//	defer api.CloseDocument(h, nil)
//
// Run a release:
//
//	rel := release.NewContext(version, ecosystems, opts)
//	report, err := release.NewPipeline(rel, toolchain).Run(ctx)
package corebridge
