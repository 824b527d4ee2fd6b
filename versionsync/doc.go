// Package versionsync enforces one release version across every binding
// manifest.
//
// The core manifest is the single source of truth. A sync pass stages a
// rewrite of every binding manifest's version field, commits them as one
// batch with rollback on any write failure, then re-reads everything and
// asserts textual equality with the authoritative value. The version
// string must be identical across manifests with no pre-release suffix
// divergence.
//
// A pass over already-synchronized manifests rewrites nothing and reports
// no mismatch.
package versionsync
