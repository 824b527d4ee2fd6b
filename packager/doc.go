// Package packager assembles per-ecosystem distributable packages from
// compiled artifacts plus their third-party runtime libraries.
//
// The layout is a stable contract: one directory per target descriptor,
// each holding the binary, its runtime dependencies, and a manifest.json
// fragment enumerating exactly the files included. Downstream publish
// steps validate completeness against the fragment before shipping.
//
// Packaging is idempotent. Archives use fixed timestamps and sorted
// entries, so running the packager twice over unchanged inputs yields
// byte-identical output and publish retries are safe.
package packager
