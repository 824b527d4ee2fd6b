// Package release orchestrates one release end to end.
//
// A release context carries the authoritative version and the ecosystem
// matrix through the chain
//
//	Builder -> gate -> Packager -> Version Synchronizer
//
// The gate refuses to proceed if any claimed (ecosystem, target) artifact
// failed to compile: a release never ships missing a platform it claims
// to support, and no best-effort partial release exists. The manifest
// batch write runs under a release-wide lock; nothing else
// release-producing may run concurrently with it.
package release
