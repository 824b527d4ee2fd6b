// Package handle implements the resource lifecycle half of the boundary:
// a table mapping opaque integer handles to core-owned values, with
// at-most-one release per handle.
//
// # Lifecycle
//
// A handle is valid from the Acquire that creates it until the Release
// that invalidates it:
//
//	table := handle.NewTable()
//
//	h, err := table.Acquire(doc)
//
//	value, ok := table.Get(h)
//
//	value, serr := table.Release(h)   // serr == nil exactly once
//
// Double release and use-after-release are both detected and reported as
// invalid_handle, never a crash: slots carry a generation that changes on
// every release, so a stale handle misses even after its slot is recycled.
//
// # Memory Management
//
// The table never auto-reclaims. Handles not explicitly released stay
// outstanding until Close. Bindings running under a garbage-collected host
// attach the handle to a host-side finalizer that calls Release: the
// boundary grants a loan, the host's GC is responsible for returning it.
package handle
