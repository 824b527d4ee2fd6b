// Package boundary exposes a core as a flat, C-callable function surface:
// only primitive scalars, length-delimited byte buffers, and handles cross
// the line. No exceptions, no generics, no implicit NUL-terminated strings.
//
// # Call Contract
//
// Every fallible call returns a status code. On failure it populates the
// errOut cell (when non-nil) and leaves all other out-parameters
// untouched; a caller never observes partially-initialized output.
//
// # Safety Contract
//
// Each pointer parameter's validity, alignment, and lifetime is documented
// in the symbol table and rendered into the generated C header. Input
// buffers are borrowed for the call only and copied before the core can
// retain them. A caller violating a pointer contract is undefined
// behavior at the boundary; each binding validates on its own side.
//
// # Concurrency
//
// Calls are synchronous and safe to issue from multiple workers at once.
// The boundary provides no asynchronous primitives and no mid-call
// cancellation; a host that needs async dispatches the call to a worker
// and abandons the result to cancel.
package boundary
