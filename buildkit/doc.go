// Package buildkit compiles the boundary layer into per-target artifacts.
//
// Each (ecosystem, target) job runs the state machine
//
//	Pending -> Compiling -> Compiled | Failed
//
// with guarded transitions. Jobs are isolated: one target's compile
// failure never aborts the others, but any Failed artifact fails the
// overall release gate, so a release never ships missing a platform it
// claims to support.
//
// WasmModule-shaped artifacts are additionally compile-validated with
// wazero before they may be marked Compiled, including a check that the
// exported symbol set is present.
package buildkit
