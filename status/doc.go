// Package status defines the boundary-stable error representation shared by
// every binding: a stable numeric code, a human-readable message, and an
// optional structured payload.
//
// Codes are ABI. They are append-only and never renumbered; a host that
// sees an unknown code treats it as core_failure.
//
// Use the Builder for structured construction:
//
//	err := status.New(status.CodeInvalidArgument).
//		Detail("null buffer with nonzero length %d", n).
//		Payload("length", strconv.Itoa(n)).
//		Build()
//
// Or the convenience constructors:
//
//	err := status.InvalidHandle(uint64(h))
//	err := status.CoreFailure(cause)
//
// All errors implement the standard error interface and support
// errors.Is/As. The canonical Table drives each binding's generated
// (code -> host exception) mapping so no language hand-maintains its own.
package status
