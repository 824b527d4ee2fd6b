package status

import (
	"encoding/json"
	"io"
)

// Entry describes one error kind in the canonical translation table. Each
// binding generates its (code -> host-native error type) mapping from this
// enumeration instead of hand-duplicating it per language.
type Entry struct {
	Name      string `json:"name"`
	Doc       string `json:"doc"`
	Code      Code   `json:"code"`
	Retryable bool   `json:"retryable"`
}

var table = []Entry{
	{Code: CodeOK, Name: "ok", Doc: "call succeeded"},
	{Code: CodeInvalidArgument, Name: "invalid_argument",
		Doc: "caller violated a documented precondition"},
	{Code: CodeInvalidHandle, Name: "invalid_handle",
		Doc: "use of a released or unknown handle"},
	{Code: CodeCoreFailure, Name: "core_failure",
		Doc: "the underlying operation failed for domain reasons"},
	{Code: CodeResourceExhausted, Name: "resource_exhausted",
		Doc: "allocation or memory failure at the boundary", Retryable: true},
	{Code: CodePlatformUnsupported, Name: "platform_unsupported",
		Doc: "no artifact exists for the caller's target"},
}

// Table returns the canonical error-kind enumeration. The returned slice
// is a copy; callers may reorder it freely.
func Table() []Entry {
	out := make([]Entry, len(table))
	copy(out, table)
	return out
}

// WriteTable emits the translation table as JSON for binding generators.
func WriteTable(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(table)
}
