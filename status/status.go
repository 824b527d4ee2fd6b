package status

import (
	"fmt"
	"sort"
	"strings"
)

// Code is the numeric status returned by every fallible boundary call.
// Codes are part of the versioned ABI and are never renumbered or reused.
type Code int32

const (
	CodeOK                  Code = 0
	CodeInvalidArgument     Code = 1
	CodeInvalidHandle       Code = 2
	CodeCoreFailure         Code = 3
	CodeResourceExhausted   Code = 4
	CodePlatformUnsupported Code = 5
)

// codeNames is indexed by Code. Append-only.
var codeNames = [...]string{
	CodeOK:                  "ok",
	CodeInvalidArgument:     "invalid_argument",
	CodeInvalidHandle:       "invalid_handle",
	CodeCoreFailure:         "core_failure",
	CodeResourceExhausted:   "resource_exhausted",
	CodePlatformUnsupported: "platform_unsupported",
}

// String returns the stable name for a code.
func (c Code) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return fmt.Sprintf("code(%d)", int32(c))
	}
	return codeNames[c]
}

// Error is the boundary-stable representation of a failure: a stable code,
// a human-readable message, and an optional structured payload. It is
// created at the failing call and consumed exactly once by the caller;
// the boundary never drops one silently.
type Error struct {
	Cause   error
	Payload map[string]string
	Detail  string
	Code    Code
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(e.Code.String())
	b.WriteByte(']')

	if e.Detail != "" {
		b.WriteByte(' ')
		b.WriteString(e.Detail)
	}

	if len(e.Payload) > 0 {
		b.WriteString(" {")
		first := true
		for _, k := range sortedKeys(e.Payload) {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(e.Payload[k])
		}
		b.WriteByte('}')
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New creates a new error builder for a code.
func New(code Code) *Builder {
	return &Builder{err: Error{Code: code}}
}

// Detail sets the human-readable detail message.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Payload attaches one structured payload field.
func (b *Builder) Payload(key, value string) *Builder {
	if b.err.Payload == nil {
		b.err.Payload = make(map[string]string)
	}
	b.err.Payload[key] = value
	return b
}

// Cause sets the underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Build returns the constructed error.
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the boundary's common failure shapes.

// InvalidArgument reports a caller-violated precondition.
func InvalidArgument(detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{Code: CodeInvalidArgument, Detail: detail}
}

// InvalidHandle reports use of a released or unknown handle.
func InvalidHandle(h uint64) *Error {
	return &Error{
		Code:    CodeInvalidHandle,
		Detail:  fmt.Sprintf("handle %#x is released or unknown", h),
		Payload: map[string]string{"handle": fmt.Sprintf("%#x", h)},
	}
}

// CoreFailure wraps a domain failure from the underlying core.
func CoreFailure(cause error) *Error {
	detail := "core operation failed"
	if cause != nil {
		detail = cause.Error()
	}
	return &Error{Code: CodeCoreFailure, Detail: detail, Cause: cause}
}

// ResourceExhausted reports an allocation failure at the boundary.
func ResourceExhausted(what string) *Error {
	return &Error{
		Code:   CodeResourceExhausted,
		Detail: fmt.Sprintf("failed to allocate %s", what),
	}
}

// PlatformUnsupported reports that no artifact exists for a target.
func PlatformUnsupported(platform string) *Error {
	return &Error{
		Code:    CodePlatformUnsupported,
		Detail:  fmt.Sprintf("no artifact for platform %s", platform),
		Payload: map[string]string{"platform": platform},
	}
}
