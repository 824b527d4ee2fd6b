package status

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Code:    CodeInvalidArgument,
				Detail:  "null buffer with nonzero length",
				Payload: map[string]string{"length": "16"},
			},
			contains: []string{"[invalid_argument]", "null buffer", "length=16"},
		},
		{
			name:     "minimal error",
			err:      &Error{Code: CodeInvalidHandle},
			contains: []string{"[invalid_handle]"},
		},
		{
			name: "error with cause",
			err: &Error{
				Code:   CodeCoreFailure,
				Detail: "extraction failed",
				Cause:  errors.New("unsupported payload"),
			},
			contains: []string{"[core_failure]", "extraction failed", "caused by", "unsupported payload"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err := InvalidHandle(0x42)

	if !errors.Is(err, &Error{Code: CodeInvalidHandle}) {
		t.Error("expected match on code")
	}
	if errors.Is(err, &Error{Code: CodeCoreFailure}) {
		t.Error("unexpected match on different code")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := CoreFailure(cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause")
	}
}

func TestBuilder(t *testing.T) {
	err := New(CodeResourceExhausted).
		Detail("failed to allocate %d bytes", 1024).
		Payload("size", "1024").
		Build()

	if err.Code != CodeResourceExhausted {
		t.Fatalf("wrong code: %v", err.Code)
	}
	if !strings.Contains(err.Detail, "1024") {
		t.Fatalf("detail not formatted: %q", err.Detail)
	}
	if err.Payload["size"] != "1024" {
		t.Fatal("payload not set")
	}
}

func TestCode_String_Unknown(t *testing.T) {
	if got := Code(99).String(); got != "code(99)" {
		t.Fatalf("unexpected name for unknown code: %q", got)
	}
}

func TestTable_CodesAreStable(t *testing.T) {
	// Renumbering any of these breaks every binding's generated mapping.
	want := map[string]Code{
		"ok":                   0,
		"invalid_argument":     1,
		"invalid_handle":       2,
		"core_failure":         3,
		"resource_exhausted":   4,
		"platform_unsupported": 5,
	}

	entries := Table()
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for _, e := range entries {
		code, ok := want[e.Name]
		if !ok {
			t.Errorf("unexpected entry %q", e.Name)
			continue
		}
		if e.Code != code {
			t.Errorf("entry %q has code %d, want %d", e.Name, e.Code, code)
		}
	}
}

func TestWriteTable_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	var decoded []Entry
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != len(Table()) {
		t.Fatalf("expected %d entries, got %d", len(Table()), len(decoded))
	}
}
