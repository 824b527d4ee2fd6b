package boundary

import (
	"bytes"
	"strings"
	"testing"
)

func TestSymbols_StableSet(t *testing.T) {
	// Symbol names and parameter order are ABI; this list changing means
	// a major version bump across every binding manifest.
	want := []string{
		"corebridge_open_document",
		"corebridge_extract_text",
		"corebridge_document_metadata",
		"corebridge_close_document",
		"corebridge_version",
	}

	syms := Symbols()
	if len(syms) != len(want) {
		t.Fatalf("expected %d symbols, got %d", len(want), len(syms))
	}
	for i, name := range want {
		if syms[i].Name != name {
			t.Errorf("symbol %d: got %q, want %q", i, syms[i].Name, name)
		}
	}
}

func TestSymbols_EveryPointerDocumentsContract(t *testing.T) {
	for _, sym := range Symbols() {
		for _, p := range sym.Params {
			if !strings.Contains(p.CType, "*") {
				continue
			}
			if p.Contract == "" {
				t.Errorf("%s: pointer parameter %q has no contract", sym.Name, p.Name)
			}
		}
	}
}

func TestWriteHeader_Deterministic(t *testing.T) {
	var first, second bytes.Buffer
	if err := WriteHeader(&first); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}
	if err := WriteHeader(&second); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatal("header generation is not deterministic")
	}
}

func TestWriteHeader_Content(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHeader(&buf); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}
	header := buf.String()

	for _, want := range []string{
		"#ifndef COREBRIDGE_H",
		"typedef uint64_t corebridge_handle_t;",
		"corebridge_buffer_t",
		"corebridge_status_t corebridge_open_document(const uint8_t *data, size_t len, corebridge_handle_t *out, corebridge_error_t *err);",
		"COREBRIDGE_ABI_VERSION 1",
	} {
		if !strings.Contains(header, want) {
			t.Errorf("header missing %q", want)
		}
	}

	for _, sym := range Symbols() {
		if !strings.Contains(header, sym.Name) {
			t.Errorf("header missing symbol %s", sym.Name)
		}
	}
}
