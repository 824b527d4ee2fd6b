package boundary

import (
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/corebridge"
)

// Param documents one parameter of an exported symbol: its C type plus the
// pointer contract the caller must uphold. Contract strings are part of
// the generated header and of the ABI documentation.
type Param struct {
	Name     string
	CType    string
	Contract string
}

// Symbol describes one exported boundary function. The full symbol set,
// in order, is the versioned ABI: any change to parameter count, order,
// or semantics is a breaking change.
type Symbol struct {
	Name   string
	Ret    string
	Doc    string
	Params []Param
}

// Symbols returns the exported symbol table. The result is deterministic;
// header generation and binding generators consume it directly.
func Symbols() []Symbol {
	return []Symbol{
		{
			Name: "corebridge_open_document",
			Ret:  "corebridge_status_t",
			Doc:  "Parse a document payload and return an owned handle.",
			Params: []Param{
				{Name: "data", CType: "const uint8_t *",
					Contract: "caller-allocated, len bytes, 1-byte aligned, borrowed for call only; may embed zero bytes"},
				{Name: "len", CType: "size_t",
					Contract: "length of data; zero requires a non-null data pointer"},
				{Name: "out", CType: "corebridge_handle_t *",
					Contract: "caller-allocated, 8-byte aligned; receives a handle the caller must release exactly once"},
				{Name: "err", CType: "corebridge_error_t *",
					Contract: "caller-allocated or null; written only on failure"},
			},
		},
		{
			Name: "corebridge_extract_text",
			Ret:  "corebridge_status_t",
			Doc:  "Extract the full text content of an open document.",
			Params: []Param{
				{Name: "doc", CType: "corebridge_handle_t",
					Contract: "borrowed for call duration only"},
				{Name: "out", CType: "corebridge_buffer_t *",
					Contract: "caller-allocated; receives a callee-allocated buffer the caller must free"},
				{Name: "err", CType: "corebridge_error_t *",
					Contract: "caller-allocated or null; written only on failure"},
			},
		},
		{
			Name: "corebridge_document_metadata",
			Ret:  "corebridge_status_t",
			Doc:  "Marshal the metadata fields of an open document.",
			Params: []Param{
				{Name: "doc", CType: "corebridge_handle_t",
					Contract: "borrowed for call duration only"},
				{Name: "out", CType: "corebridge_metadata_t *",
					Contract: "caller-allocated; written only on full success, never partially"},
				{Name: "err", CType: "corebridge_error_t *",
					Contract: "caller-allocated or null; written only on failure"},
			},
		},
		{
			Name: "corebridge_close_document",
			Ret:  "corebridge_status_t",
			Doc:  "Release a document handle. Exactly one close per open.",
			Params: []Param{
				{Name: "doc", CType: "corebridge_handle_t",
					Contract: "consumed; invalid after the first successful close"},
				{Name: "err", CType: "corebridge_error_t *",
					Contract: "caller-allocated or null; written only on failure"},
			},
		},
		{
			Name: "corebridge_version",
			Ret:  "corebridge_status_t",
			Doc:  "Write the core's release version string.",
			Params: []Param{
				{Name: "out", CType: "corebridge_buffer_t *",
					Contract: "caller-allocated; receives a callee-allocated buffer the caller must free"},
			},
		},
	}
}

// WriteHeader renders the C header for the exported symbol table. Output
// is a pure function of the table and the ABI version, so regenerating it
// from unchanged sources is byte-identical.
func WriteHeader(w io.Writer) error {
	var b strings.Builder

	b.WriteString("/* Generated from the corebridge symbol table. Do not edit. */\n")
	b.WriteString("#ifndef COREBRIDGE_H\n")
	b.WriteString("#define COREBRIDGE_H\n\n")
	b.WriteString("#include <stddef.h>\n")
	b.WriteString("#include <stdint.h>\n\n")
	fmt.Fprintf(&b, "#define COREBRIDGE_ABI_VERSION %d\n\n", corebridge.ABIVersion)

	b.WriteString("/* Opaque handle to a core-owned document. Zero is never valid. */\n")
	b.WriteString("typedef uint64_t corebridge_handle_t;\n\n")
	b.WriteString("/* Status codes; see the canonical error table. */\n")
	b.WriteString("typedef int32_t corebridge_status_t;\n\n")
	b.WriteString("/* Length-delimited byte payload; never NUL-terminated. */\n")
	b.WriteString("typedef struct {\n")
	b.WriteString("\tuint8_t *data;\n")
	b.WriteString("\tsize_t len;\n")
	b.WriteString("} corebridge_buffer_t;\n\n")
	b.WriteString("typedef struct {\n")
	b.WriteString("\tint32_t code;\n")
	b.WriteString("\tcorebridge_buffer_t message;\n")
	b.WriteString("\tcorebridge_buffer_t payload;\n")
	b.WriteString("} corebridge_error_t;\n\n")
	b.WriteString("typedef struct {\n")
	b.WriteString("\tcorebridge_buffer_t mime_type;\n")
	b.WriteString("\tcorebridge_buffer_t language;\n")
	b.WriteString("\tcorebridge_buffer_t date;\n")
	b.WriteString("\tcorebridge_buffer_t subject;\n")
	b.WriteString("} corebridge_metadata_t;\n\n")

	for _, sym := range Symbols() {
		b.WriteString("/*\n")
		fmt.Fprintf(&b, " * %s\n", sym.Doc)
		for _, p := range sym.Params {
			fmt.Fprintf(&b, " *   %s: %s\n", p.Name, p.Contract)
		}
		b.WriteString(" */\n")
		fmt.Fprintf(&b, "%s %s(", sym.Ret, sym.Name)
		for i, p := range sym.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.CType)
			if !strings.HasSuffix(p.CType, "*") {
				b.WriteByte(' ')
			}
			b.WriteString(p.Name)
		}
		b.WriteString(");\n\n")
	}

	b.WriteString("#endif /* COREBRIDGE_H */\n")

	_, err := io.WriteString(w, b.String())
	return err
}
