package corebridge

// ABIVersion is the major version of the exported boundary contract. Any
// change to an exported symbol's parameter count, order, or semantics bumps
// this and forces a major version bump across every binding manifest.
const ABIVersion = 1

// Document is an opaque reference to a core-owned parsed document. The
// boundary never inspects it; it only stores it behind a handle and passes
// it back into the Core that produced it.
type Document any

// Metadata carries the document fields the boundary marshals alongside
// extracted text. Empty string means the core had no value for the field.
type Metadata struct {
	MimeType string
	Language string
	Date     string
	Subject  string
}

// Core is the extraction engine consumed by the boundary. Implementations
// own every Document they return: the boundary borrows Documents for the
// duration of a call and releases them through Close exactly once.
//
// All methods must be safe for concurrent use; the boundary dispatches
// calls from multiple host workers without serializing them.
type Core interface {
	// Open parses a raw document payload. The payload may embed zero
	// bytes; implementations must not treat it as a C string. The core
	// must not retain data past return.
	Open(data []byte) (Document, error)

	// ExtractText returns the full text content of an open document.
	ExtractText(doc Document) (string, error)

	// Metadata returns the document's metadata fields.
	Metadata(doc Document) (Metadata, error)

	// Close releases a document. Exactly one Close per Open; the
	// boundary's handle table enforces this before the call reaches
	// the core.
	Close(doc Document) error

	// Version reports the core's release version string.
	Version() string
}
