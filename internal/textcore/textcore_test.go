package textcore

import (
	"errors"
	"testing"
)

func TestCore_RoundTrip(t *testing.T) {
	core := New()

	doc, err := core.Open([]byte("  \nInvoice 42\nbody"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	text, err := core.ExtractText(doc)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if text != "  \nInvoice 42\nbody" {
		t.Fatalf("wrong text: %q", text)
	}

	md, err := core.Metadata(doc)
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}
	if md.MimeType != "text/plain" {
		t.Fatalf("wrong mime type: %q", md.MimeType)
	}
	if md.Subject != "Invoice 42" {
		t.Fatalf("wrong subject: %q", md.Subject)
	}

	if err := core.Close(doc); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := core.ExtractText(doc); err == nil {
		t.Fatal("ExtractText succeeded on closed document")
	}
}

func TestCore_RejectsBinary(t *testing.T) {
	core := New()
	if _, err := core.Open([]byte{0xff, 0xfe, 0x81}); !errors.Is(err, ErrNotText) {
		t.Fatalf("expected ErrNotText, got %v", err)
	}
}

func TestCore_ForeignDocument(t *testing.T) {
	core := New()
	if _, err := core.ExtractText("not a document"); err == nil {
		t.Fatal("expected error for foreign document")
	}
}
