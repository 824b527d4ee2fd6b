// Package textcore is a minimal extraction core used by the CLI and tests.
// It handles plain-text payloads only; the production core is an external
// native library behind the same interface.
package textcore

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/wippyai/corebridge"
)

// ErrNotText is returned for payloads that are not valid UTF-8 text.
var ErrNotText = errors.New("payload is not valid UTF-8 text")

const version = "4.3.6"

type document struct {
	content string
	closed  bool
	mu      sync.Mutex
}

// Core extracts content from plain-text documents.
type Core struct{}

// New returns a plain-text core.
func New() *Core {
	return &Core{}
}

// Open validates the payload as UTF-8 text and parses it.
func (c *Core) Open(data []byte) (corebridge.Document, error) {
	if !utf8.Valid(data) {
		return nil, ErrNotText
	}
	return &document{content: string(data)}, nil
}

// ExtractText returns the document content.
func (c *Core) ExtractText(doc corebridge.Document) (string, error) {
	d, err := c.open(doc)
	if err != nil {
		return "", err
	}
	return d.content, nil
}

// Metadata derives metadata from the document text. The subject is the
// first non-empty line, truncated to 80 runes.
func (c *Core) Metadata(doc corebridge.Document) (corebridge.Metadata, error) {
	d, err := c.open(doc)
	if err != nil {
		return corebridge.Metadata{}, err
	}

	subject := ""
	for _, line := range strings.Split(d.content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			subject = line
			break
		}
	}
	if r := []rune(subject); len(r) > 80 {
		subject = string(r[:80])
	}

	return corebridge.Metadata{
		MimeType: "text/plain",
		Subject:  subject,
	}, nil
}

// Close releases a document.
func (c *Core) Close(doc corebridge.Document) error {
	d, err := c.open(doc)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

// Version reports the core release version.
func (c *Core) Version() string {
	return version
}

func (c *Core) open(doc corebridge.Document) (*document, error) {
	d, ok := doc.(*document)
	if !ok {
		return nil, fmt.Errorf("foreign document %T", doc)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, errors.New("document already closed")
	}
	return d, nil
}
