package boundary

import (
	"github.com/wippyai/corebridge"
	"github.com/wippyai/corebridge/handle"
	"github.com/wippyai/corebridge/status"
)

// Buffer is a length-delimited byte payload out-cell. The boundary
// allocates Data; the caller owns it after return. Payloads may embed
// zero bytes and are never NUL-terminated.
type Buffer struct {
	Data []byte
}

// MetadataResult receives the marshaled metadata fields of a document.
// A nil field means the core had no value for it.
type MetadataResult struct {
	MimeType []byte
	Language []byte
	Date     []byte
	Subject  []byte
}

// API is the flat, C-callable function surface over one Core. Every
// fallible call returns a status code; on failure it populates errOut (if
// non-nil) and leaves every other out-parameter untouched. API is safe
// for concurrent calls from multiple host workers; calls are synchronous
// and cannot be cancelled mid-flight.
type API struct {
	core    corebridge.Core
	handles *handle.Table
}

// New wraps a core with the boundary call surface.
func New(core corebridge.Core) *API {
	return &API{
		core:    core,
		handles: handle.NewTable(),
	}
}

// fail marshals e into errOut and returns its code.
func fail(errOut *status.Error, e *status.Error) status.Code {
	if errOut != nil {
		*errOut = *e
	}
	return e.Code
}

// OpenDocument parses a raw document payload and registers the resulting
// document as an outstanding handle.
//
// data is borrowed for the call only and copied before the core sees it;
// the boundary retains no reference to it after return. out receives a
// handle the caller must release exactly once via CloseDocument. A nil
// data or nil out pointer is an invalid_argument.
func (a *API) OpenDocument(data []byte, out *handle.Handle, errOut *status.Error) status.Code {
	if out == nil {
		return fail(errOut, status.InvalidArgument("nil handle out-parameter"))
	}
	if data == nil {
		return fail(errOut, status.InvalidArgument("nil document buffer"))
	}

	// The core may retain the payload; never hand it the caller's buffer.
	owned := make([]byte, len(data))
	copy(owned, data)

	doc, err := a.core.Open(owned)
	if err != nil {
		return fail(errOut, status.CoreFailure(err))
	}

	h, err := a.handles.Acquire(doc)
	if err != nil {
		a.core.Close(doc)
		return fail(errOut, status.ResourceExhausted("document handle"))
	}

	*out = h
	return status.CodeOK
}

// ExtractText extracts the full text content of an open document.
//
// h is borrowed for the call duration only. out receives a boundary-
// allocated buffer the caller owns. A released or unknown h is an
// invalid_handle; out stays untouched on every failure.
func (a *API) ExtractText(h handle.Handle, out *Buffer, errOut *status.Error) status.Code {
	if out == nil {
		return fail(errOut, status.InvalidArgument("nil buffer out-parameter"))
	}

	doc, ok := a.handles.Get(h)
	if !ok {
		return fail(errOut, status.InvalidHandle(uint64(h)))
	}

	text, err := a.core.ExtractText(doc)
	if err != nil {
		return fail(errOut, status.CoreFailure(err))
	}

	out.Data = []byte(text)
	return status.CodeOK
}

// DocumentMetadata marshals the metadata fields of an open document.
//
// h is borrowed for the call duration only. out is written only on full
// success, never partially initialized.
func (a *API) DocumentMetadata(h handle.Handle, out *MetadataResult, errOut *status.Error) status.Code {
	if out == nil {
		return fail(errOut, status.InvalidArgument("nil metadata out-parameter"))
	}

	doc, ok := a.handles.Get(h)
	if !ok {
		return fail(errOut, status.InvalidHandle(uint64(h)))
	}

	md, err := a.core.Metadata(doc)
	if err != nil {
		return fail(errOut, status.CoreFailure(err))
	}

	*out = MetadataResult{
		MimeType: marshalField(md.MimeType),
		Language: marshalField(md.Language),
		Date:     marshalField(md.Date),
		Subject:  marshalField(md.Subject),
	}
	return status.CodeOK
}

func marshalField(s string) []byte {
	if s == "" {
		return nil
	}
	return []byte(s)
}

// CloseDocument releases a document handle. The handle is invalid after
// the first successful close; a second close on the same handle returns
// invalid_handle and touches nothing.
func (a *API) CloseDocument(h handle.Handle, errOut *status.Error) status.Code {
	doc, serr := a.handles.Release(h)
	if serr != nil {
		return fail(errOut, serr)
	}

	if err := a.core.Close(doc); err != nil {
		// The handle is gone either way; surface the core's complaint.
		return fail(errOut, status.CoreFailure(err))
	}
	return status.CodeOK
}

// Version writes the core's release version string. Infallible apart from
// a nil out-parameter.
func (a *API) Version(out *Buffer) status.Code {
	if out == nil {
		return status.CodeInvalidArgument
	}
	out.Data = []byte(a.core.Version())
	return status.CodeOK
}

// Outstanding reports the number of handles acquired but not yet closed.
func (a *API) Outstanding() int {
	return a.handles.Len()
}

// Close invalidates every outstanding handle and shuts the surface down.
// Intended for process teardown; concurrent in-flight calls must have
// drained first.
func (a *API) Close() error {
	return a.handles.Close()
}
