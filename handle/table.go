package handle

import (
	"errors"
	"sync"

	"github.com/wippyai/corebridge/status"
)

// ErrClosed is returned by Acquire after the table has been closed.
var ErrClosed = errors.New("handle table closed")

// Handle is an opaque cross-boundary reference to a core-owned resource.
// It packs a 1-based slot index in the low 32 bits and the slot's
// generation in the high 32 bits, so a handle from a previous occupant of
// a recycled slot can never alias the current one. Handle 0 is never valid.
type Handle uint64

func pack(index, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(index))
}

func (h Handle) index() uint32 { return uint32(h) }
func (h Handle) gen() uint32   { return uint32(h >> 32) }

// Releaser is optionally implemented by values that need cleanup when the
// table is closed with handles still outstanding.
type Releaser interface {
	Release()
}

type entry struct {
	value any
	gen   uint32
	live  bool
}

// Table tracks every handle handed across the boundary and enforces
// at-most-one release per handle. It is safe for concurrent use from
// multiple in-flight boundary calls.
type Table struct {
	entries  []entry
	freeList []uint32
	mu       sync.Mutex
	closed   bool
}

// NewTable creates an empty handle table.
func NewTable() *Table {
	return &Table{
		entries:  make([]entry, 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

// Acquire registers a value as outstanding and returns its handle.
func (t *Table) Acquire(value any) (Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, ErrClosed
	}

	if n := len(t.freeList); n > 0 {
		idx := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		e := &t.entries[idx-1]
		e.value = value
		e.live = true
		return pack(idx, e.gen), nil
	}

	t.entries = append(t.entries, entry{value: value, gen: 1, live: true})
	return pack(uint32(len(t.entries)), 1), nil
}

// Get retrieves the value behind a handle. It reports false for the zero
// handle, an unknown handle, and any handle that has been released.
func (t *Table) Get(h Handle) (any, bool) {
	idx := h.index()
	if idx == 0 {
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if int(idx) > len(t.entries) {
		return nil, false
	}
	e := t.entries[idx-1]
	if !e.live || e.gen != h.gen() {
		return nil, false
	}
	return e.value, true
}

// Release invalidates a handle and returns the value it held. A second
// Release on the same handle, or a Release of an unknown handle, reports
// an invalid_handle error and never succeeds silently.
func (t *Table) Release(h Handle) (any, *status.Error) {
	idx := h.index()
	if idx == 0 {
		return nil, status.InvalidHandle(uint64(h))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if int(idx) > len(t.entries) {
		return nil, status.InvalidHandle(uint64(h))
	}
	e := &t.entries[idx-1]
	if !e.live || e.gen != h.gen() {
		return nil, status.InvalidHandle(uint64(h))
	}

	value := e.value
	e.value = nil
	e.live = false
	e.gen++ // stale copies of h now miss on generation
	t.freeList = append(t.freeList, idx)

	return value, nil
}

// Len returns the number of outstanding handles.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for i := range t.entries {
		if t.entries[i].live {
			n++
		}
	}
	return n
}

// Close invalidates every outstanding handle, running Release on values
// that implement Releaser, and stops accepting new acquisitions.
func (t *Table) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	for i := range t.entries {
		if t.entries[i].live {
			if r, ok := t.entries[i].value.(Releaser); ok {
				r.Release()
			}
			t.entries[i].live = false
			t.entries[i].value = nil
		}
	}

	t.entries = nil
	t.freeList = nil
	return nil
}
