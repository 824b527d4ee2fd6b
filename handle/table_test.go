package handle

import (
	"sync"
	"testing"

	"github.com/wippyai/corebridge/status"
)

type releaseSpy struct {
	mu    sync.Mutex
	count int
}

func (r *releaseSpy) Release() {
	r.mu.Lock()
	r.count++
	r.mu.Unlock()
}

func TestTable_Basic(t *testing.T) {
	table := NewTable()

	h, err := table.Acquire("doc")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if h == 0 {
		t.Fatal("expected non-zero handle")
	}

	val, ok := table.Get(h)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "doc" {
		t.Fatalf("expected 'doc', got %v", val)
	}

	val, serr := table.Release(h)
	if serr != nil {
		t.Fatalf("Release failed: %v", serr)
	}
	if val != "doc" {
		t.Fatalf("expected 'doc', got %v", val)
	}

	if table.Len() != 0 {
		t.Fatal("expected Len() == 0 after Release")
	}
}

func TestTable_DoubleRelease(t *testing.T) {
	table := NewTable()

	h, _ := table.Acquire("doc")
	if _, serr := table.Release(h); serr != nil {
		t.Fatalf("first Release failed: %v", serr)
	}

	_, serr := table.Release(h)
	if serr == nil {
		t.Fatal("second Release succeeded")
	}
	if serr.Code != status.CodeInvalidHandle {
		t.Fatalf("expected invalid_handle, got %v", serr.Code)
	}
}

func TestTable_UseAfterRelease(t *testing.T) {
	table := NewTable()

	h, _ := table.Acquire("doc")
	table.Release(h)

	if _, ok := table.Get(h); ok {
		t.Fatal("Get succeeded on released handle")
	}
}

func TestTable_StaleHandleAfterSlotReuse(t *testing.T) {
	table := NewTable()

	old, _ := table.Acquire("first")
	table.Release(old)

	// The free list hands the same slot to the next occupant.
	next, _ := table.Acquire("second")
	if next.index() != old.index() {
		t.Fatalf("expected slot reuse, got index %d vs %d", next.index(), old.index())
	}
	if next == old {
		t.Fatal("recycled slot produced an identical handle")
	}

	if _, ok := table.Get(old); ok {
		t.Fatal("stale handle resolved to the new occupant")
	}
	if _, serr := table.Release(old); serr == nil {
		t.Fatal("stale handle released the new occupant")
	}

	if val, ok := table.Get(next); !ok || val != "second" {
		t.Fatalf("current handle broken: %v %v", val, ok)
	}
}

func TestTable_ZeroAndUnknownHandles(t *testing.T) {
	table := NewTable()

	if _, ok := table.Get(0); ok {
		t.Fatal("Get(0) succeeded")
	}
	if _, serr := table.Release(0); serr == nil || serr.Code != status.CodeInvalidHandle {
		t.Fatal("Release(0) did not report invalid_handle")
	}
	if _, serr := table.Release(pack(999, 1)); serr == nil {
		t.Fatal("Release of unknown handle succeeded")
	}
}

func TestTable_Close(t *testing.T) {
	table := NewTable()
	spy := &releaseSpy{}

	h, _ := table.Acquire(spy)
	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if spy.count != 1 {
		t.Fatalf("expected destructor to run once, got %d", spy.count)
	}
	if _, ok := table.Get(h); ok {
		t.Fatal("Get succeeded after Close")
	}
	if _, err := table.Acquire("x"); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}

	// Second close is a no-op.
	if err := table.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

func TestTable_ConcurrentAccess(t *testing.T) {
	table := NewTable()

	const workers = 8
	const perWorker = 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				h, err := table.Acquire(i)
				if err != nil {
					t.Errorf("Acquire failed: %v", err)
					return
				}
				if _, ok := table.Get(h); !ok {
					t.Error("Get failed on live handle")
					return
				}
				if _, serr := table.Release(h); serr != nil {
					t.Errorf("Release failed: %v", serr)
					return
				}
				if _, serr := table.Release(h); serr == nil {
					t.Error("double release succeeded under concurrency")
					return
				}
			}
		}(w)
	}
	wg.Wait()

	if table.Len() != 0 {
		t.Fatalf("expected empty table, got %d outstanding", table.Len())
	}
}

func BenchmarkTable_AcquireRelease(b *testing.B) {
	table := NewTable()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		h, _ := table.Acquire(i)
		table.Release(h)
	}
}
