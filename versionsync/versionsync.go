package versionsync

import (
	"fmt"
	"os"
	"sync"

	"github.com/coreos/go-semver/semver"
	"go.uber.org/zap"
)

// Result reports one synchronization pass.
type Result struct {
	Version   *semver.Version
	Rewritten []string // manifests whose version field changed
}

// Synchronizer is the single source of truth for the release version: it
// reads the authoritative value from the core manifest and forces every
// binding manifest to match, atomically as a batch.
type Synchronizer struct {
	core     Manifest
	bindings []Manifest
	mu       sync.Mutex
}

// New creates a synchronizer over the core manifest and the binding
// manifests it governs.
func New(core Manifest, bindings []Manifest) *Synchronizer {
	return &Synchronizer{core: core, bindings: bindings}
}

// Version reads and validates the authoritative version.
func (s *Synchronizer) Version() (*semver.Version, error) {
	raw, err := ReadVersion(s.core)
	if err != nil {
		return nil, fmt.Errorf("core manifest: %w", err)
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("core manifest %s: invalid version %q: %w", s.core.Path, raw, err)
	}
	return v, nil
}

type stagedWrite struct {
	manifest Manifest
	old      []byte
	new      []byte
}

// writeFile is swapped out by tests to exercise mid-batch write failures.
var writeFile = os.WriteFile

// Sync rewrites every binding manifest's version field to the
// authoritative value in one batch. If any write fails, every write
// already performed in the batch is rolled back; no partial
// synchronization state is ever committed. After writing, every manifest
// is re-read and asserted textually equal to the authoritative value;
// a mismatch is a fatal release-blocking error.
//
// Sync holds the synchronizer lock for the whole batch; no other
// release-producing operation may run concurrently with it.
func (s *Synchronizer) Sync() (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	version, err := s.Version()
	if err != nil {
		return nil, err
	}
	want := version.String()
	log := Logger().With(zap.String("version", want))

	// Stage every rewrite before touching any file.
	var staged []stagedWrite
	for _, m := range s.bindings {
		data, err := os.ReadFile(m.Path)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", m.Path, err)
		}
		updated, err := rewrite(m, data, want)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", m.Path, err)
		}
		if string(updated) == string(data) {
			continue // already synchronized
		}
		staged = append(staged, stagedWrite{manifest: m, old: data, new: updated})
	}

	// Commit the batch; roll everything back on the first failure.
	var written []stagedWrite
	for _, w := range staged {
		if err := writeFile(w.manifest.Path, w.new, 0o644); err != nil {
			for _, undo := range written {
				if rerr := os.WriteFile(undo.manifest.Path, undo.old, 0o644); rerr != nil {
					log.Error("rollback failed",
						zap.String("manifest", undo.manifest.Path),
						zap.Error(rerr))
				}
			}
			return nil, fmt.Errorf("write %s: %w (batch rolled back)", w.manifest.Path, err)
		}
		written = append(written, w)
	}

	// Verification pass over every manifest, changed or not.
	if err := s.verify(want); err != nil {
		return nil, err
	}

	result := &Result{Version: version}
	for _, w := range written {
		result.Rewritten = append(result.Rewritten, w.manifest.Path)
	}
	log.Info("manifests synchronized", zap.Int("rewritten", len(result.Rewritten)))
	return result, nil
}

// verify re-reads every manifest and asserts textual equality with the
// authoritative value.
func (s *Synchronizer) verify(want string) error {
	for _, m := range append([]Manifest{s.core}, s.bindings...) {
		got, err := ReadVersion(m)
		if err != nil {
			return fmt.Errorf("verify %s: %w", m.Path, err)
		}
		if got != want {
			return fmt.Errorf("verify %s: version %q does not match authoritative %q", m.Path, got, want)
		}
	}
	return nil
}
