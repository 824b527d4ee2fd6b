package buildkit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/corebridge/target"
)

// Artifact is one built binary plus its manifest data for one (ecosystem,
// target) pair. Once Compiled, an artifact is immutable: a changed input
// produces a new artifact on the next release, never an in-place patch.
type Artifact struct {
	Err         error
	Ecosystem   string
	Path        string
	SHA256      string
	RuntimeDeps []string
	Target      target.Descriptor
	Size        int64
	Shape       target.Shape
	State       State
}

// Key returns the deterministic identity of the artifact within a release.
func (a *Artifact) Key() string {
	return a.Ecosystem + "/" + a.Target.String()
}

// Config holds builder configuration.
type Config struct {
	// OutDir is the root directory artifacts are written under, laid out
	// as <ecosystem>/<target>/<binary>.
	OutDir string

	// RequiredWasmExports lists symbols every WasmModule-shaped artifact
	// must export to pass validation. Empty skips the export check but
	// not module validation itself.
	RequiredWasmExports []string

	// Parallelism bounds concurrent compiles. 0 means 4.
	Parallelism int
}

// Builder compiles the boundary layer and its core dependency into the
// binary shape each ecosystem requires, one artifact per (ecosystem,
// target) job. One job's failure never aborts unrelated jobs.
type Builder struct {
	toolchain Toolchain
	cfg       Config
}

// NewBuilder creates a builder over a toolchain.
func NewBuilder(tc Toolchain, cfg Config) *Builder {
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 4
	}
	return &Builder{toolchain: tc, cfg: cfg}
}

// Jobs expands ecosystems into the full (ecosystem, target) build matrix.
func Jobs(ecosystems []target.Ecosystem) []Job {
	var jobs []Job
	for _, eco := range ecosystems {
		for _, t := range eco.Targets {
			jobs = append(jobs, Job{Ecosystem: eco, Target: t})
		}
	}
	return jobs
}

// Build compiles every job, isolating failures per job. The returned
// slice is in job order; each artifact ends in a terminal state. The
// caller gates the release on Failed.
func (b *Builder) Build(ctx context.Context, jobs []Job) []*Artifact {
	artifacts := make([]*Artifact, len(jobs))
	for i, job := range jobs {
		artifacts[i] = &Artifact{
			Ecosystem:   job.Ecosystem.Name,
			Target:      job.Target,
			Shape:       job.Ecosystem.Shape,
			RuntimeDeps: append([]string(nil), job.Ecosystem.RuntimeDeps...),
			State:       StatePending,
		}
	}

	sem := make(chan struct{}, b.cfg.Parallelism)
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(job Job, art *Artifact) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			b.buildOne(ctx, job, art)
		}(job, artifacts[i])
	}
	wg.Wait()

	return artifacts
}

func (b *Builder) buildOne(ctx context.Context, job Job, art *Artifact) {
	log := Logger().With(
		zap.String("ecosystem", art.Ecosystem),
		zap.String("target", art.Target.String()),
		zap.String("shape", art.Shape.String()),
	)

	failed := func(err error) {
		art.Err = err
		if terr := art.transition(StateFailed); terr != nil {
			art.State = StateFailed
			art.Err = fmt.Errorf("%w (also: %v)", err, terr)
		}
		log.Error("artifact build failed", zap.Error(err))
	}

	if err := art.transition(StateCompiling); err != nil {
		failed(err)
		return
	}
	log.Info("compiling artifact")

	bin, err := b.toolchain.Compile(ctx, job)
	if err != nil {
		failed(fmt.Errorf("compile: %w", err))
		return
	}

	if art.Shape == target.WasmModule {
		if err := validateWasm(ctx, bin, b.cfg.RequiredWasmExports); err != nil {
			failed(fmt.Errorf("wasm validation: %w", err))
			return
		}
	}

	dir := filepath.Join(b.cfg.OutDir, art.Ecosystem, art.Target.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		failed(fmt.Errorf("create artifact dir: %w", err))
		return
	}
	path := filepath.Join(dir, target.LibraryFileName(art.Target, art.Shape))
	if err := os.WriteFile(path, bin, 0o644); err != nil {
		failed(fmt.Errorf("write artifact: %w", err))
		return
	}

	sum := sha256.Sum256(bin)
	art.Path = path
	art.SHA256 = hex.EncodeToString(sum[:])
	art.Size = int64(len(bin))

	if err := art.transition(StateCompiled); err != nil {
		failed(err)
		return
	}
	log.Info("artifact compiled",
		zap.String("sha256", art.SHA256),
		zap.Int64("size", art.Size))
}

// Failed returns the artifacts that did not reach Compiled. Any entry
// here fails the overall release gate.
func Failed(artifacts []*Artifact) []*Artifact {
	var failed []*Artifact
	for _, a := range artifacts {
		if a.State != StateCompiled {
			failed = append(failed, a)
		}
	}
	return failed
}

// validateWasm compile-checks a wasm binary and verifies the required
// exports exist. A binary wazero rejects never reaches Compiled.
func validateWasm(ctx context.Context, bin []byte, required []string) error {
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	compiled, err := r.CompileModule(ctx, bin)
	if err != nil {
		return fmt.Errorf("compile module: %w", err)
	}
	defer compiled.Close(ctx)

	exports := compiled.ExportedFunctions()
	for _, name := range required {
		if _, ok := exports[name]; !ok {
			return fmt.Errorf("module does not export %q", name)
		}
	}
	return nil
}
