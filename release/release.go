package release

import (
	"context"
	"fmt"
	"sync"

	"github.com/coreos/go-semver/semver"
	"go.uber.org/zap"

	"github.com/wippyai/corebridge/boundary"
	"github.com/wippyai/corebridge/buildkit"
	"github.com/wippyai/corebridge/packager"
	"github.com/wippyai/corebridge/target"
	"github.com/wippyai/corebridge/versionsync"
)

// Status is the overall outcome of one release run.
type Status uint8

const (
	StatusSucceeded Status = iota
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	if s == StatusSucceeded {
		return "succeeded"
	}
	return "failed"
}

// Context carries the authoritative release version and the full build/
// package matrix, passed explicitly through the Builder -> Packager ->
// Synchronizer chain. There is no global version state.
type Context struct {
	Version    *semver.Version
	Ecosystems []target.Ecosystem
}

// Report is the outcome of one pipeline run.
type Report struct {
	Version   *semver.Version
	Artifacts []*buildkit.Artifact
	Packages  []*packager.Package
	Sync      *versionsync.Result
	Status    Status
}

// Config wires one release pipeline.
type Config struct {
	Toolchain        buildkit.Toolchain
	Ecosystems       []target.Ecosystem
	CoreManifest     versionsync.Manifest
	BindingManifests []versionsync.Manifest

	// ArtifactDir receives compiled binaries; PackageDir the assembled
	// packages and archives; RuntimeDepDir holds third-party runtime
	// libraries referenced by ecosystems.
	ArtifactDir   string
	PackageDir    string
	RuntimeDepDir string

	// RequiredWasmExports overrides the export set wasm artifacts are
	// validated against. Nil means the boundary symbol table.
	RequiredWasmExports []string
}

// Pipeline runs one release end to end: compile every (ecosystem, target)
// artifact, gate on completeness, assemble packages, then synchronize
// manifests. The first fatal stage stops publishing; there is no
// best-effort partial release.
type Pipeline struct {
	cfg      Config
	builder  *buildkit.Builder
	packer   *packager.Packager
	syncer   *versionsync.Synchronizer
	syncLock sync.Mutex
}

// NewPipeline assembles a pipeline from its configuration.
func NewPipeline(cfg Config) *Pipeline {
	wasmExports := cfg.RequiredWasmExports
	if wasmExports == nil {
		for _, sym := range boundary.Symbols() {
			wasmExports = append(wasmExports, sym.Name)
		}
	}

	return &Pipeline{
		cfg: cfg,
		builder: buildkit.NewBuilder(cfg.Toolchain, buildkit.Config{
			OutDir:              cfg.ArtifactDir,
			RequiredWasmExports: wasmExports,
		}),
		packer: packager.New(packager.Config{
			OutDir:        cfg.PackageDir,
			RuntimeDepDir: cfg.RuntimeDepDir,
		}),
		syncer: versionsync.New(cfg.CoreManifest, cfg.BindingManifests),
	}
}

// Run executes the release. The returned report is non-nil whenever the
// run got far enough to have per-stage results, including failed runs.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	version, err := p.syncer.Version()
	if err != nil {
		return nil, err
	}
	rel := Context{Version: version, Ecosystems: p.cfg.Ecosystems}
	log := Logger().With(zap.String("version", version.String()))
	log.Info("release started", zap.Int("ecosystems", len(rel.Ecosystems)))

	report := &Report{Version: version, Status: StatusFailed}

	// Build every target; failures are isolated per artifact but any
	// failure fails the release gate.
	report.Artifacts = p.builder.Build(ctx, buildkit.Jobs(rel.Ecosystems))
	if failed := buildkit.Failed(report.Artifacts); len(failed) > 0 {
		for _, a := range failed {
			log.Error("artifact failed release gate",
				zap.String("artifact", a.Key()),
				zap.Error(a.Err))
		}
		return report, fmt.Errorf("release gate: %d of %d artifacts failed to compile",
			len(failed), len(report.Artifacts))
	}

	for _, eco := range rel.Ecosystems {
		pkg, err := p.packer.Pack(version.String(), eco, report.Artifacts)
		if err != nil {
			return report, fmt.Errorf("package %s: %w", eco.Name, err)
		}
		report.Packages = append(report.Packages, pkg)
	}

	// Manifest batch write is the one release-wide critical section.
	p.syncLock.Lock()
	syncResult, err := p.syncer.Sync()
	p.syncLock.Unlock()
	if err != nil {
		return report, fmt.Errorf("synchronize manifests: %w", err)
	}
	report.Sync = syncResult

	report.Status = StatusSucceeded
	log.Info("release complete",
		zap.Int("artifacts", len(report.Artifacts)),
		zap.Int("packages", len(report.Packages)),
		zap.Int("manifests_rewritten", len(syncResult.Rewritten)))
	return report, nil
}
