package packager

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/wippyai/corebridge/buildkit"
	"github.com/wippyai/corebridge/target"
)

// ManifestFile is one entry in a manifest fragment.
type ManifestFile struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Size   int64  `json:"size"`
}

// Manifest is the fragment written into each platform directory. It lists
// exactly the files included; downstream publish steps validate package
// completeness against it.
type Manifest struct {
	Version string         `json:"version"`
	Target  string         `json:"target"`
	Files   []ManifestFile `json:"files"`
}

// Package is one assembled distributable unit for a binding ecosystem.
type Package struct {
	Ecosystem string
	Dir       string
	Archives  map[string]string   // target descriptor -> archive path
	Manifests map[string]Manifest // target descriptor -> manifest fragment
}

// Config holds packager configuration.
type Config struct {
	// OutDir is where assembled packages and archives are written.
	OutDir string

	// RuntimeDepDir holds the third-party runtime libraries named by
	// ecosystems, e.g. a document-rendering engine's shared library.
	RuntimeDepDir string
}

// Packager assembles per-ecosystem distributable packages from compiled
// artifacts plus their runtime dependencies. Running it twice on the same
// inputs produces byte-identical package contents, so a publish retry is
// safe.
type Packager struct {
	cfg Config
}

// New creates a packager.
func New(cfg Config) *Packager {
	return &Packager{cfg: cfg}
}

// Pack assembles the package for one ecosystem. Every target the
// ecosystem declares must have a Compiled artifact; any gap is a hard
// error naming the missing target, never a silent skip.
func (p *Packager) Pack(version string, eco target.Ecosystem, artifacts []*buildkit.Artifact) (*Package, error) {
	byTarget := make(map[string]*buildkit.Artifact)
	for _, a := range artifacts {
		if a.Ecosystem == eco.Name {
			byTarget[a.Target.String()] = a
		}
	}

	for _, t := range eco.Targets {
		a, ok := byTarget[t.String()]
		if !ok {
			return nil, fmt.Errorf("ecosystem %s: no artifact for declared target %s", eco.Name, t)
		}
		if a.State != buildkit.StateCompiled {
			return nil, fmt.Errorf("ecosystem %s: artifact for %s is %s, not compiled", eco.Name, t, a.State)
		}
	}

	pkgDir := filepath.Join(p.cfg.OutDir, eco.Name)
	pkg := &Package{
		Ecosystem: eco.Name,
		Dir:       pkgDir,
		Archives:  make(map[string]string, len(eco.Targets)),
		Manifests: make(map[string]Manifest, len(eco.Targets)),
	}

	for _, t := range eco.Targets {
		manifest, err := p.packTarget(version, eco, t, byTarget[t.String()], pkgDir)
		if err != nil {
			return nil, err
		}
		pkg.Manifests[t.String()] = manifest
	}

	// One archive per platform; entries carry the platform-identifier
	// directory prefix so extraction reproduces the package layout.
	for _, t := range eco.Targets {
		path := filepath.Join(p.cfg.OutDir, target.ArchiveName(eco.Name, t))
		if err := writeArchive(path, pkgDir, t.String()); err != nil {
			return nil, fmt.Errorf("ecosystem %s: archive %s: %w", eco.Name, t, err)
		}
		pkg.Archives[t.String()] = path
	}

	Logger().Info("package assembled",
		zap.String("ecosystem", eco.Name),
		zap.Int("targets", len(eco.Targets)))
	return pkg, nil
}

// packTarget lays out one platform directory: binary, runtime deps, and
// the manifest fragment enumerating them.
func (p *Packager) packTarget(version string, eco target.Ecosystem, t target.Descriptor, art *buildkit.Artifact, pkgDir string) (Manifest, error) {
	dir := filepath.Join(pkgDir, t.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("create platform dir: %w", err)
	}

	var files []ManifestFile

	binName := target.LibraryFileName(t, eco.Shape)
	entry, err := copyFile(art.Path, filepath.Join(dir, binName), binName)
	if err != nil {
		return Manifest{}, fmt.Errorf("ecosystem %s target %s: binary: %w", eco.Name, t, err)
	}
	files = append(files, entry)

	for _, dep := range eco.RuntimeDeps {
		src := filepath.Join(p.cfg.RuntimeDepDir, dep)
		entry, err := copyFile(src, filepath.Join(dir, dep), dep)
		if err != nil {
			return Manifest{}, fmt.Errorf("ecosystem %s target %s: runtime dependency %s: %w", eco.Name, t, dep, err)
		}
		files = append(files, entry)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	manifest := Manifest{Version: version, Target: t.String(), Files: files}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return Manifest{}, fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), data, 0o644); err != nil {
		return Manifest{}, fmt.Errorf("write manifest: %w", err)
	}

	return manifest, nil
}

func copyFile(src, dst, rel string) (ManifestFile, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return ManifestFile{}, err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return ManifestFile{}, err
	}
	sum := sha256.Sum256(data)
	return ManifestFile{
		Path:   rel,
		SHA256: hex.EncodeToString(sum[:]),
		Size:   int64(len(data)),
	}, nil
}
