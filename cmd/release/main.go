// Command release runs the corebridge release pipeline: it compiles the
// boundary layer for every declared (ecosystem, target) pair, assembles
// per-ecosystem packages, and synchronizes the release version across
// binding manifests.
//
// Generation modes (no release run):
//
//	release -write-header corebridge.h
//	release -write-error-table errors.json
//
// Release run:
//
//	release -core-manifest core.json -manifests package.json,Cargo.toml \
//	    -eco python:shared:linux-x86_64,macos-arm64:libpdfium.so \
//	    -toolchain cargo -toolchain-args build,--release,--target,{target}
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/corebridge/boundary"
	"github.com/wippyai/corebridge/buildkit"
	"github.com/wippyai/corebridge/packager"
	"github.com/wippyai/corebridge/release"
	"github.com/wippyai/corebridge/status"
	"github.com/wippyai/corebridge/target"
	"github.com/wippyai/corebridge/versionsync"
)

// ecosystemList collects repeated -eco flags.
type ecosystemList []target.Ecosystem

func (e *ecosystemList) String() string {
	var names []string
	for _, eco := range *e {
		names = append(names, eco.Name)
	}
	return strings.Join(names, ",")
}

func (e *ecosystemList) Set(spec string) error {
	eco, err := parseEcosystem(spec)
	if err != nil {
		return err
	}
	*e = append(*e, eco)
	return nil
}

// parseEcosystem reads "name:shape:target1,target2[:dep1,dep2]".
func parseEcosystem(spec string) (target.Ecosystem, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return target.Ecosystem{}, fmt.Errorf("malformed ecosystem spec %q (want name:shape:targets[:deps])", spec)
	}

	var shape target.Shape
	switch parts[1] {
	case "shared":
		shape = target.SharedLibrary
	case "static":
		shape = target.StaticArchive
	case "wasm":
		shape = target.WasmModule
	default:
		return target.Ecosystem{}, fmt.Errorf("unknown shape %q", parts[1])
	}

	var targets []target.Descriptor
	for _, s := range strings.Split(parts[2], ",") {
		d, err := target.Parse(s)
		if err != nil {
			return target.Ecosystem{}, err
		}
		targets = append(targets, d)
	}

	var deps []string
	if len(parts) == 4 && parts[3] != "" {
		deps = strings.Split(parts[3], ",")
	}

	return target.Ecosystem{Name: parts[0], Shape: shape, Targets: targets, RuntimeDeps: deps}, nil
}

func main() {
	var ecosystems ecosystemList
	var (
		coreManifest  = flag.String("core-manifest", "", "Path to the authoritative core manifest")
		manifests     = flag.String("manifests", "", "Comma-separated binding manifest paths")
		toolchain     = flag.String("toolchain", "cargo", "Build command")
		toolchainArgs = flag.String("toolchain-args", "", "Comma-separated build arguments; {target}, {shape}, {output} expand per job")
		artifactDir   = flag.String("artifacts", "dist/artifacts", "Directory for compiled artifacts")
		packageDir    = flag.String("out", "dist/packages", "Directory for assembled packages")
		depDir        = flag.String("deps", "dist/deps", "Directory holding runtime dependency libraries")
		writeHeader   = flag.String("write-header", "", "Write the C header for the boundary ABI and exit")
		writeErrTable = flag.String("write-error-table", "", "Write the canonical error table JSON and exit")
		printEnv      = flag.Bool("print-env", false, "Print runtime library search-path setup and exit")
		verbose       = flag.Bool("verbose", false, "Verbose logging")
		interactive   = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Var(&ecosystems, "eco", "Ecosystem spec name:shape:targets[:deps] (repeatable)")
	flag.Parse()

	if err := run(runOpts{
		ecosystems:    ecosystems,
		coreManifest:  *coreManifest,
		manifests:     *manifests,
		toolchain:     *toolchain,
		toolchainArgs: *toolchainArgs,
		artifactDir:   *artifactDir,
		packageDir:    *packageDir,
		depDir:        *depDir,
		writeHeader:   *writeHeader,
		writeErrTable: *writeErrTable,
		printEnv:      *printEnv,
		verbose:       *verbose,
		interactive:   *interactive,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type runOpts struct {
	ecosystems    ecosystemList
	coreManifest  string
	manifests     string
	toolchain     string
	toolchainArgs string
	artifactDir   string
	packageDir    string
	depDir        string
	writeHeader   string
	writeErrTable string
	printEnv      bool
	verbose       bool
	interactive   bool
}

func run(opts runOpts) error {
	if opts.writeHeader != "" {
		return writeGenerated(opts.writeHeader, boundary.WriteHeader)
	}
	if opts.writeErrTable != "" {
		return writeGenerated(opts.writeErrTable, status.WriteTable)
	}
	if opts.printEnv {
		return printEnvSetup(os.Stdout, opts.packageDir)
	}

	if opts.coreManifest == "" || len(opts.ecosystems) == 0 {
		flag.Usage()
		return fmt.Errorf("a release run needs -core-manifest and at least one -eco")
	}

	if opts.verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer log.Sync()
		buildkit.SetLogger(log.Named("buildkit"))
		packager.SetLogger(log.Named("packager"))
		versionsync.SetLogger(log.Named("versionsync"))
		release.SetLogger(log.Named("release"))
	}

	var bindings []versionsync.Manifest
	if opts.manifests != "" {
		for _, path := range strings.Split(opts.manifests, ",") {
			bindings = append(bindings, versionsync.Manifest{
				Path:   path,
				Format: versionsync.DetectFormat(path),
			})
		}
	}

	var args []string
	if opts.toolchainArgs != "" {
		args = strings.Split(opts.toolchainArgs, ",")
	}

	cfg := release.Config{
		Toolchain:        &buildkit.ExecToolchain{Command: opts.toolchain, Args: args},
		Ecosystems:       opts.ecosystems,
		CoreManifest:     versionsync.Manifest{Path: opts.coreManifest, Format: versionsync.DetectFormat(opts.coreManifest)},
		BindingManifests: bindings,
		ArtifactDir:      opts.artifactDir,
		PackageDir:       opts.packageDir,
		RuntimeDepDir:    opts.depDir,
	}

	if opts.interactive && term.IsTerminal(int(os.Stdout.Fd())) {
		return runInteractive(cfg)
	}

	report, err := release.NewPipeline(cfg).Run(context.Background())
	if report != nil {
		printReport(report)
	}
	return err
}

func writeGenerated(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printReport(report *release.Report) {
	fmt.Printf("Release %s: %s\n", report.Version, report.Status)
	for _, a := range report.Artifacts {
		line := fmt.Sprintf("  %-40s %s", a.Key(), a.State)
		if a.Err != nil {
			line += "  " + a.Err.Error()
		}
		fmt.Println(line)
	}
	for _, pkg := range report.Packages {
		for desc, path := range pkg.Archives {
			fmt.Printf("  package %s %s -> %s\n", pkg.Ecosystem, desc, path)
		}
	}
	if report.Sync != nil {
		fmt.Printf("  manifests rewritten: %d\n", len(report.Sync.Rewritten))
	}
}

// printEnvSetup emits the conventional library search-path setup for
// consuming processes. The boundary itself performs no discovery; it
// only must be loadable once located.
func printEnvSetup(w io.Writer, packageDir string) error {
	host, err := target.FromGoRuntime(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}

	envVar := "LD_LIBRARY_PATH"
	if host.OS == "macos" {
		envVar = "DYLD_LIBRARY_PATH"
	}
	_, err = fmt.Fprintf(w, "# Add the %s package directory to the loader search path:\nexport %s=%s/<ecosystem>/%s:$%s\n",
		host, envVar, packageDir, host, envVar)
	return err
}
