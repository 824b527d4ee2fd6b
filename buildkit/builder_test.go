package buildkit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wippyai/corebridge/target"
)

var (
	linuxAmd64 = target.Descriptor{OS: "linux", Arch: "x86_64"}
	macosArm64 = target.Descriptor{OS: "macos", Arch: "arm64"}
	wasiWasm32 = target.Descriptor{OS: "wasi", Arch: "wasm32"}
)

// emptyWasm is the smallest valid wasm module: magic + version.
var emptyWasm = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

// exportFWasm is (module (func (export "f"))).
var exportFWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x05, 0x01, 0x01, 0x66, 0x00, 0x00,
	0x0a, 0x04, 0x01, 0x02, 0x00, 0x0b,
}

// fakeToolchain returns canned bytes or errors per target.
type fakeToolchain struct {
	mu       sync.Mutex
	binaries map[string][]byte
	failures map[string]error
	calls    []string
}

func (tc *fakeToolchain) Compile(ctx context.Context, job Job) ([]byte, error) {
	tc.mu.Lock()
	tc.calls = append(tc.calls, job.Ecosystem.Name+"/"+job.Target.String())
	tc.mu.Unlock()

	if err, ok := tc.failures[job.Target.String()]; ok {
		return nil, err
	}
	if bin, ok := tc.binaries[job.Target.String()]; ok {
		return bin, nil
	}
	return []byte("binary for " + job.Target.String()), nil
}

func sharedEco(name string, targets ...target.Descriptor) target.Ecosystem {
	return target.Ecosystem{Name: name, Shape: target.SharedLibrary, Targets: targets}
}

func TestBuilder_AllTargetsCompile(t *testing.T) {
	tc := &fakeToolchain{}
	b := NewBuilder(tc, Config{OutDir: t.TempDir()})

	jobs := Jobs([]target.Ecosystem{sharedEco("python", linuxAmd64, macosArm64)})
	artifacts := b.Build(context.Background(), jobs)

	if len(artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(artifacts))
	}
	for _, a := range artifacts {
		if a.State != StateCompiled {
			t.Fatalf("%s: state %v, err %v", a.Key(), a.State, a.Err)
		}
		if a.SHA256 == "" || a.Size == 0 {
			t.Fatalf("%s: missing checksum or size", a.Key())
		}
		if _, err := os.Stat(a.Path); err != nil {
			t.Fatalf("%s: binary not written: %v", a.Key(), err)
		}
	}
	if failed := Failed(artifacts); failed != nil {
		t.Fatalf("unexpected failures: %v", failed)
	}
}

func TestBuilder_PartialFailureIsolation(t *testing.T) {
	tc := &fakeToolchain{
		failures: map[string]error{
			linuxAmd64.String(): errors.New("linker exploded"),
		},
	}
	b := NewBuilder(tc, Config{OutDir: t.TempDir()})

	jobs := Jobs([]target.Ecosystem{sharedEco("python", linuxAmd64, macosArm64)})
	artifacts := b.Build(context.Background(), jobs)

	var compiled, failed int
	for _, a := range artifacts {
		switch a.State {
		case StateCompiled:
			compiled++
		case StateFailed:
			failed++
			if a.Err == nil {
				t.Fatalf("%s: failed without error", a.Key())
			}
		default:
			t.Fatalf("%s: non-terminal state %v", a.Key(), a.State)
		}
	}
	if compiled != 1 || failed != 1 {
		t.Fatalf("expected one success and one failure, got %d/%d", compiled, failed)
	}

	// The gate still fails overall.
	if len(Failed(artifacts)) != 1 {
		t.Fatal("release gate did not see the failure")
	}
}

func TestBuilder_WasmValidation(t *testing.T) {
	eco := target.Ecosystem{Name: "browser", Shape: target.WasmModule, Targets: []target.Descriptor{wasiWasm32}}

	t.Run("valid module", func(t *testing.T) {
		tc := &fakeToolchain{binaries: map[string][]byte{wasiWasm32.String(): exportFWasm}}
		b := NewBuilder(tc, Config{OutDir: t.TempDir(), RequiredWasmExports: []string{"f"}})

		artifacts := b.Build(context.Background(), Jobs([]target.Ecosystem{eco}))
		if artifacts[0].State != StateCompiled {
			t.Fatalf("state %v, err %v", artifacts[0].State, artifacts[0].Err)
		}
	})

	t.Run("garbage bytes", func(t *testing.T) {
		tc := &fakeToolchain{binaries: map[string][]byte{wasiWasm32.String(): []byte("not wasm")}}
		b := NewBuilder(tc, Config{OutDir: t.TempDir()})

		artifacts := b.Build(context.Background(), Jobs([]target.Ecosystem{eco}))
		if artifacts[0].State != StateFailed {
			t.Fatal("garbage bytes passed validation")
		}
	})

	t.Run("missing export", func(t *testing.T) {
		tc := &fakeToolchain{binaries: map[string][]byte{wasiWasm32.String(): emptyWasm}}
		b := NewBuilder(tc, Config{OutDir: t.TempDir(), RequiredWasmExports: []string{"corebridge_open_document"}})

		artifacts := b.Build(context.Background(), Jobs([]target.Ecosystem{eco}))
		if artifacts[0].State != StateFailed {
			t.Fatal("module without required export passed validation")
		}
	})
}

func TestBuilder_DeterministicLayout(t *testing.T) {
	out := t.TempDir()
	tc := &fakeToolchain{}
	b := NewBuilder(tc, Config{OutDir: out})

	artifacts := b.Build(context.Background(), Jobs([]target.Ecosystem{sharedEco("node", linuxAmd64)}))

	want := filepath.Join(out, "node", "linux-x86_64", "libcorebridge.so")
	if artifacts[0].Path != want {
		t.Fatalf("artifact at %q, want %q", artifacts[0].Path, want)
	}
}

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		from, to State
		ok       bool
	}{
		{StatePending, StateCompiling, true},
		{StateCompiling, StateCompiled, true},
		{StateCompiling, StateFailed, true},
		{StatePending, StateCompiled, false},
		{StateCompiled, StateCompiling, false},
		{StateFailed, StateCompiling, false},
		{StateCompiled, StateFailed, false},
	}

	for _, tt := range tests {
		a := &Artifact{State: tt.from}
		err := a.transition(tt.to)
		if tt.ok && err != nil {
			t.Errorf("%v -> %v: unexpected error %v", tt.from, tt.to, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%v -> %v: transition allowed", tt.from, tt.to)
		}
	}
}

func TestJobs_FullMatrix(t *testing.T) {
	jobs := Jobs([]target.Ecosystem{
		sharedEco("python", linuxAmd64, macosArm64),
		sharedEco("ruby", linuxAmd64),
	})
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}
}
