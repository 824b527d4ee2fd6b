package main

import (
	"testing"

	"github.com/wippyai/corebridge/target"
)

func TestParseEcosystem(t *testing.T) {
	eco, err := parseEcosystem("python:shared:linux-x86_64,macos-arm64:libpdfium.so")
	if err != nil {
		t.Fatalf("parseEcosystem failed: %v", err)
	}
	if eco.Name != "python" || eco.Shape != target.SharedLibrary {
		t.Fatalf("wrong ecosystem: %+v", eco)
	}
	if len(eco.Targets) != 2 || eco.Targets[1].String() != "macos-arm64" {
		t.Fatalf("wrong targets: %v", eco.Targets)
	}
	if len(eco.RuntimeDeps) != 1 || eco.RuntimeDeps[0] != "libpdfium.so" {
		t.Fatalf("wrong deps: %v", eco.RuntimeDeps)
	}
}

func TestParseEcosystem_Errors(t *testing.T) {
	for _, spec := range []string{
		"",
		"python",
		"python:shared",
		"python:frisbee:linux-x86_64",
		"python:shared:not-a-target-descriptor-at-all:x:y",
		"python:shared:linux",
	} {
		if _, err := parseEcosystem(spec); err == nil {
			t.Errorf("parseEcosystem(%q) did not fail", spec)
		}
	}
}
