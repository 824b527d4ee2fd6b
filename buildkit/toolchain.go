package buildkit

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/corebridge/target"
)

// Job is one compile unit: the FFI layer plus its core dependency, built
// into the shape one ecosystem consumes for one target.
type Job struct {
	Ecosystem target.Ecosystem
	Target    target.Descriptor
}

// Toolchain compiles one job and returns the built binary bytes.
// Implementations must be safe for concurrent Compile calls; the builder
// runs unrelated targets in parallel.
type Toolchain interface {
	Compile(ctx context.Context, job Job) ([]byte, error)
}

// ExecToolchain shells out to a native build command. The argument list
// may reference {target}, {shape}, and {output} placeholders; the command
// must leave the binary at the expanded {output} path.
type ExecToolchain struct {
	Command string
	Args    []string
	WorkDir string
}

// Compile runs the build command for one job in a per-job scratch
// directory and reads back the produced binary.
func (tc *ExecToolchain) Compile(ctx context.Context, job Job) ([]byte, error) {
	scratch, err := os.MkdirTemp("", "corebridge-build-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	output := filepath.Join(scratch, target.LibraryFileName(job.Target, job.Ecosystem.Shape))
	args := make([]string, len(tc.Args))
	for i, a := range tc.Args {
		a = strings.ReplaceAll(a, "{target}", job.Target.String())
		a = strings.ReplaceAll(a, "{shape}", job.Ecosystem.Shape.String())
		a = strings.ReplaceAll(a, "{output}", output)
		args[i] = a
	}

	cmd := exec.CommandContext(ctx, tc.Command, args...)
	cmd.Dir = tc.WorkDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		Logger().Debug("toolchain output",
			zap.String("target", job.Target.String()),
			zap.ByteString("output", out))
		return nil, fmt.Errorf("%s %s: %w", tc.Command, strings.Join(args, " "), err)
	}

	bin, err := os.ReadFile(output)
	if err != nil {
		return nil, fmt.Errorf("toolchain produced no binary at %s: %w", output, err)
	}
	return bin, nil
}
