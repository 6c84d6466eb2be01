// Package cargo wraps the Cargo dependency-inspection commands that
// cratecheck relies on.
//
// It covers three things:
//   - running `cargo tree -i <crate> --workspace` and capturing its result
//   - parsing the inverted tree cargo prints on success
//   - reading the workspace manifest (Cargo.toml)
//
// A non-zero exit status from cargo is data, not an error: callers inspect
// TreeResult.ExitCode and TreeResult.Stderr themselves.
package cargo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultBinary is the cargo executable used when nothing else is configured.
const DefaultBinary = "cargo"

// ExitCodeNotStarted is reported when the tool could not be started at all,
// mirroring what a POSIX shell returns for an unknown command.
const ExitCodeNotStarted = 127

// Runner executes an external command and captures its output.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (TreeResult, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args in dir. It only returns an error when ctx was
// cancelled; every other failure is reported through the TreeResult.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (TreeResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := TreeResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return res, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	// The process never started (binary missing, bad working directory, ...).
	res.ExitCode = ExitCodeNotStarted
	if res.Stderr == "" {
		res.Stderr = err.Error()
	} else {
		res.Stderr = strings.TrimRight(res.Stderr, "\n") + "\n" + err.Error()
	}
	return res, nil
}

// QueryOptions configures an inverted tree query.
type QueryOptions struct {
	Binary string // cargo executable; DefaultBinary when empty
	Dir    string // workspace directory; current directory when empty
	Crate  string
}

// InvertedTreeArgs returns the arguments for "which workspace crates require
// crate", which prints nothing useful and fails when none do.
func InvertedTreeArgs(crate string) []string {
	return []string{"tree", "-i", crate, "--workspace"}
}

// Query runs `cargo tree -i <crate> --workspace` through r.
func Query(ctx context.Context, r Runner, opts QueryOptions) (TreeResult, error) {
	if opts.Crate == "" {
		return TreeResult{}, fmt.Errorf("crate name cannot be empty")
	}
	if r == nil {
		r = ExecRunner{}
	}

	binary := opts.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	res, err := r.Run(ctx, opts.Dir, binary, InvertedTreeArgs(opts.Crate)...)
	if err != nil {
		return res, fmt.Errorf("cargo tree failed for %s: %w", opts.Crate, err)
	}
	return res, nil
}

// NotFoundMessage is the stderr fragment cargo prints when crate does not
// appear anywhere in the workspace graph.
func NotFoundMessage(crate string) string {
	return fmt.Sprintf("package ID specification `%s` did not match any packages", crate)
}
