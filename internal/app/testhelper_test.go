package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/blackwell-systems/cratecheck/internal/cargo"
	"github.com/blackwell-systems/cratecheck/internal/watcher"
)

// fakeRunner returns a canned cargo result and records the last call.
type fakeRunner struct {
	result cargo.TreeResult
	err    error
	calls  int
	dir    string
	name   string
	args   []string
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) (cargo.TreeResult, error) {
	f.calls++
	f.dir, f.name, f.args = dir, name, args
	return f.result, f.err
}

// setupTest resets global flag state, isolates config lookup from the host,
// and installs a fake runner. It returns the runner and a workspace dir.
func setupTest(t *testing.T, res cargo.TreeResult) (*fakeRunner, string) {
	t.Helper()

	resetFlags()
	t.Cleanup(resetFlags)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CARGO", "")
	t.Setenv("NO_COLOR", "")

	f := &fakeRunner{result: res}
	oldRunner := newRunner
	newRunner = func() cargo.Runner { return f }
	t.Cleanup(func() { newRunner = oldRunner })

	return f, t.TempDir()
}

func resetFlags() {
	configFile = ""
	crateFlag = ""
	cargoFlag = ""
	dirFlag = ""
	colorFlag = ""
	verbose = false
	watchDebounce = watcher.DefaultDebounce
}

// execute runs RootCmd with args and returns captured stdout and stderr.
func execute(ctx context.Context, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetArgs(args)
	// cobra only hands the root context to a subcommand whose context is
	// still nil, so a subcommand would otherwise keep the first test's ctx.
	for _, sub := range RootCmd.Commands() {
		sub.SetContext(ctx)
	}
	defer func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	}()

	err := RootCmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func writeWorkspaceFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// writeFakeCargo writes an executable shell script standing in for cargo.
func writeFakeCargo(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake cargo scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "cargo")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

const notFoundStderr = "error: package ID specification `openssl` did not match any packages\n"
