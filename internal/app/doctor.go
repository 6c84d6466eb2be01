package app

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/cratecheck/internal/cargo"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose common issues before running the check",
	Long: `Runs diagnostic checks on the environment cratecheck depends on.

Checks:
  • cargo executable is on PATH
  • Cargo.toml exists and parses
  • Cargo.lock exists (warning only)`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Running cratecheck diagnostics...")
	fmt.Fprintln(out)

	criticalIssues := 0
	warningIssues := 0

	s, err := loadSettings()
	if err != nil {
		fmt.Fprintln(out, "✗ Configuration error:", err)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Found 1 critical issue(s) and 0 warning(s).")
		return fmt.Errorf("diagnostics failed")
	}
	fmt.Fprintf(out, "✓ Checking for crate: %s\n", s.crate)

	// Check 1: cargo executable
	if path, err := exec.LookPath(s.cargo); err != nil {
		fmt.Fprintf(out, "✗ %s not found on PATH\n", s.cargo)
		fmt.Fprintln(out, "  Action: Install Rust via https://rustup.rs or pass --cargo")
		criticalIssues++
	} else {
		fmt.Fprintln(out, "✓ cargo found:", path)
	}

	// Check 2: manifest
	manifest, err := cargo.ReadManifest(s.dir)
	switch {
	case err != nil && errors.Is(err, os.ErrNotExist):
		fmt.Fprintln(out, "✗ Cargo.toml not found in:", s.dir)
		fmt.Fprintln(out, "  Action: Run from the workspace root or pass --dir")
		criticalIssues++
	case err != nil:
		fmt.Fprintln(out, "✗ Cannot read Cargo.toml:", err)
		criticalIssues++
	case manifest.IsWorkspace:
		fmt.Fprintf(out, "✓ Workspace manifest found (%d member pattern(s): %s)\n",
			len(manifest.Members), strings.Join(manifest.Members, ", "))
	default:
		fmt.Fprintf(out, "✓ Package manifest found (%s)\n", manifest.PackageName)
	}

	// Check 3: lockfile (warning only)
	if _, err := os.Stat(filepath.Join(s.dir, cargo.LockFile)); err != nil {
		fmt.Fprintln(out, "⚠ Cargo.lock not found")
		fmt.Fprintln(out, "  cargo tree will resolve dependencies before answering")
		warningIssues++
	} else {
		fmt.Fprintln(out, "✓ Cargo.lock found")
	}

	fmt.Fprintln(out)
	if criticalIssues == 0 && warningIssues == 0 {
		fmt.Fprintln(out, "✓ All checks passed!")
		return nil
	}

	if criticalIssues > 0 {
		fmt.Fprintf(out, "Found %d critical issue(s) and %d warning(s).\n", criticalIssues, warningIssues)
		return fmt.Errorf("diagnostics failed")
	}

	fmt.Fprintf(out, "Found %d warning(s). cratecheck can run.\n", warningIssues)
	return nil
}
