package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/blackwell-systems/cratecheck/internal/cargo"
	"github.com/blackwell-systems/cratecheck/internal/checker"
	"github.com/blackwell-systems/cratecheck/internal/config"
	"github.com/blackwell-systems/cratecheck/internal/output"
	"github.com/spf13/cobra"
)

// ErrCheckFailed is returned once a failing verdict has already been printed.
// main exits non-zero without printing it again.
var ErrCheckFailed = errors.New("dependency check failed")

var (
	configFile string
	crateFlag  string
	cargoFlag  string
	dirFlag    string
	colorFlag  string
	verbose    bool

	// newRunner is replaced in tests.
	newRunner = func() cargo.Runner { return cargo.ExecRunner{} }

	// RootCmd is the root command for cratecheck
	RootCmd = &cobra.Command{
		Use:   "cratecheck",
		Short: "Fail the build when a forbidden crate is in the Cargo dependency tree",
		Long: `cratecheck runs 'cargo tree -i <crate> --workspace' and reports whether the
crate is reachable from any workspace member.

Outcomes:
  • Success: cargo reports the crate matches no packages (exit 0)
  • Error:   the crate is part of the dependency tree (exit 1)
  • Error:   cargo failed for any other reason (exit 1)

The crate defaults to openssl. It can be changed with --crate or a
cratecheck.toml file in the workspace root.

Examples:
  # Check the current workspace for openssl
  cratecheck

  # Check another workspace for native-tls
  cratecheck --dir ../service --crate native-tls

  # Show which workspace members pull the crate in
  cratecheck explain

  # Re-check whenever Cargo.lock changes
  cratecheck watch`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./cratecheck.toml, then ~/.config/cratecheck/config.toml)")
	RootCmd.PersistentFlags().StringVar(&crateFlag, "crate", "", "crate that must not be in the dependency tree (default: openssl)")
	RootCmd.PersistentFlags().StringVar(&cargoFlag, "cargo", "", "cargo executable (default: $CARGO or cargo)")
	RootCmd.PersistentFlags().StringVar(&dirFlag, "dir", "", "workspace directory (default: current directory)")
	RootCmd.PersistentFlags().StringVar(&colorFlag, "color", "", "color verdict lines: always, never or auto (default: always)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log cargo invocations to stderr")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context, which terminates a running cargo process.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RootCmd.ExecuteContext(ctx)
}

func runRoot(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	report, err := runCheck(cmd.Context(), s, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if report.Outcome.ExitCode() != 0 {
		return ErrCheckFailed
	}
	return nil
}

// settings is the resolved configuration for one invocation.
type settings struct {
	crate string
	cargo string
	dir   string
	color output.ColorMode
}

// loadSettings merges flags over the config file over defaults.
func loadSettings() (*settings, error) {
	dir := dirFlag
	if dir == "" {
		dir = "."
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace directory: %w", err)
	}
	if info, err := os.Stat(absDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("workspace directory not found: %s", absDir)
	}

	cfg, err := config.Load(configFile, absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if crateFlag != "" {
		cfg.Crate = crateFlag
	}
	if cargoFlag != "" {
		cfg.Cargo = cargoFlag
	}
	if colorFlag != "" {
		cfg.Color = colorFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mode, err := output.ParseColorMode(cfg.Color)
	if err != nil {
		return nil, err
	}

	return &settings{
		crate: cfg.Crate,
		cargo: cfg.Cargo,
		dir:   absDir,
		color: mode,
	}, nil
}

// newLogger returns a text logger on w: debug level with --verbose,
// warnings only otherwise.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newChecker(s *settings, logOut io.Writer) *checker.Checker {
	return checker.New(checker.Options{
		Runner: newRunner(),
		Binary: s.cargo,
		Dir:    s.dir,
		Logger: newLogger(logOut),
	})
}

// runCheck performs one check and prints its verdict to out.
func runCheck(ctx context.Context, s *settings, out, logOut io.Writer) (*checker.Report, error) {
	report, err := newChecker(s, logOut).Check(ctx, s.crate)
	if err != nil {
		return nil, err
	}
	report.Render(output.NewPrinter(out, s.color))
	return report, nil
}
