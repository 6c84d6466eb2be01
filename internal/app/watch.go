package app

import (
	"context"
	"fmt"
	"time"

	"github.com/blackwell-systems/cratecheck/internal/cargo"
	"github.com/blackwell-systems/cratecheck/internal/checker"
	"github.com/blackwell-systems/cratecheck/internal/watcher"
	"github.com/spf13/cobra"
)

var (
	watchDebounce time.Duration

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Re-run the check whenever Cargo.toml or Cargo.lock changes",
		Long: `Runs the check once, then watches the workspace root and runs it again
each time Cargo.toml or Cargo.lock is written or replaced.

Each run prints its own verdict. Watching continues after failures; press
Ctrl+C to stop. The exit status is that of the last completed run.`,
		Example: `  # Watch the current workspace
  cratecheck watch

  # Wait longer for cargo to finish writing the lockfile
  cratecheck watch --debounce 2s`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "wait this long for changes to settle before re-checking")

	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	if _, err := cargo.ReadManifest(s.dir); err != nil {
		return fmt.Errorf("not a cargo workspace: %w", err)
	}

	out := cmd.OutOrStdout()
	logger := newLogger(cmd.ErrOrStderr())

	var last *checker.Report
	var runErr error
	run := func(ctx context.Context) {
		report, err := runCheck(ctx, s, out, cmd.ErrOrStderr())
		if err != nil {
			if ctx.Err() == nil {
				runErr = err
				logger.Warn("check failed to run", "error", err)
			}
			return
		}
		last, runErr = report, nil
		fmt.Fprintf(out, "[%s] watching %s for changes (Ctrl+C to stop)\n",
			time.Now().Format("15:04:05"), s.dir)
	}

	w, err := watcher.New(s.dir, run,
		watcher.WithDebounce(watchDebounce),
		watcher.WithLogger(logger))
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Run(cmd.Context()); err != nil {
		return err
	}

	if runErr != nil {
		return runErr
	}
	if last != nil && last.Outcome.ExitCode() != 0 {
		return ErrCheckFailed
	}
	return nil
}
