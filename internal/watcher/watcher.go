// Package watcher re-runs a check whenever a Cargo workspace's manifest or
// lockfile changes.
//
// The workspace directory itself is watched rather than the files, because
// cargo replaces Cargo.lock with a rename and editors often do the same for
// Cargo.toml. Events for other files are ignored and bursts of events are
// collapsed into a single run.
//
// Example usage:
//
//	w, err := watcher.New(dir, func(ctx context.Context) { runCheck(ctx) })
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer w.Close()
//	err = w.Run(ctx) // returns when ctx is cancelled
package watcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/blackwell-systems/cratecheck/internal/cargo"
)

// DefaultDebounce is how long the watcher waits for events to settle.
const DefaultDebounce = 500 * time.Millisecond

// RunFunc is invoked once at startup and after every relevant change.
type RunFunc func(ctx context.Context)

// Watcher watches a workspace directory for manifest and lockfile changes.
type Watcher struct {
	dir      string
	run      RunFunc
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the settle delay.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger for watch events.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New creates a watcher on dir.
func New(dir string, run RunFunc, opts ...Option) (*Watcher, error) {
	if run == nil {
		return nil, fmt.Errorf("run function cannot be nil")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		dir:      dir,
		run:      run,
		fsw:      fsw,
		debounce: DefaultDebounce,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run invokes the run function once, then again after each settled burst of
// relevant changes, until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	w.run(ctx)

	// fire is nil while no burst is pending. Each relevant event replaces the
	// timer instead of resetting it, so a value left in a stopped timer's
	// channel is never read.
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !IsRelevant(event) {
				continue
			}
			w.logger.Debug("workspace file changed", "file", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("filesystem watcher error", "error", err)

		case <-fire:
			timer, fire = nil, nil
			w.run(ctx)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// IsRelevant reports whether event touches Cargo.toml or Cargo.lock in a way
// that can change the dependency graph.
func IsRelevant(event fsnotify.Event) bool {
	switch filepath.Base(event.Name) {
	case cargo.ManifestFile, cargo.LockFile:
	default:
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
