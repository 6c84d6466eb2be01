// Package checker decides whether a forbidden crate is part of a Cargo
// workspace's dependency graph.
//
// The check runs `cargo tree -i <crate> --workspace` once and classifies the
// result into exactly one Outcome:
//   - Forbidden: cargo exited 0, so the crate is reachable
//   - Absent: cargo reported that the crate matched no packages
//   - UnexpectedError: anything else
//
// Example usage:
//
//	c := checker.New(checker.Options{Dir: "."})
//	report, err := c.Check(ctx, "openssl")
//	if err != nil {
//		log.Fatal(err)
//	}
//	report.Render(output.NewPrinter(os.Stdout, output.ColorAlways))
//	os.Exit(report.Outcome.ExitCode())
package checker

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/blackwell-systems/cratecheck/internal/cargo"
	"github.com/blackwell-systems/cratecheck/internal/output"
)

// DefaultCrate is the crate checked when none is configured.
const DefaultCrate = "openssl"

// Options configures a Checker.
type Options struct {
	Runner cargo.Runner // defaults to cargo.ExecRunner
	Binary string       // cargo executable; defaults to cargo.DefaultBinary
	Dir    string       // workspace directory
	Logger *slog.Logger
}

// Checker runs dependency checks against one workspace.
type Checker struct {
	runner cargo.Runner
	binary string
	dir    string
	logger *slog.Logger
}

// New creates a Checker.
func New(opts Options) *Checker {
	c := &Checker{
		runner: opts.Runner,
		binary: opts.Binary,
		dir:    opts.Dir,
		logger: opts.Logger,
	}
	if c.runner == nil {
		c.runner = cargo.ExecRunner{}
	}
	if c.binary == "" {
		c.binary = cargo.DefaultBinary
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// Report is the result of one check.
type Report struct {
	Crate   string
	Outcome Outcome
	Result  cargo.TreeResult
}

// Check queries the dependency graph for crate and classifies the result.
// The returned error is non-nil only if the query itself could not complete
// (e.g. ctx was cancelled); tool failures are reported as UnexpectedError.
func (c *Checker) Check(ctx context.Context, crate string) (*Report, error) {
	c.logger.Debug("querying dependency tree",
		"binary", c.binary,
		"args", cargo.InvertedTreeArgs(crate),
		"dir", c.dir)

	res, err := cargo.Query(ctx, c.runner, cargo.QueryOptions{
		Binary: c.binary,
		Dir:    c.dir,
		Crate:  crate,
	})
	if err != nil {
		return nil, err
	}

	outcome := Classify(crate, res)
	c.logger.Debug("classified dependency tree result",
		"crate", crate,
		"exit_code", res.ExitCode,
		"outcome", outcome.String())

	return &Report{
		Crate:   crate,
		Outcome: outcome,
		Result:  res,
	}, nil
}

// Render prints the verdict for r.
func (r *Report) Render(p *output.Printer) {
	switch r.Outcome {
	case Forbidden:
		p.Status(output.Red, fmt.Sprintf("Error: %s is part of the dependencies tree", r.Crate))
		p.Raw(r.Result.Stdout)
	case Absent:
		p.Status(output.Green, fmt.Sprintf("Success: %s is not part of the dependencies tree.", r.Crate))
	default:
		p.Status(output.Red, "Error: Unexpected error message.")
		p.Raw(r.Result.Stderr)
	}
}

// Dependents parses the inverted tree of a Forbidden report.
func (r *Report) Dependents() ([]cargo.Dependent, error) {
	if r.Outcome != Forbidden {
		return nil, fmt.Errorf("%s is not in the dependency tree", r.Crate)
	}
	return cargo.ParseInvertedTree(r.Result.Stdout)
}
