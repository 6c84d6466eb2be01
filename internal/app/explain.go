package app

import (
	"fmt"
	"io"

	"github.com/blackwell-systems/cratecheck/internal/cargo"
	"github.com/blackwell-systems/cratecheck/internal/checker"
	"github.com/blackwell-systems/cratecheck/internal/output"
	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Show which workspace members pull the crate in",
	Long: `Runs the same check as cratecheck and, when the crate is part of the
dependency tree, summarizes the inverted tree: each version of the crate
found and the workspace members that depend on it. Path crates that are
not members of the workspace, such as vendored crates outside its root, are
listed separately.

If the tree cannot be summarized the raw cargo output is printed instead.`,
	Example: `  # Explain why openssl is in the tree
  cratecheck explain

  # Explain a different crate
  cratecheck explain --crate ring`,
	Args: cobra.NoArgs,
	RunE: runExplain,
}

func init() {
	RootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	report, err := newChecker(s, cmd.ErrOrStderr()).Check(cmd.Context(), s.crate)
	if err != nil {
		return err
	}

	p := output.NewPrinter(cmd.OutOrStdout(), s.color)
	if report.Outcome != checker.Forbidden {
		report.Render(p)
		if report.Outcome.ExitCode() != 0 {
			return ErrCheckFailed
		}
		return nil
	}

	// Without a readable manifest local crates are listed without telling
	// members apart from other path crates.
	manifest, _ := cargo.ReadManifest(s.dir)

	renderExplanation(p, report, manifest)
	return ErrCheckFailed
}

func renderExplanation(p *output.Printer, report *checker.Report, manifest *cargo.Manifest) {
	p.Status(output.Red, fmt.Sprintf("Error: %s is part of the dependencies tree", report.Crate))

	deps, err := report.Dependents()
	if err != nil {
		p.Raw(report.Result.Stdout)
		return
	}

	groups := cargo.GroupByRoot(deps)
	if len(groups) == 0 {
		p.Raw(report.Result.Stdout)
		return
	}

	for _, g := range groups {
		p.Line("")
		p.Line("%s %s", g.Root.Name, formatVersion(g.Root))

		local := cargo.LocalCrates(g.Entries)
		if len(local) == 0 {
			p.Line("  (no local crate found in tree output)")
			continue
		}
		if manifest == nil {
			writeCrates(p, "  required by %d local crate(s):", local)
			continue
		}

		var members, others []cargo.Dependent
		for _, d := range local {
			if manifest.Contains(d.Path) {
				members = append(members, d)
			} else {
				others = append(others, d)
			}
		}
		if len(members) > 0 {
			writeCrates(p, "  required by %d workspace member(s):", members)
		}
		if len(others) > 0 {
			writeCrates(p, "  via %d local crate(s) outside the workspace:", others)
		}
	}
	writeHint(p.Writer, report.Crate)
}

func writeCrates(p *output.Printer, header string, crates []cargo.Dependent) {
	p.Line(header, len(crates))
	for _, d := range crates {
		p.Line("    • %s %s (%s)", d.Name, formatVersion(d), d.Path)
	}
}

func formatVersion(d cargo.Dependent) string {
	if d.Version == nil {
		return "(unknown version)"
	}
	return "v" + d.Version.String()
}

func writeHint(w io.Writer, crate string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run 'cargo tree -i %s --workspace' for the full inverted tree.\n", crate)
}
