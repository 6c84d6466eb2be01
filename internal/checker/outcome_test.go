package checker

import (
	"testing"

	"github.com/blackwell-systems/cratecheck/internal/cargo"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		crate  string
		result cargo.TreeResult
		want   Outcome
	}{
		{
			name:   "tool exits 0: crate is in the tree",
			crate:  "openssl",
			result: cargo.TreeResult{ExitCode: 0, Stdout: "openssl v0.10.0"},
			want:   Forbidden,
		},
		{
			name:   "exit 0 wins even with matching stderr",
			crate:  "openssl",
			result: cargo.TreeResult{ExitCode: 0, Stderr: "package ID specification `openssl` did not match any packages"},
			want:   Forbidden,
		},
		{
			name:   "not found message: crate absent",
			crate:  "openssl",
			result: cargo.TreeResult{ExitCode: 1, Stderr: "error: package ID specification `openssl` did not match any packages"},
			want:   Absent,
		},
		{
			name:   "not found message with surrounding output",
			crate:  "openssl",
			result: cargo.TreeResult{ExitCode: 101, Stderr: "    Updating crates.io index\nerror: package ID specification `openssl` did not match any packages\n"},
			want:   Absent,
		},
		{
			name:   "command not found",
			crate:  "openssl",
			result: cargo.TreeResult{ExitCode: 127, Stderr: "command not found"},
			want:   UnexpectedError,
		},
		{
			name:   "not found message for a different crate",
			crate:  "openssl",
			result: cargo.TreeResult{ExitCode: 101, Stderr: "error: package ID specification `ring` did not match any packages"},
			want:   UnexpectedError,
		},
		{
			name:   "substring match is case sensitive",
			crate:  "openssl",
			result: cargo.TreeResult{ExitCode: 101, Stderr: "error: Package ID specification `openssl` did not match any packages"},
			want:   UnexpectedError,
		},
		{
			name:   "workspace error",
			crate:  "openssl",
			result: cargo.TreeResult{ExitCode: 101, Stderr: "error: could not find `Cargo.toml` in `/tmp` or any parent directory"},
			want:   UnexpectedError,
		},
		{
			name:   "empty stderr",
			crate:  "openssl",
			result: cargo.TreeResult{ExitCode: 1},
			want:   UnexpectedError,
		},
		{
			name:   "configured crate",
			crate:  "native-tls",
			result: cargo.TreeResult{ExitCode: 101, Stderr: "error: package ID specification `native-tls` did not match any packages"},
			want:   Absent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.crate, tt.result)
			if got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
			// Pure function: same input, same outcome.
			if again := Classify(tt.crate, tt.result); again != got {
				t.Errorf("second Classify() = %s, first was %s", again, got)
			}
		})
	}
}

func TestOutcomeExitCode(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    int
	}{
		{Absent, 0},
		{Forbidden, 1},
		{UnexpectedError, 1},
	}

	for _, tt := range tests {
		if got := tt.outcome.ExitCode(); got != tt.want {
			t.Errorf("%s.ExitCode() = %d, want %d", tt.outcome, got, tt.want)
		}
	}
}

func TestOutcomeString(t *testing.T) {
	if Absent.String() != "absent" {
		t.Errorf("unexpected %q", Absent.String())
	}
	if Forbidden.String() != "forbidden" {
		t.Errorf("unexpected %q", Forbidden.String())
	}
	if UnexpectedError.String() != "unexpected-error" {
		t.Errorf("unexpected %q", UnexpectedError.String())
	}
	if Outcome(42).String() != "unknown" {
		t.Errorf("unexpected %q", Outcome(42).String())
	}
}
