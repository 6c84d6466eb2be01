package checker

import (
	"strings"

	"github.com/blackwell-systems/cratecheck/internal/cargo"
)

// Outcome is the verdict of a single dependency check.
type Outcome int

const (
	// Absent means cargo confirmed the crate is not in the workspace graph.
	Absent Outcome = iota
	// Forbidden means the crate is reachable from a workspace member.
	Forbidden
	// UnexpectedError means cargo failed for some other reason.
	UnexpectedError
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case Absent:
		return "absent"
	case Forbidden:
		return "forbidden"
	case UnexpectedError:
		return "unexpected-error"
	default:
		return "unknown"
	}
}

// ExitCode maps the outcome to the process exit status.
func (o Outcome) ExitCode() int {
	if o == Absent {
		return 0
	}
	return 1
}

// Classify maps one cargo tree result to an outcome. It is a pure function of
// its inputs.
func Classify(crate string, res cargo.TreeResult) Outcome {
	if res.Success() {
		return Forbidden
	}
	if strings.Contains(res.Stderr, cargo.NotFoundMessage(crate)) {
		return Absent
	}
	return UnexpectedError
}
