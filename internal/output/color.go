// Package output provides terminal output utilities for cratecheck.
//
// Verdict lines are wrapped in ANSI color codes; raw tool output printed
// beneath them is never colored.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Color is an ANSI escape sequence used for verdict lines.
type Color string

// The fixed set of colors cratecheck emits.
const (
	Green Color = "\033[92m"
	Red   Color = "\033[91m"
	Reset Color = "\033[0m"
)

// ColorMode selects when verdict lines are colored.
type ColorMode string

const (
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
	ColorAuto   ColorMode = "auto"
)

// ParseColorMode validates a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ColorAlways, ColorNever, ColorAuto:
		return m, nil
	case "":
		return ColorAlways, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (want always, never or auto)", s)
	}
}

// Enabled resolves the mode against the writer that will receive output.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorNever:
		return false
	case ColorAuto:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		return writerIsTTY(w)
	default:
		return true
	}
}

// writerIsTTY returns true if the given writer exposes an Fd() method
// (e.g. *os.File) and that fd is a terminal. Falls back to false for
// plain io.Writer values such as *bytes.Buffer.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}
