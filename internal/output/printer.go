package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Printer writes verdict lines and raw tool output.
type Printer struct {
	Writer io.Writer
	Color  bool
}

// NewPrinter creates a printer for w, resolving mode against it.
// A nil writer means os.Stdout.
func NewPrinter(w io.Writer, mode ColorMode) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		Writer: w,
		Color:  mode.Enabled(w),
	}
}

// Status prints one verdict line in the given color.
func (p *Printer) Status(color Color, message string) {
	fmt.Fprintln(p.Writer, p.colorize(color, message))
}

// Raw prints captured tool output uncolored, followed by a newline.
func (p *Printer) Raw(text string) {
	fmt.Fprintln(p.Writer, text)
}

// Line prints an uncolored line built from a format string.
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.Writer, format, args...)
	if !strings.HasSuffix(format, "\n") {
		fmt.Fprintln(p.Writer)
	}
}

// colorize wraps text in color, followed by Reset, if color is enabled.
func (p *Printer) colorize(color Color, text string) string {
	if !p.Color {
		return text
	}
	return string(color) + text + string(Reset)
}
