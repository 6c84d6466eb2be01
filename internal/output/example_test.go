package output_test

import (
	"os"

	"github.com/blackwell-systems/cratecheck/internal/output"
)

// Example showing a success verdict with color disabled
func ExamplePrinter_Status() {
	p := output.NewPrinter(os.Stdout, output.ColorNever)
	p.Status(output.Green, "Success: openssl is not part of the dependencies tree.")
	// Output:
	// Success: openssl is not part of the dependencies tree.
}

// Example showing a failing verdict followed by the raw tool output
func ExamplePrinter_Raw() {
	p := output.NewPrinter(os.Stdout, output.ColorNever)
	p.Status(output.Red, "Error: openssl is part of the dependencies tree")
	p.Raw("openssl v0.10.0")
	// Output:
	// Error: openssl is part of the dependencies tree
	// openssl v0.10.0
}
