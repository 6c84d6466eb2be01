package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/blackwell-systems/cratecheck/internal/app"
)

func main() {
	if err := app.Execute(); err != nil {
		// A failing verdict has already been printed.
		if !errors.Is(err, app.ErrCheckFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
