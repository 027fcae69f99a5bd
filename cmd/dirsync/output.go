package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Error prints an error message to standard error in red, matching the
// reference codebase's cmd.Error convention (cmd/error.go) and the color
// convention internal/logging.Logger.Error uses for the same purpose.
func Error(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
}
