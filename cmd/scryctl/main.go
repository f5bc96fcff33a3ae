// Command scryctl runs the study planner and paper analyzer from a terminal.
//
// It reads the same configuration as the server (config.yaml and SCRY_*
// environment variables) but only needs the language model settings.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		color.New(color.FgYellow).Fprintf(os.Stderr, "warning: could not read .env: %v\n", err)
	}

	if err := newRootCmd(newCLI(os.Stdout, os.Stderr, os.Stdin)).ExecuteContext(context.Background()); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
