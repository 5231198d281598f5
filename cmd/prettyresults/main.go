// Package main provides the entry point for the prettyresults CLI.
package main

import (
	"fmt"
	"os"

	"github.com/prettyresults/prettyresults/cmd/prettyresults/cmd"
	prerrors "github.com/prettyresults/prettyresults/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, prerrors.FormatForCLI(err))
		os.Exit(1)
	}
}
