package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	prerrors "github.com/prettyresults/prettyresults/internal/errors"
	"github.com/prettyresults/prettyresults/internal/ui"
)

func newValidateCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "validate <data.json|results-dir>",
		Short: "Check a result set for integrity problems",
		Long: `Index a result set and check it completely: every referenced id must
exist, ids must be unique, containers must not contain themselves, and
every figure file must be present in the results directory.

Exits non-zero when problems are found.`,
		Example: `  prettyresults validate results
  prettyresults validate results/data.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the summary as JSON")

	return cmd
}

func runValidate(cmd *cobra.Command, path string, jsonOutput bool) error {
	src, err := loadSource(path)
	if err != nil {
		return err
	}

	var summary ui.Summary
	tree, err := src.tree()
	if err != nil {
		summary = ui.Summary{
			Root:     string(src.Set.RootResult),
			Nodes:    len(src.Set.Results),
			Problems: []string{err.Error()},
		}
	} else {
		summary = ui.Summarize(tree)
		summary.Problems = append(summary.Problems, missingFigures(src.Dir, summary.Figures)...)
	}

	r := ui.NewSummaryRenderer(cmd.OutOrStdout(), colorDisabled())
	if jsonOutput {
		err = r.RenderJSON(summary)
	} else {
		err = r.Render(summary)
	}
	if err != nil {
		return err
	}

	if !summary.Valid() {
		return prerrors.ValidationError(fmt.Sprintf("result set has %d problem(s)", len(summary.Problems)), nil).
			WithDetail("path", src.DataPath)
	}
	return nil
}

// missingFigures reports figure files absent from dir.
func missingFigures(dir string, files []string) []string {
	var problems []string
	for _, name := range files {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			problems = append(problems, "missing figure file "+name)
		}
	}
	return problems
}
