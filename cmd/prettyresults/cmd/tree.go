package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	prerrors "github.com/prettyresults/prettyresults/internal/errors"
	"github.com/prettyresults/prettyresults/internal/results"
	"github.com/prettyresults/prettyresults/internal/ui"
)

// treeOptions holds CLI flags for tree.
type treeOptions struct {
	depth       int
	interactive bool
	ids         bool
}

func newTreeCmd() *cobra.Command {
	var opts treeOptions

	cmd := &cobra.Command{
		Use:   "tree <data.json|results-dir> [id]",
		Short: "Print the result tree",
		Long: `Print the result tree with its icons and labels.

With an id, only that subtree is printed. --interactive opens a browser
where containers can be expanded and collapsed.`,
		Example: `  prettyresults tree results
  prettyresults tree results/data.json root.fits --depth 1
  prettyresults tree results --interactive`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) == 2 {
				id = args[1]
			}
			return runTree(cmd.Context(), cmd, args[0], id, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.depth, "depth", "d", -1, "Levels to expand (default from config, 0 = all)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Browse the tree interactively")
	cmd.Flags().BoolVar(&opts.ids, "ids", false, "Show result ids")

	return cmd
}

func runTree(ctx context.Context, cmd *cobra.Command, path, id string, opts treeOptions) error {
	src, err := loadSource(path)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(src.Dir)
	if err != nil {
		return err
	}
	tree, err := src.tree()
	if err != nil {
		return err
	}

	if opts.interactive {
		if !ui.IsTTY(cmd.OutOrStdout()) {
			return prerrors.ValidationError("--interactive needs a terminal", nil).
				WithSuggestion("Drop --interactive when piping output")
		}
		return ui.NewBrowser(tree, cfg.IconSet(), colorDisabled()).Run(ctx, os.Stdin, cmd.OutOrStdout())
	}

	start := tree.Root
	if id != "" {
		n, ok := tree.Get(results.ID(id))
		if !ok {
			return results.Report(&results.MissingNodeError{ID: results.ID(id)})
		}
		start = n
	}

	p := ui.NewTreePrinter(cfg.IconSet(), colorDisabled())
	p.MaxDepth = cfg.Tree.MaxDepth
	if opts.depth >= 0 {
		p.MaxDepth = opts.depth
	}
	p.ShowIDs = opts.ids

	if err := p.PrintFrom(cmd.OutOrStdout(), tree, start); err != nil {
		return results.Report(err)
	}
	return nil
}
