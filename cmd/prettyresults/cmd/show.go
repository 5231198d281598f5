package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/prettyresults/prettyresults/internal/markdown"
	"github.com/prettyresults/prettyresults/internal/results"
)

// showOptions holds CLI flags for show.
type showOptions struct {
	width int
	raw   bool
}

func newShowCmd() *cobra.Command {
	var opts showOptions

	cmd := &cobra.Command{
		Use:   "show <data.json|results-dir> <id>",
		Short: "Render one result in the terminal",
		Long: `Render a result and everything below it as formatted markdown.

Tables are drawn as tables, figures as links to their image files.`,
		Example: `  prettyresults show results root.summary
  prettyresults show results root.fits --raw > fits.md`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.width, "width", "w", 100, "Wrap width")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print markdown source instead of rendering it")

	return cmd
}

func runShow(cmd *cobra.Command, path, id string, opts showOptions) error {
	src, err := loadSource(path)
	if err != nil {
		return err
	}
	tree, err := src.tree()
	if err != nil {
		return err
	}

	md, err := markdown.Render(tree, markdown.Options{
		IDs:         []results.ID{results.ID(id)},
		ImagePrefix: filepath.ToSlash(src.Dir) + "/",
	})
	if err != nil {
		return results.Report(err)
	}

	if !opts.raw {
		md, err = markdown.Terminal(md, opts.width, colorDisabled())
		if err != nil {
			return err
		}
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), md)
	return err
}
