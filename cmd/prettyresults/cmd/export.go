package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	prerrors "github.com/prettyresults/prettyresults/internal/errors"
	"github.com/prettyresults/prettyresults/internal/markdown"
	"github.com/prettyresults/prettyresults/internal/output"
	"github.com/prettyresults/prettyresults/internal/results"
)

// exportOptions holds CLI flags for export.
type exportOptions struct {
	out         string
	ids         []string
	title       string
	imagePrefix string
}

func newExportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export <data.json|results-dir>",
		Short: "Export results as a markdown document",
		Long: `Export a result set as a markdown document.

Containers become headings, tables become pipe tables framed by their
pre and post text, and figures become image links. Image links point at
the results directory relative to the output file unless --image-prefix
is given.`,
		Example: `  prettyresults export results --out report.md --title "Run 42"
  prettyresults export results --id root.fits --id root.summary`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringArrayVar(&opts.ids, "id", nil, "Export only this result (repeatable)")
	cmd.Flags().StringVar(&opts.title, "title", "", "Document title")
	cmd.Flags().StringVar(&opts.imagePrefix, "image-prefix", "", "Prefix for figure links")

	return cmd
}

func runExport(cmd *cobra.Command, path string, opts exportOptions) error {
	src, err := loadSource(path)
	if err != nil {
		return err
	}
	tree, err := src.tree()
	if err != nil {
		return err
	}

	mdOpts := markdown.Options{Title: opts.title, ImagePrefix: opts.imagePrefix}
	for _, id := range opts.ids {
		mdOpts.IDs = append(mdOpts.IDs, results.ID(id))
	}
	if mdOpts.ImagePrefix == "" {
		mdOpts.ImagePrefix = imagePrefix(src.Dir, opts.out)
	}

	md, err := markdown.Render(tree, mdOpts)
	if err != nil {
		return results.Report(err)
	}

	if opts.out == "" || opts.out == "-" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), md)
		return err
	}
	if err := os.WriteFile(opts.out, []byte(md), 0o644); err != nil {
		return prerrors.New(prerrors.ErrCodeFilePermission, "failed to write markdown", err).
			WithDetail("path", opts.out)
	}

	out := output.New(cmd.OutOrStdout(), output.WithColor(!colorDisabled()))
	out.Successf("Exported %d results", tree.Len())
	out.Path("File", opts.out)
	return nil
}

// imagePrefix returns the results directory relative to the directory of
// out, as a slash-terminated link prefix.
func imagePrefix(resultsDir, out string) string {
	base := "."
	if out != "" && out != "-" {
		base = filepath.Dir(out)
	}
	absBase, err1 := filepath.Abs(base)
	absDir, err2 := filepath.Abs(resultsDir)
	if err1 != nil || err2 != nil {
		return filepath.ToSlash(resultsDir) + "/"
	}
	rel, err := filepath.Rel(absBase, absDir)
	if err != nil {
		return filepath.ToSlash(absDir) + "/"
	}
	if rel == "." {
		return "./"
	}
	return filepath.ToSlash(rel) + "/"
}
