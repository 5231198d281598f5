package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/prettyresults/prettyresults/internal/config"
	"github.com/prettyresults/prettyresults/internal/output"
	"github.com/prettyresults/prettyresults/internal/ui"
	"github.com/prettyresults/prettyresults/internal/web"
)

// renderOptions holds CLI flags for render.
type renderOptions struct {
	out       string
	overwrite bool
	open      bool
	title     string
	plain     bool
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <results-dir>",
		Short: "Generate a static web page from a results directory",
		Long: `Generate a self-contained web page for a result set.

The output directory receives index.html, result_data.js, style.css and a
results/ folder holding a copy of every file in the results directory.
An existing output directory is only replaced with --overwrite.`,
		Example: `  # Render into ./web
  prettyresults render results --out web

  # Replace a previous page and open it
  prettyresults render results --out web --overwrite --open`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output web directory (required)")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "Replace an existing output directory")
	cmd.Flags().BoolVar(&opts.open, "open", false, "Open the page in the default browser")
	cmd.Flags().StringVar(&opts.title, "title", "", "Page title (default from config)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Plain progress output (no TUI)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runRender(ctx context.Context, cmd *cobra.Command, path string, opts renderOptions) error {
	src, err := loadSource(path)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(src.Dir)
	if err != nil {
		return err
	}

	title := cfg.Web.Title
	if opts.title != "" {
		title = opts.title
	}

	renderer := ui.NewRenderer(ui.NewConfig(cmd.OutOrStdout(),
		ui.WithForcePlain(opts.plain),
		ui.WithNoColor(colorDisabled()),
		ui.WithTitle(title)))
	gen, err := newGenerator(cfg, title, 0, renderer)
	if err != nil {
		return err
	}

	if err := renderer.Start(ctx); err != nil {
		return err
	}
	_, genErr := gen.Generate(ctx, src.Set, src.Dir, opts.out, web.Options{Overwrite: opts.overwrite})
	if err := renderer.Stop(); err != nil {
		slog.Debug("renderer stop failed", slog.String("error", err.Error()))
	}
	if genErr != nil {
		return genErr
	}

	open := cfg.Web.OpenBrowser
	if cmd.Flags().Changed("open") {
		open = opts.open
	}
	if open {
		if err := web.OpenBrowser(opts.out); err != nil {
			out := output.New(cmd.ErrOrStderr(), output.WithColor(!colorDisabled()))
			out.Warningf("Could not open browser: %v", err)
			if url, urlErr := web.PageURL(opts.out); urlErr == nil {
				out.Path("Page", url)
			}
		}
	}
	return nil
}

// newGenerator builds a web generator from configuration.
func newGenerator(cfg *config.Config, title string, cacheSize int, renderer ui.Renderer) (*web.Generator, error) {
	icons := cfg.IconSet()
	return web.New(web.Config{
		Icons:       &icons,
		Title:       title,
		CopyWorkers: cfg.Web.CopyWorkers,
		CacheSize:   cacheSize,
		Logger:      slog.Default(),
		Renderer:    renderer,
	})
}
