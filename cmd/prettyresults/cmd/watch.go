package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	prerrors "github.com/prettyresults/prettyresults/internal/errors"
	"github.com/prettyresults/prettyresults/internal/output"
	"github.com/prettyresults/prettyresults/internal/ui"
	"github.com/prettyresults/prettyresults/internal/watcher"
	"github.com/prettyresults/prettyresults/internal/web"
)

// watchOptions holds CLI flags for watch.
type watchOptions struct {
	out      string
	title    string
	allFiles bool
}

func newWatchCmd() *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch <results-dir>",
		Short: "Regenerate the web page whenever the results change",
		Long: `Render the web page, then watch the results directory and render again
each time data.json is rewritten. Bursts of writes are coalesced, and an
unchanged result set does not rewrite the page.

Stop with Ctrl+C.`,
		Example: `  prettyresults watch results --out web
  prettyresults watch results --out web --all-files`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output web directory (required)")
	cmd.Flags().StringVar(&opts.title, "title", "", "Page title (default from config)")
	cmd.Flags().BoolVar(&opts.allFiles, "all-files", false, "Also regenerate when figure files change")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, dir string, opts watchOptions) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return prerrors.New(prerrors.ErrCodeFileNotFound, "watch needs a results directory: "+dir, err)
	}
	if err := web.CheckOutputDir(dir, opts.out); err != nil {
		return err
	}

	cfg, err := loadConfig(dir)
	if err != nil {
		return err
	}
	debounce, err := cfg.DebounceDuration()
	if err != nil {
		return prerrors.ConfigError("invalid watch.debounce", err)
	}
	title := cfg.Web.Title
	if opts.title != "" {
		title = opts.title
	}

	out := output.New(cmd.OutOrStdout(), output.WithColor(!colorDisabled()))
	renderer := ui.NewPlainRenderer(ui.NewConfig(cmd.OutOrStdout(), ui.WithNoColor(colorDisabled())))
	gen, err := newGenerator(cfg, title, cfg.Web.CacheSize, renderer)
	if err != nil {
		return err
	}

	regenerate := func() {
		src, err := loadSource(dir)
		if err == nil {
			_, err = gen.Generate(ctx, src.Set, src.Dir, opts.out, web.Options{Overwrite: true})
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			renderer.AddError(ui.ErrorEvent{File: filepath.Join(dir, watcher.DataFile), Err: err})
			slog.Warn("regeneration failed", slog.String("dir", dir), slog.String("error", err.Error()))
		}
	}

	filter := watcher.DataFileFilter
	if opts.allFiles {
		filter = watcher.ResultFilesFilter
	}
	w, err := watcher.New(watcher.Options{
		DebounceWindow: debounce,
		Filter:         filter,
		Logger:         slog.Default(),
	})
	if err != nil {
		return prerrors.InternalError("failed to create watcher", err)
	}

	regenerate()
	out.Statusf("👀", "Watching %s (Ctrl+C to stop)", dir)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := w.Start(gctx, dir)
		if errors.Is(err, context.Canceled) || errors.Is(err, watcher.ErrStopped) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		defer func() { _ = w.Stop() }()
		for {
			select {
			case <-gctx.Done():
				return nil
			case batch, ok := <-w.Events():
				if !ok {
					return nil
				}
				slog.Debug("results changed", slog.Int("events", len(batch)))
				regenerate()
			case err, ok := <-w.Errors():
				if !ok {
					return nil
				}
				renderer.AddError(ui.ErrorEvent{File: dir, Err: err, IsWarn: true})
			}
		}
	})

	if err := g.Wait(); err != nil {
		return prerrors.IOError("watch failed", err)
	}
	out.Status("👋", "Stopped watching")
	return nil
}
