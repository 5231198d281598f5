// Package web generates the static results page: index.html rendered
// server-side from the result tree, the result_data.js payload, a
// stylesheet, and a copy of every result file under results/.
package web

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	prerrors "github.com/prettyresults/prettyresults/internal/errors"
	"github.com/prettyresults/prettyresults/internal/icons"
	"github.com/prettyresults/prettyresults/internal/results"
	"github.com/prettyresults/prettyresults/internal/ui"
)

// Output file names inside the web directory.
const (
	IndexFile = "index.html"
	// DataScript holds the result set as "var ANALYSIS_RESULTS = {...}".
	// The page is rendered server-side and does not load it; it is the
	// interchange copy of data.json that results.Decode reads back.
	DataScript  = "result_data.js"
	StyleFile   = "style.css"
	ResultsDir  = "results"
	DefaultName = "Analysis results"
)

// Config configures a Generator.
type Config struct {
	// Icons maps result types to icon classes. Zero value uses icons.Default.
	Icons *icons.Set
	// Title is the page title.
	Title string
	// CopyWorkers bounds concurrent file copies. Zero uses runtime.NumCPU.
	CopyWorkers int
	// CacheSize is the number of fingerprints remembered. Zero disables
	// the render cache.
	CacheSize int
	Logger    *slog.Logger
	Renderer  ui.Renderer
}

// Options are per-call generation options.
type Options struct {
	// Overwrite replaces an existing web directory. Without it an
	// existing directory is an error.
	Overwrite bool
}

// Stats describes a finished generation.
type Stats struct {
	Nodes    int
	Files    int
	Cached   bool
	Duration time.Duration
}

// Generator renders result sets into web directories. A Generator is safe
// for sequential reuse; the render cache makes repeated generation of an
// unchanged set a no-op.
type Generator struct {
	icons    icons.Set
	title    string
	workers  int
	logger   *slog.Logger
	renderer ui.Renderer
	page     *template.Template
	cache    *renderCache
}

// New creates a Generator.
func New(cfg Config) (*Generator, error) {
	g := &Generator{
		icons:    icons.Default(),
		title:    cfg.Title,
		workers:  cfg.CopyWorkers,
		logger:   cfg.Logger,
		renderer: cfg.Renderer,
	}
	if cfg.Icons != nil {
		g.icons = *cfg.Icons
	}
	if g.title == "" {
		g.title = DefaultName
	}
	if g.workers <= 0 {
		g.workers = runtime.NumCPU()
	}
	if g.logger == nil {
		g.logger = slog.New(slog.DiscardHandler)
	}
	if g.renderer == nil {
		g.renderer = ui.NopRenderer{}
	}

	page, err := parsePage(g.icons)
	if err != nil {
		return nil, prerrors.InternalError("failed to parse page template", err)
	}
	g.page = page

	cache, err := newRenderCache(cfg.CacheSize)
	if err != nil {
		return nil, prerrors.InternalError("failed to create render cache", err)
	}
	g.cache = cache

	return g, nil
}

// Generate writes the page for set into webDir, copying result files from
// resultsDir into webDir/results.
func (g *Generator) Generate(ctx context.Context, set results.ResultSet, resultsDir, webDir string, opts Options) (Stats, error) {
	start := time.Now()
	r := g.renderer

	if err := CheckOutputDir(resultsDir, webDir); err != nil {
		return Stats{}, err
	}
	if _, err := os.Stat(webDir); err == nil && !opts.Overwrite {
		return Stats{}, prerrors.New(prerrors.ErrCodeOutputExists, "web directory "+webDir+" already exists", nil).
			WithSuggestion("Pass --overwrite to replace it")
	}

	r.UpdateProgress(ui.ProgressEvent{Stage: ui.StageLoad, Message: "encoding results"})
	var script bytes.Buffer
	if err := results.EncodeScript(&script, set); err != nil {
		return Stats{}, prerrors.InternalError("failed to encode results", err)
	}
	files, err := listResultFiles(resultsDir)
	if err != nil {
		return Stats{}, prerrors.IOError("failed to list results directory", err).WithDetail("path", resultsDir)
	}

	r.UpdateProgress(ui.ProgressEvent{Stage: ui.StageIndex, Message: "indexing results"})
	tree, err := results.Index(set)
	if err != nil {
		return Stats{}, results.Report(err)
	}
	if err := tree.Validate(); err != nil {
		return Stats{}, results.Report(err)
	}

	stats := Stats{Nodes: tree.Len(), Files: len(files)}

	key := fingerprint(script.Bytes(), g.title, files)
	if g.cache.hit(key, webDir) {
		stats.Cached = true
		stats.Duration = time.Since(start)
		g.logger.Debug("page unchanged, skipping render", slog.String("dir", webDir))
		r.Complete(g.completion(stats, webDir))
		return stats, nil
	}

	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}

	if err := os.RemoveAll(webDir); err != nil {
		return Stats{}, prerrors.New(prerrors.ErrCodeFilePermission, "failed to remove web directory", err).
			WithDetail("path", webDir)
	}
	if err := os.MkdirAll(webDir, 0o755); err != nil {
		return Stats{}, prerrors.New(prerrors.ErrCodeFilePermission, "failed to create web directory", err).
			WithDetail("path", webDir)
	}

	r.UpdateProgress(ui.ProgressEvent{Stage: ui.StageRender, Message: "writing " + IndexFile})
	if err := g.writePage(webDir, tree, script.Bytes()); err != nil {
		return Stats{}, err
	}

	if err := copyFiles(ctx, resultsDir, filepath.Join(webDir, ResultsDir), files, g.workers, r); err != nil {
		return Stats{}, prerrors.IOError("failed to copy result files", err)
	}

	g.cache.add(key, webDir)

	stats.Duration = time.Since(start)
	g.logger.Info("web page generated",
		slog.String("dir", webDir),
		slog.Int("results", stats.Nodes),
		slog.Int("files", stats.Files),
		slog.Duration("duration", stats.Duration))
	r.Complete(g.completion(stats, webDir))

	return stats, nil
}

func (g *Generator) completion(s Stats, webDir string) ui.CompletionStats {
	return ui.CompletionStats{
		Nodes:     s.Nodes,
		Files:     s.Files,
		OutputDir: webDir,
		Duration:  s.Duration,
		Cached:    s.Cached,
	}
}

// pageData is the root value of the page template.
type pageData struct {
	Title     string
	Count     int
	Generated string
	Roots     []*results.ResultNode
}

// RenderPage renders index.html for tree.
func (g *Generator) RenderPage(tree *results.Tree) ([]byte, error) {
	page, err := g.page.Clone()
	if err != nil {
		return nil, prerrors.InternalError("failed to clone page template", err)
	}
	page.Funcs(template.FuncMap{"children": tree.Children})

	data := pageData{
		Title:     g.title,
		Count:     tree.Len(),
		Generated: time.Now().Format("2006-01-02 15:04"),
		Roots:     tree.RootChildren,
	}

	var buf bytes.Buffer
	if err := page.ExecuteTemplate(&buf, pageTemplate, data); err != nil {
		return nil, prerrors.New(prerrors.ErrCodeRenderFailed, "failed to render page", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) writePage(webDir string, tree *results.Tree, script []byte) error {
	html, err := g.RenderPage(tree)
	if err != nil {
		return err
	}
	css, err := readAsset(styleSheet)
	if err != nil {
		return prerrors.InternalError("missing embedded stylesheet", err)
	}

	for name, content := range map[string][]byte{
		IndexFile:  html,
		DataScript: script,
		StyleFile:  css,
	} {
		path := filepath.Join(webDir, name)
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return prerrors.IOError("failed to write "+name, err).WithDetail("path", path)
		}
	}
	return nil
}

func indexPath(webDir string) string {
	return filepath.Join(webDir, IndexFile)
}
