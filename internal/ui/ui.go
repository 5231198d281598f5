// Package ui provides terminal output for result trees: progress reporting
// while a web page is generated, a static tree printer, an interactive
// browser and a validation summary.
package ui

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// Stage is a step of web generation.
type Stage int

const (
	// StageLoad reads the result set.
	StageLoad Stage = iota
	// StageIndex builds the lookup table and resolves the root.
	StageIndex
	// StageRender writes index.html and the data script.
	StageRender
	// StageCopy copies result files next to the page.
	StageCopy
	// StageComplete indicates generation finished.
	StageComplete
)

// String returns the human-readable stage name.
func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "Load"
	case StageIndex:
		return "Index"
	case StageRender:
		return "Render"
	case StageCopy:
		return "Copy"
	case StageComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// Icon returns the short stage tag for plain text output.
func (s Stage) Icon() string {
	switch s {
	case StageLoad:
		return "LOAD"
	case StageIndex:
		return "INDEX"
	case StageRender:
		return "RENDER"
	case StageCopy:
		return "COPY"
	case StageComplete:
		return "DONE"
	default:
		return "???"
	}
}

// ProgressEvent represents a progress update.
type ProgressEvent struct {
	Stage   Stage
	Current int
	Total   int
	File    string
	Message string
}

// ErrorEvent represents a non-fatal problem during generation.
type ErrorEvent struct {
	File   string
	Err    error
	IsWarn bool
}

// CompletionStats summarises a finished generation.
type CompletionStats struct {
	Nodes     int
	Files     int
	OutputDir string
	Duration  time.Duration
	Cached    bool
	Errors    int
	Warnings  int
}

// Renderer receives generation progress.
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// UpdateProgress updates progress display.
	UpdateProgress(event ProgressEvent)

	// AddError adds an error to display.
	AddError(event ErrorEvent)

	// Complete marks rendering as complete with summary.
	Complete(stats CompletionStats)

	// Stop stops the renderer and cleans up.
	Stop() error
}

// Config configures a renderer.
type Config struct {
	Output     io.Writer
	ForcePlain bool
	NoColor    bool
	Title      string
}

// ConfigOption is a function that modifies Config.
type ConfigOption func(*Config)

// WithForcePlain forces plain text output.
func WithForcePlain(force bool) ConfigOption {
	return func(c *Config) {
		c.ForcePlain = force
	}
}

// WithNoColor disables color output.
func WithNoColor(noColor bool) ConfigOption {
	return func(c *Config) {
		c.NoColor = noColor
	}
}

// WithTitle sets the header shown by the TUI renderer.
func WithTitle(title string) ConfigOption {
	return func(c *Config) {
		c.Title = title
	}
}

// NewConfig creates a new Config with the given output and options.
func NewConfig(output io.Writer, opts ...ConfigOption) Config {
	cfg := Config{Output: output}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// NewRenderer picks the TUI renderer for interactive terminals and the
// plain renderer for CI, pipes, or when plain output is forced.
func NewRenderer(cfg Config) Renderer {
	if cfg.ForcePlain || !IsTTY(cfg.Output) || DetectCI() {
		return NewPlainRenderer(cfg)
	}

	tui, err := NewTUIRenderer(cfg)
	if err != nil {
		return NewPlainRenderer(cfg)
	}
	return tui
}

// NopRenderer discards all progress.
type NopRenderer struct{}

func (NopRenderer) Start(context.Context) error  { return nil }
func (NopRenderer) UpdateProgress(ProgressEvent) {}
func (NopRenderer) AddError(ErrorEvent)          {}
func (NopRenderer) Complete(CompletionStats)     {}
func (NopRenderer) Stop() error                  { return nil }

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks if running in a CI environment.
func DetectCI() bool {
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"} {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}

var (
	_ Renderer = NopRenderer{}
	_ Renderer = (*PlainRenderer)(nil)
	_ Renderer = (*TUIRenderer)(nil)
)
