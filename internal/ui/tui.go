package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUIRenderer shows generation progress with bubbletea.
type TUIRenderer struct {
	mu      sync.Mutex
	cfg     Config
	program *tea.Program
	model   *generateModel
	cancel  context.CancelFunc
	started bool
	done    chan struct{}
}

// NewTUIRenderer creates a TUI renderer. It fails for non-TTY output.
func NewTUIRenderer(cfg Config) (*TUIRenderer, error) {
	if !IsTTY(cfg.Output) {
		return nil, fmt.Errorf("output is not a TTY")
	}

	model := newGenerateModel(cfg.Title)
	if cfg.NoColor || DetectNoColor() {
		model.styles = NoColorStyles()
	}

	return &TUIRenderer{
		cfg:   cfg,
		model: model,
		done:  make(chan struct{}),
	}, nil
}

// Start implements Renderer.
func (r *TUIRenderer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return nil
	}

	var runCtx context.Context
	runCtx, r.cancel = context.WithCancel(ctx)

	opts := []tea.ProgramOption{tea.WithContext(runCtx)}
	if f, ok := r.cfg.Output.(*os.File); ok {
		opts = append(opts, tea.WithOutput(f))
	}

	r.program = tea.NewProgram(r.model, opts...)
	r.started = true

	go func() {
		defer close(r.done)
		_, _ = r.program.Run()
	}()

	return nil
}

// UpdateProgress implements Renderer.
func (r *TUIRenderer) UpdateProgress(event ProgressEvent) {
	r.send(progressUpdateMsg(event))
}

// AddError implements Renderer.
func (r *TUIRenderer) AddError(event ErrorEvent) {
	r.send(errorMsg(event))
}

// Complete implements Renderer.
func (r *TUIRenderer) Complete(stats CompletionStats) {
	r.send(completeMsg(stats))
}

func (r *TUIRenderer) send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.program != nil {
		r.program.Send(msg)
	}
}

// Stop implements Renderer.
func (r *TUIRenderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.program == nil {
		return nil
	}
	r.program.Quit()

	// An unresponsive program must not hang the process on Ctrl+C.
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
	}
	if r.cancel != nil {
		r.cancel()
	}
	return nil
}

type progressUpdateMsg ProgressEvent
type errorMsg ErrorEvent
type completeMsg CompletionStats

// generateModel is the bubbletea model for web generation.
type generateModel struct {
	title    string
	event    ProgressEvent
	warnings int
	errors   int
	lastErr  string
	complete bool
	quitting bool
	stats    CompletionStats
	width    int

	spinner     spinner.Model
	progressBar progress.Model
	styles      Styles
}

func newGenerateModel(title string) *generateModel {
	if title == "" {
		title = "prettyresults"
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLime))

	p := progress.New(
		progress.WithSolidFill(ColorLime),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	return &generateModel{
		title:       title,
		spinner:     s,
		progressBar: p,
		styles:      DefaultStyles(),
		width:       80,
	}
}

// Init implements tea.Model.
func (m *generateModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *generateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = max(20, msg.Width-20)

	case progressUpdateMsg:
		m.event = ProgressEvent(msg)

	case errorMsg:
		if msg.IsWarn {
			m.warnings++
		} else {
			m.errors++
		}
		m.lastErr = fmt.Sprintf("%s: %v", msg.File, msg.Err)

	case completeMsg:
		m.complete = true
		m.stats = CompletionStats(msg)
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m *generateModel) View() string {
	if m.quitting {
		return "Cancelled.\n"
	}
	if m.complete {
		return m.renderComplete()
	}

	lines := []string{
		m.styles.Header.Render(m.title),
		m.renderStages(),
		m.renderProgress(),
	}
	if m.lastErr != "" {
		lines = append(lines, m.styles.Warning.Render(fmt.Sprintf("⚠ %d warnings, %d errors: %s", m.warnings, m.errors, m.lastErr)))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m *generateModel) renderStages() string {
	var parts []string
	for _, s := range []Stage{StageLoad, StageIndex, StageRender, StageCopy} {
		switch {
		case s < m.event.Stage:
			parts = append(parts, m.styles.Success.Render("● "+s.String()))
		case s == m.event.Stage:
			parts = append(parts, m.styles.Active.Render(m.spinner.View()+" "+s.String()))
		default:
			parts = append(parts, m.styles.Dim.Render("○ "+s.String()))
		}
	}
	return strings.Join(parts, m.styles.Dim.Render(" → "))
}

func (m *generateModel) renderProgress() string {
	if m.event.Total == 0 {
		return m.styles.Label.Render(m.event.Message)
	}
	pct := float64(m.event.Current) / float64(m.event.Total)
	bar := m.progressBar.ViewAs(pct)
	count := m.styles.Label.Render(fmt.Sprintf("%d / %d %s", m.event.Current, m.event.Total, m.event.File))
	return bar + "  " + m.styles.Active.Render(fmt.Sprintf("%3.0f%%", pct*100)) + "\n" + count
}

func (m *generateModel) renderComplete() string {
	var b strings.Builder
	if m.stats.Cached {
		b.WriteString(m.styles.Success.Render("✓ Unchanged"))
	} else {
		b.WriteString(m.styles.Success.Render("✓ Web page generated"))
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s   %s\n", m.styles.Label.Render("Results:"), m.styles.Active.Render(fmt.Sprint(m.stats.Nodes)))
	fmt.Fprintf(&b, "%s     %s\n", m.styles.Label.Render("Files:"), m.styles.Active.Render(fmt.Sprint(m.stats.Files)))
	fmt.Fprintf(&b, "%s    %s\n", m.styles.Label.Render("Output:"), m.stats.OutputDir)
	fmt.Fprintf(&b, "%s  %s", m.styles.Label.Render("Duration:"), m.stats.Duration.Round(10*time.Millisecond))
	if m.stats.Errors > 0 || m.stats.Warnings > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Warning.Render(fmt.Sprintf("%d errors, %d warnings", m.stats.Errors, m.stats.Warnings)))
	}
	return m.styles.Panel.Width(max(40, m.width-4)).Render(b.String()) + "\n"
}
