package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/prettyresults/prettyresults/internal/icons"
	"github.com/prettyresults/prettyresults/internal/results"
)

// BrowserKeys are the key bindings of the interactive browser.
type BrowserKeys struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultBrowserKeys returns vim-ish bindings with arrow key equivalents.
func DefaultBrowserKeys() BrowserKeys {
	return BrowserKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open/close")),
		Expand:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "open")),
		Collapse: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "close")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k BrowserKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k BrowserKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Toggle, k.Expand, k.Collapse},
		{k.Help, k.Quit},
	}
}

// row is one visible line of the browser.
type row struct {
	node  *results.ResultNode
	depth int
}

// Browser is a bubbletea model for navigating a result tree. The root
// starts expanded; every other container starts closed.
type Browser struct {
	tree   *results.Tree
	icons  icons.Set
	styles Styles
	keys   BrowserKeys
	help   help.Model

	open   map[results.ID]bool
	rows   []row
	cursor int
	height int
	offset int
	err    error
}

// NewBrowser creates a browser over tree.
func NewBrowser(tree *results.Tree, set icons.Set, noColor bool) *Browser {
	b := &Browser{
		tree:   tree,
		icons:  set,
		styles: GetStyles(noColor),
		keys:   DefaultBrowserKeys(),
		help:   help.New(),
		open:   map[results.ID]bool{tree.Root.ID: true},
		height: 20,
	}
	b.refresh()
	return b
}

// Run starts the browser on the given terminal streams and blocks until
// the user quits or ctx is cancelled.
func (b *Browser) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(b,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return err
	}
	return b.err
}

// Selected returns the node under the cursor.
func (b *Browser) Selected() *results.ResultNode {
	if len(b.rows) == 0 {
		return nil
	}
	return b.rows[b.cursor].node
}

// IsOpen reports whether a container is expanded.
func (b *Browser) IsOpen(id results.ID) bool {
	return b.open[id]
}

// refresh rebuilds the visible rows from the open set.
func (b *Browser) refresh() {
	b.rows = b.rows[:0]
	err := b.tree.Walk(func(n *results.ResultNode, depth int) error {
		b.rows = append(b.rows, row{node: n, depth: depth})
		if !b.open[n.ID] {
			return results.SkipChildren
		}
		return nil
	})
	if err != nil {
		b.err = err
	}
	if b.cursor >= len(b.rows) {
		b.cursor = len(b.rows) - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
}

// Init implements tea.Model.
func (b *Browser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.height = max(3, msg.Height-4)
		b.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, b.keys.Quit):
			return b, tea.Quit
		case key.Matches(msg, b.keys.Up):
			if b.cursor > 0 {
				b.cursor--
			}
		case key.Matches(msg, b.keys.Down):
			if b.cursor < len(b.rows)-1 {
				b.cursor++
			}
		case key.Matches(msg, b.keys.Toggle):
			if n := b.Selected(); n != nil {
				b.setOpen(!b.open[n.ID])
			}
		case key.Matches(msg, b.keys.Expand):
			b.setOpen(true)
		case key.Matches(msg, b.keys.Collapse):
			b.collapse()
		case key.Matches(msg, b.keys.Help):
			b.help.ShowAll = !b.help.ShowAll
		}
	}

	b.scroll()
	return b, nil
}

func (b *Browser) setOpen(open bool) {
	n := b.Selected()
	if n == nil || n.IsLeaf() {
		return
	}
	b.open[n.ID] = open
	b.refresh()
}

// collapse closes the selected container, or moves to the parent row when
// the selection is a leaf or already closed.
func (b *Browser) collapse() {
	n := b.Selected()
	if n == nil {
		return
	}
	if b.open[n.ID] && n != b.tree.Root {
		b.setOpen(false)
		return
	}
	depth := b.rows[b.cursor].depth
	for i := b.cursor - 1; i >= 0; i-- {
		if b.rows[i].depth < depth {
			b.cursor = i
			return
		}
	}
}

func (b *Browser) scroll() {
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+b.height {
		b.offset = b.cursor - b.height + 1
	}
}

// View implements tea.Model.
func (b *Browser) View() string {
	var sb strings.Builder
	sb.WriteString(b.styles.Header.Render(b.tree.Root.DisplayName()))
	sb.WriteByte('\n')

	end := min(len(b.rows), b.offset+b.height)
	for i := b.offset; i < end; i++ {
		r := b.rows[i]
		line := strings.Repeat("  ", r.depth) + renderNode(b.styles, b.icons, r.node, b.open[r.node.ID], false)
		if i == b.cursor {
			line = b.styles.Selected.Render(">") + " " + line
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	if n := b.Selected(); n != nil {
		sb.WriteString(b.styles.Label.Render(describe(n)))
		sb.WriteByte('\n')
	}
	if b.err != nil {
		sb.WriteString(b.styles.Error.Render(b.err.Error()))
		sb.WriteByte('\n')
	}
	sb.WriteString(b.help.View(b.keys))
	return sb.String()
}

// describe summarises a node for the status line.
func describe(n *results.ResultNode) string {
	switch {
	case n.Type.IsContainer():
		return fmt.Sprintf("%s · %s · %d children", n.ID, n.Type, len(n.Children))
	case n.Data.Filename != "":
		return fmt.Sprintf("%s · %s · %s", n.ID, n.Type, n.Data.Filename)
	case len(n.Data.Headings) > 0 || len(n.Data.Rows) > 0:
		return fmt.Sprintf("%s · %s · %d×%d", n.ID, n.Type, len(n.Data.Rows), len(n.Data.Headings))
	default:
		return fmt.Sprintf("%s · %s", n.ID, n.Type)
	}
}
