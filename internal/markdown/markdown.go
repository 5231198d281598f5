// Package markdown exports result trees as GitHub-flavored markdown and
// renders markdown for the terminal.
package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/prettyresults/prettyresults/internal/results"
)

// DefaultImagePrefix is where figures live relative to the document,
// matching the layout of a generated web directory.
const DefaultImagePrefix = "results/"

// Options controls Render.
type Options struct {
	// IDs restricts the document to these subtrees, in this order.
	// Empty means the root's children.
	IDs []results.ID

	// Title adds a top-level heading; result headings move one level down.
	Title string

	// ImagePrefix is prepended to figure file names.
	ImagePrefix string
}

// Render writes the selected results as markdown. Containers become
// headings with their children one level deeper; figures become image
// links; tables become pipe tables framed by their pre and post text.
// A result reachable twice is written once.
func Render(tree *results.Tree, opts Options) (string, error) {
	if opts.ImagePrefix == "" {
		opts.ImagePrefix = DefaultImagePrefix
	}

	w := &writer{tree: tree, opts: opts, written: make(map[results.ID]bool)}
	level := 1
	if opts.Title != "" {
		w.heading(1, opts.Title, nil)
		level = 2
	}

	starts := tree.RootChildren
	if len(opts.IDs) > 0 {
		starts = make([]*results.ResultNode, 0, len(opts.IDs))
		for _, id := range opts.IDs {
			n, ok := tree.Get(id)
			if !ok {
				return "", &results.MissingNodeError{ID: id}
			}
			starts = append(starts, n)
		}
	}

	for _, n := range starts {
		if err := w.result(n, level); err != nil {
			return "", err
		}
	}
	return strings.TrimRight(w.b.String(), "\n") + "\n", nil
}

type writer struct {
	tree    *results.Tree
	opts    Options
	b       strings.Builder
	written map[results.ID]bool
}

func (w *writer) result(n *results.ResultNode, level int) error {
	if w.written[n.ID] {
		return nil
	}
	w.written[n.ID] = true

	w.heading(level, n.DisplayName(), n.Labels)

	switch {
	case n.Type.IsContainer():
		children, err := w.tree.Children(n)
		if err != nil {
			return err
		}
		for _, c := range children {
			if err := w.result(c, level+1); err != nil {
				return err
			}
		}
	case n.Data.Filename != "":
		fmt.Fprintf(&w.b, "![%s](%s%s)\n\n", escapeText(n.DisplayName()), w.opts.ImagePrefix, n.Data.Filename)
	case len(n.Data.Headings) > 0 || len(n.Data.Rows) > 0:
		w.table(n.Data)
	}
	return nil
}

func (w *writer) heading(level int, text string, labels []results.Label) {
	w.b.WriteString(strings.Repeat("#", min(level, 6)))
	w.b.WriteByte(' ')
	w.b.WriteString(escapeText(text))
	for _, l := range labels {
		fmt.Fprintf(&w.b, " **[%s]**", escapeText(l.Text))
	}
	w.b.WriteString("\n\n")
}

func (w *writer) table(d results.Data) {
	if d.Pre != "" {
		w.b.WriteString(d.Pre)
		w.b.WriteString("\n\n")
	}

	cols := len(d.Headings)
	for _, r := range d.Rows {
		cols = max(cols, len(r))
	}
	if cols > 0 {
		w.row(d.Headings, cols)
		w.b.WriteString("|" + strings.Repeat(" --- |", cols) + "\n")
		for _, r := range d.Rows {
			w.row(r, cols)
		}
		w.b.WriteString("\n")
	}

	if d.Post != "" {
		w.b.WriteString(d.Post)
		w.b.WriteString("\n\n")
	}
}

// row writes one pipe table row padded to cols cells.
func (w *writer) row(cells []string, cols int) {
	w.b.WriteString("|")
	for i := 0; i < cols; i++ {
		cell := ""
		if i < len(cells) {
			cell = escapeCell(cells[i])
		}
		w.b.WriteString(" " + cell + " |")
	}
	w.b.WriteString("\n")
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	"`", "\\`",
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}

// Terminal renders md for a terminal of the given width. With noColor the
// output carries no ANSI styling.
func Terminal(md string, width int, noColor bool) (string, error) {
	style := glamour.WithAutoStyle()
	if noColor {
		style = glamour.WithStandardStyle("notty")
	}
	opts := []glamour.TermRendererOption{style}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
