// Package output writes the status lines printed by prettyresults commands.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Writer provides formatted output for CLI commands.
type Writer struct {
	out      io.Writer
	useColor bool
	key      lipgloss.Style
	path     lipgloss.Style
}

// Option configures a Writer.
type Option func(*Writer)

// WithColor enables lime highlighting of keys and paths.
func WithColor(on bool) Option {
	return func(w *Writer) {
		w.useColor = on
	}
}

// New creates a new output Writer. Color is off unless WithColor is given.
func New(out io.Writer, opts ...Option) *Writer {
	w := &Writer{out: out}
	for _, opt := range opts {
		opt(w)
	}
	if w.useColor {
		w.key = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
		w.path = lipgloss.NewStyle().Foreground(lipgloss.Color("154"))
	}
	return w
}

// Status prints a message with an icon. Write errors are ignored for
// console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message with checkmark.
func (w *Writer) Success(msg string) {
	w.Status("✅", msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", msg)
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status("❌", msg)
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Path prints "label: path", highlighting the path.
func (w *Writer) Path(label, path string) {
	if w.useColor {
		path = w.path.Render(path)
	}
	_, _ = fmt.Fprintf(w.out, "%s: %s\n", label, path)
}

// KeyValue prints aligned key/value pairs in the given order.
// pairs holds alternating keys and values; a trailing key is dropped.
func (w *Writer) KeyValue(pairs ...string) {
	width := 0
	for i := 0; i+1 < len(pairs); i += 2 {
		width = max(width, len(pairs[i]))
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		k := fmt.Sprintf("%-*s", width+1, pairs[i]+":")
		if w.useColor {
			k = w.key.Render(k)
		}
		_, _ = fmt.Fprintf(w.out, "  %s %s\n", k, pairs[i+1])
	}
}

// Code prints a code block with indentation.
func (w *Writer) Code(content string) {
	_, _ = fmt.Fprintln(w.out)
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		_, _ = fmt.Fprintf(w.out, "  %s\n", line)
	}
	_, _ = fmt.Fprintln(w.out)
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}
