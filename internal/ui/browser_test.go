package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prettyresults/prettyresults/internal/icons"
)

func press(b *Browser, msg tea.KeyMsg) tea.Cmd {
	_, cmd := b.Update(msg)
	return cmd
}

func TestBrowser_StartsWithRootOpen(t *testing.T) {
	b := NewBrowser(sampleTree(t), icons.Default(), true)

	assert.True(t, b.IsOpen("root"))
	assert.False(t, b.IsOpen("a"))
	assert.Len(t, b.rows, 3)
	assert.Equal(t, "root", string(b.Selected().ID))
}

func TestBrowser_ToggleAndNavigate(t *testing.T) {
	// Given: a browser on the sample tree
	b := NewBrowser(sampleTree(t), icons.Default(), true)

	// When: moving to "Group A" and opening it
	press(b, tea.KeyMsg{Type: tea.KeyDown})
	press(b, tea.KeyMsg{Type: tea.KeyEnter})

	// Then: its child becomes visible with the open icon shown
	assert.True(t, b.IsOpen("a"))
	assert.Len(t, b.rows, 4)
	assert.Contains(t, b.View(), "▾ Group A")
	assert.Contains(t, b.View(), "Plot")

	// When: moving onto the leaf and collapsing
	press(b, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "a.fig", string(b.Selected().ID))
	press(b, tea.KeyMsg{Type: tea.KeyLeft})

	// Then: the cursor returns to the parent
	assert.Equal(t, "a", string(b.Selected().ID))

	// When: collapsing again
	press(b, tea.KeyMsg{Type: tea.KeyLeft})

	// Then: the container closes and shows its closed icon
	assert.False(t, b.IsOpen("a"))
	assert.Len(t, b.rows, 3)
	assert.Contains(t, b.View(), "▸ Group A (1)")
}

func TestBrowser_ToggleLeafIsNoop(t *testing.T) {
	b := NewBrowser(sampleTree(t), icons.Default(), true)
	press(b, tea.KeyMsg{Type: tea.KeyDown})
	press(b, tea.KeyMsg{Type: tea.KeyDown})

	press(b, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	assert.Equal(t, "t", string(b.Selected().ID))
	assert.Len(t, b.rows, 3)
}

func TestBrowser_CursorStaysInBounds(t *testing.T) {
	b := NewBrowser(sampleTree(t), icons.Default(), true)

	press(b, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, b.cursor)

	for i := 0; i < 10; i++ {
		press(b, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 2, b.cursor)
	assert.Contains(t, b.View(), "Summary")
}

func TestBrowser_Quit(t *testing.T) {
	b := NewBrowser(sampleTree(t), icons.Default(), true)

	cmd := press(b, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestDescribe(t *testing.T) {
	tree := sampleTree(t)
	assert.Equal(t, "a · ContainerResult · 1 children", describe(tree.Lookup["a"]))
	assert.Equal(t, "a.fig · FigureResult · a.fig.png", describe(tree.Lookup["a.fig"]))
	assert.Equal(t, "t · TableResult · 1×2", describe(tree.Lookup["t"]))
}
