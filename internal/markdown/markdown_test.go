package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prettyresults/prettyresults/internal/results"
)

func sampleTree(t *testing.T) *results.Tree {
	t.Helper()
	tree, err := results.Index(results.ResultSet{
		RootResult: "root",
		Results: []results.ResultNode{
			{ID: "root", Type: results.TypeContainer, Children: []results.ID{"root.desc", "root.kv"}},
			{ID: "root.desc", Name: "Descriptives", Type: results.TypeContainer,
				Children: []results.ID{"root.desc.hist"},
				Labels:   []results.Label{{Color: "danger", Text: "check"}}},
			{ID: "root.desc.hist", Name: "Age histogram", Type: results.TypeFigure,
				Data: results.Data{Filename: "root.desc.hist.png"}},
			{ID: "root.kv", Name: "Sample", Type: results.TypeTable, Data: results.Data{
				Headings: []string{"Nombre", "Valor"},
				Rows:     [][]string{{"N", "120"}, {"a|b", "x"}},
				Pre:      "Counts below.",
				Post:     "Source: survey.",
			}},
		},
	})
	require.NoError(t, err)
	return tree
}

func TestRender_WholeTree(t *testing.T) {
	// Given: the sample tree
	tree := sampleTree(t)

	// When: rendering without options
	md, err := Render(tree, Options{})
	require.NoError(t, err)

	// Then: containers nest as headings and leaves carry their content
	want := "# Descriptives **[check]**\n\n" +
		"## Age histogram\n\n" +
		"![Age histogram](results/root.desc.hist.png)\n\n" +
		"# Sample\n\n" +
		"Counts below.\n\n" +
		"| Nombre | Valor |\n" +
		"| --- | --- |\n" +
		"| N | 120 |\n" +
		"| a\\|b | x |\n\n" +
		"Source: survey.\n"
	assert.Equal(t, want, md)
}

func TestRender_TitleShiftsHeadings(t *testing.T) {
	md, err := Render(sampleTree(t), Options{Title: "Survey", ImagePrefix: "img/"})
	require.NoError(t, err)

	assert.Contains(t, md, "# Survey\n\n## Descriptives")
	assert.Contains(t, md, "### Age histogram")
	assert.Contains(t, md, "](img/root.desc.hist.png)")
}

func TestRender_SelectedIDs(t *testing.T) {
	md, err := Render(sampleTree(t), Options{IDs: []results.ID{"root.kv", "root.desc.hist"}})
	require.NoError(t, err)

	assert.NotContains(t, md, "Descriptives")
	assert.Contains(t, md, "# Sample")
	assert.Contains(t, md, "# Age histogram")
}

func TestRender_WritesEachResultOnce(t *testing.T) {
	md, err := Render(sampleTree(t), Options{IDs: []results.ID{"root.desc", "root.desc.hist"}})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(md, "Age histogram]("))
}

func TestRender_UnknownID(t *testing.T) {
	_, err := Render(sampleTree(t), Options{IDs: []results.ID{"root.nope"}})
	assert.ErrorIs(t, err, results.ErrMissingNode)
}

func TestRender_DeepHeadingsCapAtSix(t *testing.T) {
	set := results.ResultSet{RootResult: "r"}
	ids := []results.ID{"r", "a", "b", "c", "d", "e", "f", "g"}
	for i, id := range ids {
		n := results.ResultNode{ID: id, Name: string(id), Type: results.TypeContainer}
		if i+1 < len(ids) {
			n.Children = []results.ID{ids[i+1]}
		}
		set.Results = append(set.Results, n)
	}
	tree, err := results.Index(set)
	require.NoError(t, err)

	md, err := Render(tree, Options{})
	require.NoError(t, err)

	assert.Contains(t, md, "###### f\n")
	assert.Contains(t, md, "###### g\n")
	assert.NotContains(t, md, "#######")
}

func TestEscapeText(t *testing.T) {
	assert.Equal(t, `p\_value \*`, escapeText("p_value *"))
	assert.Equal(t, `a\|b<br>c`, escapeCell("a|b\nc"))
}

func TestTerminal_PlainStyle(t *testing.T) {
	out, err := Terminal("# Title\n\nSome **bold** text.\n", 60, true)
	require.NoError(t, err)

	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
	assert.NotContains(t, out, "\x1b[")
}
