package ui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prettyresults/prettyresults/internal/results"
)

// sampleTree returns:
//
//	root (container "Analysis")
//	├── a (container "Group A")
//	│   └── a.fig (figure "Plot")
//	└── t (table "Summary", labelled)
func sampleTree(t *testing.T) *results.Tree {
	t.Helper()
	set := results.ResultSet{
		RootResult: "root",
		Results: []results.ResultNode{
			{ID: "root", Name: "Analysis", Type: results.TypeContainer, Children: []results.ID{"a", "t"}},
			{ID: "a", Name: "Group A", Type: results.TypeContainer, Children: []results.ID{"a.fig"}},
			{ID: "a.fig", Name: "Plot", Type: results.TypeFigure, Data: results.Data{Filename: "a.fig.png"}},
			{ID: "t", Name: "Summary", Type: results.TypeTable,
				Labels: []results.Label{{Color: "danger", Text: "p<0.05"}},
				Data:   results.Data{Headings: []string{"Nombre", "Valor"}, Rows: [][]string{{"n", "10"}}}},
		},
	}
	tree, err := results.Index(set)
	require.NoError(t, err)
	return tree
}
