package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prettyresults/prettyresults/internal/manager"
	"github.com/prettyresults/prettyresults/internal/results"
)

// isolate keeps tests away from the real user config and terminal colors.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	for _, v := range []string{
		"PRETTYRESULTS_WEB_TITLE",
		"PRETTYRESULTS_COPY_WORKERS",
		"PRETTYRESULTS_OPEN_BROWSER",
		"PRETTYRESULTS_TREE_MAX_DEPTH",
		"PRETTYRESULTS_WATCH_DEBOUNCE",
		"PRETTYRESULTS_LOG_LEVEL",
	} {
		t.Setenv(v, "")
	}
}

// writeResults builds a results directory:
//
//	root
//	├── fits  (Model fits)
//	│   └── fits.curve  (Fitted curve, figure)
//	└── summary  (Summary, key-value table)
func writeResults(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "results")

	m, err := manager.Open(dir)
	require.NoError(t, err)
	fits, err := m.Root().AddContainer("fits", "Model fits",
		manager.WithLabels(results.Label{Color: "success", Text: "converged"}))
	require.NoError(t, err)
	_, err = fits.AddFigure("curve", "Fitted curve", []byte("jpeg bytes"))
	require.NoError(t, err)
	_, err = m.Root().AddKeyValueTable("summary", "Summary",
		[][]string{{"n", "120"}, {"r2", "0.93"}},
		manager.WithPre("Overall fit"))
	require.NoError(t, err)
	require.NoError(t, m.Dump())
	require.NoError(t, m.Close())

	return dir
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}
