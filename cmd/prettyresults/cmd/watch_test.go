package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	prerrors "github.com/prettyresults/prettyresults/internal/errors"
	"github.com/prettyresults/prettyresults/internal/manager"
	"github.com/prettyresults/prettyresults/internal/web"
)

func TestWatchCmd_RegeneratesOnChange(t *testing.T) {
	// Given: a results directory being watched with a short debounce
	isolate(t)
	t.Setenv("PRETTYRESULTS_WATCH_DEBOUNCE", "20ms")
	dir := writeResults(t)
	webDir := filepath.Join(t.TempDir(), "web")
	index := filepath.Join(webDir, web.IndexFile)

	cmd := newWatchCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, cmd, dir, watchOptions{out: webDir})
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat(index)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond, "initial page")

	// When: a new result is added and dumped
	m, err := manager.Open(dir)
	require.NoError(t, err)
	_, err = m.Root().AddContainer("late", "Late addition")
	require.NoError(t, err)

	// Then: the page is regenerated with the new result. Dumping on every
	// tick covers a watch that is not registered yet.
	require.Eventually(t, func() bool {
		page, err := os.ReadFile(index)
		if err == nil && bytes.Contains(page, []byte("Late addition")) {
			return true
		}
		_ = m.Dump()
		return false
	}, 5*time.Second, 100*time.Millisecond, "regenerated page")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.Contains(t, buf.String(), "Stopped watching")
}

func TestWatchCmd_RejectsOutputInsideResults(t *testing.T) {
	isolate(t)
	dir := writeResults(t)

	_, err := execute(t, "watch", dir, "--out", filepath.Join(dir, "web"))

	require.Error(t, err)
	assert.Equal(t, prerrors.ErrCodeInvalidInput, prerrors.GetCode(err))
}

func TestWatchCmd_RejectsOutputContainingResults(t *testing.T) {
	// Given: a results directory and its parent as the output
	isolate(t)
	dir := writeResults(t)

	// When: watching into the parent
	_, err := execute(t, "watch", dir, "--out", filepath.Dir(dir))

	// Then: it refuses before touching anything
	require.Error(t, err)
	assert.Equal(t, prerrors.ErrCodeInvalidInput, prerrors.GetCode(err))
	assert.FileExists(t, filepath.Join(dir, "data.json"))
	assert.FileExists(t, filepath.Join(dir, "root.fits.curve.jpg"))
}

func TestWatchCmd_NeedsDirectory(t *testing.T) {
	isolate(t)
	dir := writeResults(t)

	_, err := execute(t, "watch", filepath.Join(dir, "data.json"), "--out", filepath.Join(t.TempDir(), "web"))

	require.Error(t, err)
	assert.Equal(t, prerrors.ErrCodeFileNotFound, prerrors.GetCode(err))
}
