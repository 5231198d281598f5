package web

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserCommand(t *testing.T) {
	tests := []struct {
		goos string
		name string
		args []string
	}{
		{"darwin", "open", []string{"file:///x/index.html"}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", "file:///x/index.html"}},
		{"linux", "xdg-open", []string{"file:///x/index.html"}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args := BrowserCommand(tt.goos, "file:///x/index.html")
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestPageURL(t *testing.T) {
	u, err := PageURL("web")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "file://"))
	assert.True(t, strings.HasSuffix(u, "/web/index.html"))
}

func TestOpenBrowser_RunsCommand(t *testing.T) {
	// Given: a recorded command runner
	var gotName string
	var gotArgs []string
	orig := startCommand
	startCommand = func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}
	defer func() { startCommand = orig }()

	// When: opening a page
	require.NoError(t, OpenBrowser("web"))

	// Then: the platform opener got the page URL
	assert.NotEmpty(t, gotName)
	assert.True(t, strings.HasSuffix(gotArgs[len(gotArgs)-1], "/web/index.html"))
}
