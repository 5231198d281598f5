package web

import (
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"
)

// startCommand runs a command without waiting for it.
var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// PageURL returns the file:// URL of index.html inside webDir.
func PageURL(webDir string) (string, error) {
	abs, err := filepath.Abs(indexPath(webDir))
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

// BrowserCommand returns the command that opens target on goos.
func BrowserCommand(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

// OpenBrowser opens the generated page in the default browser.
func OpenBrowser(webDir string) error {
	target, err := PageURL(webDir)
	if err != nil {
		return err
	}
	name, args := BrowserCommand(runtime.GOOS, target)
	return startCommand(name, args...)
}
