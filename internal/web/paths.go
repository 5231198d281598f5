package web

import (
	"path/filepath"
	"strings"

	prerrors "github.com/prettyresults/prettyresults/internal/errors"
)

// CheckOutputDir rejects a web directory that equals, contains or lies
// inside the results directory. Generate replaces webDir wholesale, so any
// overlap would delete the results it copies from.
func CheckOutputDir(resultsDir, webDir string) error {
	res, err := resolve(resultsDir)
	if err != nil {
		return prerrors.IOError("failed to resolve results directory", err).WithDetail("path", resultsDir)
	}
	out, err := resolve(webDir)
	if err != nil {
		return prerrors.IOError("failed to resolve web directory", err).WithDetail("path", webDir)
	}

	if within(out, res) || within(res, out) {
		return prerrors.ValidationError("web directory "+webDir+" overlaps results directory "+resultsDir, nil).
			WithDetail("results", res).
			WithDetail("web", out).
			WithSuggestion("Choose an output directory outside the results directory, e.g. a sibling")
	}
	return nil
}

// resolve returns the absolute path with symlinks evaluated as far as the
// path exists.
func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	dir, rest := abs, ""
	for {
		if real, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(real, rest), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
	}
}

// within reports whether path is dir or lies below it. Both are absolute.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
