package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns ~/.prettyresults/logs, or a temp dir fallback.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".prettyresults", "logs")
	}
	return filepath.Join(home, ".prettyresults", "logs")
}

// DefaultLogPath returns the debug log file path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "prettyresults.log")
}
