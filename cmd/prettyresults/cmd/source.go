package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prettyresults/prettyresults/internal/config"
	prerrors "github.com/prettyresults/prettyresults/internal/errors"
	"github.com/prettyresults/prettyresults/internal/logging"
	"github.com/prettyresults/prettyresults/internal/manager"
	"github.com/prettyresults/prettyresults/internal/results"
)

// source is a result set loaded from disk.
type source struct {
	Set results.ResultSet
	// Dir holds data.json and the figure files.
	Dir string
	// DataPath is the data.json that was read.
	DataPath string
}

// loadSource reads a result set from a results directory or a data file.
func loadSource(path string) (*source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, notFound(path, err)
	}

	src := &source{Dir: filepath.Dir(path), DataPath: path}
	if info.IsDir() {
		src.Dir = path
		src.DataPath = filepath.Join(path, manager.DataFileName)
	}

	set, err := results.ReadFile(src.DataPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(src.DataPath, err)
		}
		return nil, prerrors.New(prerrors.ErrCodeResultsCorrupt, "failed to read result set", err).
			WithDetail("path", src.DataPath).
			WithSuggestion("Check that the file is valid JSON with results and root_result")
	}
	src.Set = set

	slog.Debug("result set loaded",
		slog.String("path", src.DataPath),
		slog.Int("results", len(set.Results)))
	return src, nil
}

// tree indexes the loaded set.
func (s *source) tree() (*results.Tree, error) {
	tree, err := results.Index(s.Set)
	if err != nil {
		return nil, results.Report(err)
	}
	return tree, nil
}

func notFound(path string, err error) error {
	return prerrors.New(prerrors.ErrCodeFileNotFound, "no result set at "+path, err).
		WithSuggestion("Pass a results directory containing " + manager.DataFileName + " or the file itself")
}

// loadConfig loads configuration for results in dir, honoring --config.
func loadConfig(dir string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load(dir)
	}
	if err != nil {
		return nil, prerrors.ConfigError("failed to load configuration", err).
			WithSuggestion("Run 'prettyresults config path' to locate the user config file")
	}
	if !debugMode && consoleOut != nil {
		slog.SetDefault(logging.NewConsole(consoleOut, cfg.Log.Level))
	}
	return cfg, nil
}
