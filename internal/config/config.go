// Package config loads prettyresults configuration from defaults, the user
// config file, the project config file and PRETTYRESULTS_* environment
// variables, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/prettyresults/prettyresults/internal/icons"
	"github.com/prettyresults/prettyresults/internal/results"
)

// ProjectConfigNames are the project config file names, in lookup order.
var ProjectConfigNames = []string{".prettyresults.yaml", ".prettyresults.yml"}

// Config represents the complete prettyresults configuration.
type Config struct {
	Version int         `yaml:"version" json:"version"`
	Web     WebConfig   `yaml:"web" json:"web"`
	Icons   IconsConfig `yaml:"icons" json:"icons"`
	Tree    TreeConfig  `yaml:"tree" json:"tree"`
	Watch   WatchConfig `yaml:"watch" json:"watch"`
	Log     LogConfig   `yaml:"log" json:"log"`
}

// WebConfig configures static web page generation.
type WebConfig struct {
	// Title is the page title.
	Title string `yaml:"title" json:"title"`
	// CopyWorkers bounds concurrent result file copies.
	CopyWorkers int `yaml:"copy_workers" json:"copy_workers"`
	// CacheSize is the number of rendered pages kept by the render cache.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
	// OpenBrowser opens the generated page after rendering.
	OpenBrowser bool `yaml:"open_browser" json:"open_browser"`
}

// IconsConfig overrides the built-in result type icons.
type IconsConfig struct {
	// Types maps a result type (e.g. ContainerResult) to its icons.
	// Empty fields keep the built-in icon.
	Types map[string]icons.Pair `yaml:"types" json:"types,omitempty"`
	// Fallback is used for types with no entry. Unset means no icon.
	Fallback *icons.Pair `yaml:"fallback" json:"fallback,omitempty"`
}

// TreeConfig configures terminal tree output.
type TreeConfig struct {
	// MaxDepth limits printed depth. 0 means unlimited.
	MaxDepth int `yaml:"max_depth" json:"max_depth"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	// Debounce is how long to wait for writes to settle, e.g. "300ms".
	Debounce string `yaml:"debounce" json:"debounce"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// NewConfig creates a new Config with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Web: WebConfig{
			Title:       "Analysis results",
			CopyWorkers: runtime.NumCPU(),
			CacheSize:   16,
			OpenBrowser: false,
		},
		Tree: TreeConfig{
			MaxDepth: 0,
		},
		Watch: WatchConfig{
			Debounce: "300ms",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file:
// $XDG_CONFIG_HOME/prettyresults/config.yaml, or
// ~/.config/prettyresults/config.yaml.
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "prettyresults", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "prettyresults", "config.yaml")
	}
	return filepath.Join(home, ".config", "prettyresults", "config.yaml")
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// LoadUserConfig loads the user configuration file.
// Returns nil config and nil error if the file doesn't exist.
func LoadUserConfig() (*Config, error) {
	configPath := GetUserConfigPath()
	if !fileExists(configPath) {
		return nil, nil
	}

	cfg := NewConfig()
	if err := cfg.loadYAML(configPath); err != nil {
		return nil, fmt.Errorf("failed to load user config from %s: %w", configPath, err)
	}
	return cfg, nil
}

// Load loads configuration for the project in dir.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config (~/.config/prettyresults/config.yaml)
//  3. Project config (.prettyresults.yaml in dir)
//  4. Environment variables (PRETTYRESULTS_*)
func Load(dir string) (*Config, error) {
	return load(func(cfg *Config) error { return cfg.loadFromDir(dir) })
}

// LoadFile is like Load but reads the project config from an explicit path.
func LoadFile(path string) (*Config, error) {
	return load(func(cfg *Config) error { return cfg.loadYAML(path) })
}

func load(project func(*Config) error) (*Config, error) {
	cfg := NewConfig()

	if userCfg, err := LoadUserConfig(); err != nil {
		return nil, err
	} else if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	if err := project(cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ProjectConfigPath returns the project config file in dir, or "" if none.
func ProjectConfigPath(dir string) string {
	for _, name := range ProjectConfigNames {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func (c *Config) loadFromDir(dir string) error {
	if p := ProjectConfigPath(dir); p != "" {
		return c.loadYAML(p)
	}
	return nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Web.Title != "" {
		c.Web.Title = other.Web.Title
	}
	if other.Web.CopyWorkers != 0 {
		c.Web.CopyWorkers = other.Web.CopyWorkers
	}
	if other.Web.CacheSize != 0 {
		c.Web.CacheSize = other.Web.CacheSize
	}
	if other.Web.OpenBrowser {
		c.Web.OpenBrowser = true
	}

	if len(other.Icons.Types) > 0 {
		if c.Icons.Types == nil {
			c.Icons.Types = make(map[string]icons.Pair, len(other.Icons.Types))
		}
		for t, p := range other.Icons.Types {
			c.Icons.Types[t] = p
		}
	}
	if other.Icons.Fallback != nil {
		fb := *other.Icons.Fallback
		c.Icons.Fallback = &fb
	}

	if other.Tree.MaxDepth != 0 {
		c.Tree.MaxDepth = other.Tree.MaxDepth
	}

	if other.Watch.Debounce != "" {
		c.Watch.Debounce = other.Watch.Debounce
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}

// applyEnvOverrides applies PRETTYRESULTS_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PRETTYRESULTS_WEB_TITLE"); v != "" {
		c.Web.Title = v
	}
	if v := os.Getenv("PRETTYRESULTS_COPY_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Web.CopyWorkers = n
		}
	}
	if v := os.Getenv("PRETTYRESULTS_OPEN_BROWSER"); v != "" {
		c.Web.OpenBrowser = strings.ToLower(v) == "true" || v == "1"
	}
	if v := os.Getenv("PRETTYRESULTS_TREE_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Tree.MaxDepth = n
		}
	}
	if v := os.Getenv("PRETTYRESULTS_WATCH_DEBOUNCE"); v != "" {
		c.Watch.Debounce = v
	}
	if v := os.Getenv("PRETTYRESULTS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Web.CopyWorkers < 1 {
		return fmt.Errorf("web.copy_workers must be at least 1, got %d", c.Web.CopyWorkers)
	}
	if c.Web.CacheSize < 1 {
		return fmt.Errorf("web.cache_size must be at least 1, got %d", c.Web.CacheSize)
	}
	if c.Tree.MaxDepth < 0 {
		return fmt.Errorf("tree.max_depth must be non-negative, got %d", c.Tree.MaxDepth)
	}
	if _, err := c.DebounceDuration(); err != nil {
		return err
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("log.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Log.Level)
	}

	for t, p := range c.Icons.Types {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("icons.types has an empty result type")
		}
		if p.Open == "" && p.Closed == "" {
			return fmt.Errorf("icons.types.%s must set open or closed", t)
		}
	}

	return nil
}

// DebounceDuration parses Watch.Debounce.
func (c *Config) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, fmt.Errorf("watch.debounce: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("watch.debounce must be non-negative, got %s", c.Watch.Debounce)
	}
	return d, nil
}

// IconSet builds the icon table: the built-in icons with the configured
// overrides and fallback applied.
func (c *Config) IconSet() icons.Set {
	base := icons.Default()
	if c.Icons.Fallback != nil {
		base = icons.New(entriesOf(base), icons.WithFallback(*c.Icons.Fallback))
	}
	if len(c.Icons.Types) == 0 {
		return base
	}

	overrides := make(map[results.Type]icons.Pair, len(c.Icons.Types))
	for t, p := range c.Icons.Types {
		overrides[results.Type(t)] = p
	}
	return base.With(overrides)
}

func entriesOf(s icons.Set) map[results.Type]icons.Pair {
	out := make(map[results.Type]icons.Pair)
	for _, t := range s.Types() {
		out[t] = icons.Pair{Open: s.Open(t), Closed: s.Closed(t)}
	}
	return out
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
