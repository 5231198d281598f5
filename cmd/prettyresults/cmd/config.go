package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/prettyresults/prettyresults/configs"
	"github.com/prettyresults/prettyresults/internal/config"
	prerrors "github.com/prettyresults/prettyresults/internal/errors"
	"github.com/prettyresults/prettyresults/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage prettyresults configuration.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/prettyresults/config.yaml)
  3. Project config (.prettyresults.yaml next to the results)
  4. Environment variables (PRETTYRESULTS_*)`,
		Example: `  # Create user config from template
  prettyresults config init

  # Create a project config in ./results
  prettyresults config init --project results

  # Show effective configuration for ./results
  prettyresults config show --dir results`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force   bool
		project string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file from the template",
		Long: `Create the user configuration file, or with --project a
.prettyresults.yaml in the given directory, from the built-in template.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.GetUserConfigPath()
			if project != "" {
				path = filepath.Join(project, config.ProjectConfigNames[0])
			}
			return runConfigInit(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.Flags().StringVar(&project, "project", "", "Create a project config in this directory")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var (
		jsonOutput bool
		source     string
		dir        string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the configuration after merging all sources, or a single source
with --source user|project|defaults.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, dir, source, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&source, "source", "merged", "Config source: merged, user, project, defaults")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to look for a project config in")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print user config file path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			return err
		},
	}
}

func runConfigInit(cmd *cobra.Command, path string, force bool) error {
	out := output.New(cmd.OutOrStdout(), output.WithColor(!colorDisabled()))

	if _, err := os.Stat(path); err == nil && !force {
		out.Warning("Configuration already exists")
		out.Path("Location", path)
		out.Status("💡", "Use --force to replace it with the template")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return prerrors.New(prerrors.ErrCodeFilePermission, "failed to create config directory", err).
			WithDetail("path", filepath.Dir(path))
	}
	if err := os.WriteFile(path, []byte(configs.ConfigTemplate), 0o644); err != nil {
		return prerrors.New(prerrors.ErrCodeFilePermission, "failed to write config file", err).
			WithDetail("path", path)
	}

	out.Success("Created configuration")
	out.Path("Location", path)
	out.Status("📋", "Edit the file, then run 'prettyresults config show' to verify")
	return nil
}

func runConfigShow(cmd *cobra.Command, dir, source string, jsonOutput bool) error {
	out := output.New(cmd.OutOrStdout(), output.WithColor(!colorDisabled()))

	var (
		cfg        *config.Config
		sourceDesc string
		err        error
	)

	switch source {
	case "merged":
		cfg, err = loadConfig(dir)
		if err != nil {
			return err
		}
		sourceDesc = "merged (defaults + user + project + env)"

	case "user":
		path := config.GetUserConfigPath()
		if !config.UserConfigExists() {
			out.Warning("No user configuration file found")
			out.Path("Expected at", path)
			out.Status("💡", "Run 'prettyresults config init' to create one")
			return nil
		}
		if cfg, err = readConfigFile(path); err != nil {
			return err
		}
		sourceDesc = fmt.Sprintf("user (%s)", path)

	case "project":
		path := configPath
		if path == "" {
			path = config.ProjectConfigPath(dir)
		}
		if path == "" {
			out.Warning("No project configuration file found")
			out.Path("Expected at", filepath.Join(dir, config.ProjectConfigNames[0]))
			out.Status("💡", "Run 'prettyresults config init --project "+dir+"' to create one")
			return nil
		}
		if cfg, err = readConfigFile(path); err != nil {
			return err
		}
		sourceDesc = fmt.Sprintf("project (%s)", path)

	case "defaults":
		cfg = config.NewConfig()
		sourceDesc = "defaults (hardcoded)"

	default:
		return prerrors.ValidationError(fmt.Sprintf("invalid source: %s (use: merged, user, project, defaults)", source), nil)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	out.Statusf("📋", "Configuration source: %s", sourceDesc)
	out.Newline()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
	return err
}

// readConfigFile reads one config file on top of the defaults.
func readConfigFile(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, prerrors.IOError("failed to read config file", err).WithDetail("path", path)
	}
	cfg := config.NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, prerrors.ConfigError("failed to parse config file "+path, err)
	}
	return cfg, nil
}
