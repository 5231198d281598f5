// Package cmd provides the CLI commands for prettyresults.
package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/prettyresults/prettyresults/internal/logging"
	"github.com/prettyresults/prettyresults/internal/profiling"
	"github.com/prettyresults/prettyresults/internal/ui"
	"github.com/prettyresults/prettyresults/pkg/version"
)

// Global flags
var (
	debugMode  bool
	noColor    bool
	configPath string
	profile    profiling.Options
)

var (
	loggingCleanup func()
	profiler       *profiling.Session
	// consoleOut receives console logs when --debug is off.
	consoleOut io.Writer
)

// NewRootCmd creates the root command for the prettyresults CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prettyresults",
		Short: "Browse and publish hierarchical analysis results",
		Long: `prettyresults turns a results directory (data.json plus figure files)
into a browsable static web page, a terminal tree, or a markdown document.

A result set is a tree of containers, figures and tables rooted at
root_result. Commands accept either a results directory or a data.json file.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("prettyresults version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.prettyresults/logs/")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Project config file (default: .prettyresults.yaml next to the results)")

	cmd.PersistentFlags().StringVar(&profile.CPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profile.Heap, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&profile.Trace, "profile-trace", "", "Write execution trace to file")
	_ = cmd.PersistentFlags().MarkHidden("profile-trace")

	cmd.PersistentPreRunE = startProfilingAndLogging
	cmd.PersistentPostRunE = stopProfilingAndLogging

	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newTreeCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startProfilingAndLogging installs the process logger and starts any
// requested profiles.
func startProfilingAndLogging(cmd *cobra.Command, _ []string) error {
	if debugMode {
		logger, cleanup, err := logging.Setup(logging.DebugConfig())
		if err != nil {
			return fmt.Errorf("failed to setup debug logging: %w", err)
		}
		loggingCleanup = cleanup
		slog.SetDefault(logger)
		slog.Debug("debug logging enabled",
			slog.String("log_file", logging.DefaultLogPath()),
			slog.String("version", version.Version),
			slog.String("command", cmd.CommandPath()))
	} else {
		consoleOut = cmd.ErrOrStderr()
		slog.SetDefault(logging.NewConsole(consoleOut, "warn"))
	}

	if profile.Enabled() {
		s, err := profiling.Start(profile)
		if err != nil {
			return err
		}
		profiler = s
	}

	return nil
}

// stopProfilingAndLogging flushes profiles and closes the log file.
func stopProfilingAndLogging(_ *cobra.Command, _ []string) error {
	var err error
	if profiler != nil {
		err = profiler.Stop()
		profiler = nil
	}

	if loggingCleanup != nil {
		slog.Debug("debug logging stopped")
		loggingCleanup()
		loggingCleanup = nil
	}

	return err
}

// colorDisabled reports whether styling is off for this invocation.
func colorDisabled() bool {
	return noColor || ui.DetectNoColor()
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
