// Package cmd provides the CLI commands for jmhgate.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/jmhgate/internal/config"
	gerrors "github.com/Aman-CERP/jmhgate/internal/errors"
	"github.com/Aman-CERP/jmhgate/internal/logging"
	"github.com/Aman-CERP/jmhgate/internal/ui"
	"github.com/Aman-CERP/jmhgate/pkg/version"
)

// app holds the persistent flags shared by every command.
type app struct {
	configPath string
	debug      bool
	logLevel   string
	logFile    string
	noColor    bool

	loggingCleanup func()
}

// NewRootCmd creates the root command for jmhgate CLI.
func NewRootCmd() *cobra.Command {
	a := &app{}
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "jmhgate <base-file> <pr-file>",
		Short: "Fail CI when a JMH benchmark regresses",
		Long: `jmhgate compares the JMH results of a base run and a pull-request run
for one benchmark and fails when PR throughput drops below the threshold.

Throughput is score (ops/s) times the nodes-per-call secondary metric
(nodes/s). Result files may be JMH CSV (-rf csv), JSON (-rf json) or the
human-readable summary printed at the end of a run.`,
		Example: `  # Gate a pull request at 98% of base throughput
  jmhgate base.csv pr.csv

  # Compare raw ops/s for a different benchmark
  jmhgate -b QueenAttackBench.attacks --metric score base.json pr.json

  # Report the change without failing
  jmhgate --mode report base.txt pr.txt`,
		Version:       version.Short(),
		Args:          twoFiles,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, a, opts, args[0], args[1])
		},
	}

	cmd.SetVersionTemplate("jmhgate version {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return gerrors.UsageError(err.Error())
	})

	opts.bind(cmd)

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default .jmhgate.yaml in the working directory)")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Write logs to file instead of stderr")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return a.startLogging(cmd, config.NewConfig().Logging)
	}
	cmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		a.stopLogging()
		return nil
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newHistoryCmd(a))
	cmd.AddCommand(newWatchCmd(a))

	return cmd
}

// twoFiles validates the <base-file> <pr-file> positional arguments.
// It runs before any config or result file is touched.
func twoFiles(_ *cobra.Command, args []string) error {
	if len(args) != 2 {
		return gerrors.UsageError(fmt.Sprintf("expected 2 arguments <base-file> <pr-file>, got %d", len(args))).
			WithSuggestion("Run 'jmhgate --help' for usage")
	}
	return nil
}

// startLogging installs the default slog logger. Flags override lc.
func (a *app) startLogging(cmd *cobra.Command, lc config.LoggingConfig) error {
	a.stopLogging()

	cfg := logging.DefaultConfig()
	cfg.Stderr = cmd.ErrOrStderr()
	if lc.Level != "" {
		cfg.Level = lc.Level
	}
	if lc.Format != "" {
		cfg.Format = lc.Format
	}
	cfg.FilePath = lc.File

	if a.logLevel != "" {
		cfg.Level = a.logLevel
	}
	if a.debug {
		cfg.Level = logging.DebugConfig().Level
	}
	if a.logFile != "" {
		cfg.FilePath = a.logFile
	}

	logger, cleanup, err := logging.Setup(cfg)
	if err != nil {
		return gerrors.New(gerrors.ErrCodeFileWrite, "failed to setup logging", err)
	}
	a.loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Debug("logging configured",
		slog.String("level", cfg.Level),
		slog.String("file", cfg.FilePath),
		slog.String("version", version.Short()))
	return nil
}

func (a *app) stopLogging() {
	if a.loggingCleanup != nil {
		a.loggingCleanup()
		a.loggingCleanup = nil
	}
}

// loadConfig resolves the effective configuration for the working directory
// and re-applies its logging section.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, gerrors.New(gerrors.ErrCodeInternal, "failed to get working directory", err)
	}
	if a.configPath != "" {
		if _, err := os.Stat(a.configPath); err != nil {
			return nil, gerrors.New(gerrors.ErrCodeConfigNotFound,
				fmt.Sprintf("config file not found: %s", a.configPath), err).
				WithDetail("file", a.configPath).
				WithSuggestion("Create one with 'jmhgate config init'")
		}
	}
	cfg, err := config.Load(dir, a.configPath)
	if err != nil {
		return nil, gerrors.ConfigError(err.Error(), err).
			WithSuggestion("Check the config file or JMHGATE_* environment variables")
	}
	if err := a.startLogging(cmd, cfg.Logging); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) styles(w io.Writer) ui.Styles {
	return ui.StylesFor(w, a.noColor)
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	root := NewRootCmd()
	failed, err := root.ExecuteC()
	reportError(root.ErrOrStderr(), failed, err)
	return err
}

// reportError prints err for the user. A regression has already been
// reported on stdout, so nothing is printed for it. Commands run with
// --json get the error as JSON.
func reportError(w io.Writer, cmd *cobra.Command, err error) {
	if err == nil || gerrors.IsRegression(err) {
		return
	}
	slog.Debug("command failed", gerrors.LogAttrs(err)...)

	if cmd != nil {
		if f := cmd.Flags().Lookup("json"); f != nil && f.Value.String() == "true" {
			if data, jerr := gerrors.FormatJSON(err); jerr == nil {
				_, _ = fmt.Fprintln(w, string(data))
				return
			}
		}
	}

	_, _ = fmt.Fprint(w, gerrors.FormatForCLI(err))
	if gerrors.IsUsage(err) && cmd != nil {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprint(w, cmd.UsageString())
	}
}
