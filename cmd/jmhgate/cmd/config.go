package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/jmhgate/configs"
	"github.com/Aman-CERP/jmhgate/internal/config"
	gerrors "github.com/Aman-CERP/jmhgate/internal/errors"
	"github.com/Aman-CERP/jmhgate/internal/output"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage jmhgate configuration files.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/jmhgate/config.yaml)
  3. Project config (.jmhgate.yaml, or --config)
  4. Environment variables (JMHGATE_*)
  5. Command-line flags`,
		Example: `  # Create a project config from the template
  jmhgate config init

  # Show effective configuration (merged from all sources)
  jmhgate config show

  # Print user config file path
  jmhgate config path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force bool
		user  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file from the template",
		Long: `Create .jmhgate.yaml in the working directory from the built-in template.

With --user the file is created at ~/.config/jmhgate/config.yaml
(or $XDG_CONFIG_HOME/jmhgate/config.yaml if XDG_CONFIG_HOME is set).`,
		Example: `  # Create project config
  jmhgate config init

  # Create user config, overwriting an existing one
  jmhgate config init --user --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := ".jmhgate.yaml"
			if user {
				path = config.GetUserConfigPath()
			}
			return runConfigInit(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&user, "user", false, "Create the user config instead of the project config")

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long:  `Show the effective configuration after merging defaults, files and environment.`,
		Example: `  # Show merged configuration
  jmhgate config show

  # Show as JSON
  jmhgate config show --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			return writeConfig(cmd, cfg, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print user config file path",
		Long:  `Print the path to the user configuration file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			return err
		},
	}
}

func runConfigInit(cmd *cobra.Command, path string, force bool) error {
	out := output.New(cmd.OutOrStdout())

	if _, err := os.Stat(path); err == nil && !force {
		out.Warning("Configuration already exists")
		out.Statusf("📁", "Location: %s", path)
		out.Status("💡", "Use --force to overwrite it with the template")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return gerrors.New(gerrors.ErrCodeFileWrite, "failed to create config directory", err).
			WithDetail("path", filepath.Dir(path))
	}
	if err := os.WriteFile(path, []byte(configs.ConfigTemplate), 0644); err != nil {
		return gerrors.New(gerrors.ErrCodeFileWrite, "failed to write config file", err).
			WithDetail("path", path)
	}

	out.Success("Created configuration")
	out.Statusf("📁", "Location: %s", path)
	out.Status("📋", "Run 'jmhgate config show' to verify")

	return nil
}

func writeConfig(cmd *cobra.Command, cfg *config.Config, jsonOutput bool) error {
	if jsonOutput {
		data, err := cfg.JSON()
		if err != nil {
			return gerrors.Wrap(gerrors.ErrCodeInternal, err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return gerrors.Wrap(gerrors.ErrCodeInternal, err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
