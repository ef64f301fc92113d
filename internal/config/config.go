// Package config loads jmhgate configuration from defaults, YAML files and
// JMHGATE_* environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/jmhgate/internal/compare"
	"github.com/Aman-CERP/jmhgate/internal/gate"
	"github.com/Aman-CERP/jmhgate/internal/jmh"
)

// Config represents the complete jmhgate configuration.
type Config struct {
	// Benchmark is the benchmark id, or a dot-separated tail of it.
	Benchmark string `yaml:"benchmark" json:"benchmark"`
	// NodesSuffix marks the nodes-per-call row (default ":nodes").
	NodesSuffix string `yaml:"nodes_suffix" json:"nodes_suffix"`
	// Metric is "nodes" (score * nodes-per-call) or "score".
	Metric string `yaml:"metric" json:"metric"`
	// Threshold is the minimum PR/base ratio that passes.
	Threshold float64 `yaml:"threshold" json:"threshold"`
	// Mode is "gate" or "report".
	Mode string `yaml:"mode" json:"mode"`
	// Format is "auto", "csv", "text" or "json".
	Format string `yaml:"format" json:"format"`

	History HistoryConfig `yaml:"history" json:"history"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// HistoryConfig configures the comparison history database.
type HistoryConfig struct {
	// Path is the SQLite file. Empty disables recording.
	Path string `yaml:"path" json:"path"`
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// Project config file names, in lookup order.
var projectFiles = []string{".jmhgate.yaml", ".jmhgate.yml"}

// NewConfig returns the built-in defaults.
func NewConfig() *Config {
	return &Config{
		Benchmark:   "HQBenchmark.perftNodes",
		NodesSuffix: jmh.DefaultNodesSuffix,
		Metric:      string(compare.MetricNodes),
		Threshold:   gate.DefaultThreshold,
		Mode:        string(gate.ModeGate),
		Format:      string(jmh.FormatAuto),
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "json",
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file:
//   - $XDG_CONFIG_HOME/jmhgate/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/jmhgate/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "jmhgate", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "jmhgate", "config.yaml")
	}
	return filepath.Join(home, ".config", "jmhgate", "config.yaml")
}

// ProjectConfigPath returns the project config file in dir, or "" if none exists.
func ProjectConfigPath(dir string) string {
	for _, name := range projectFiles {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// Load loads configuration for the working directory dir.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config ($XDG_CONFIG_HOME/jmhgate/config.yaml)
//  3. Project config: explicitPath if set, else .jmhgate.yaml in dir
//  4. Environment variables (JMHGATE_*)
//
// Flags are applied by the caller, which then calls Validate.
func Load(dir, explicitPath string) (*Config, error) {
	cfg := NewConfig()

	if userPath := GetUserConfigPath(); fileExists(userPath) {
		if err := cfg.loadYAML(userPath); err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
	}

	projectPath := explicitPath
	if projectPath == "" {
		projectPath = ProjectConfigPath(dir)
	} else if !fileExists(projectPath) {
		return nil, fmt.Errorf("config file not found: %s", projectPath)
	}
	if projectPath != "" {
		if err := cfg.loadYAML(projectPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
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
	if other.Benchmark != "" {
		c.Benchmark = other.Benchmark
	}
	if other.NodesSuffix != "" {
		c.NodesSuffix = other.NodesSuffix
	}
	if other.Metric != "" {
		c.Metric = other.Metric
	}
	if other.Threshold != 0 {
		c.Threshold = other.Threshold
	}
	if other.Mode != "" {
		c.Mode = other.Mode
	}
	if other.Format != "" {
		c.Format = other.Format
	}
	if other.History.Path != "" {
		c.History.Path = other.History.Path
	}
	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.Format != "" {
		c.Logging.Format = other.Logging.Format
	}
	if other.Logging.File != "" {
		c.Logging.File = other.Logging.File
	}
}

// applyEnvOverrides applies JMHGATE_* environment variable overrides.
// Range checks are left to Validate.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("JMHGATE_BENCHMARK"); v != "" {
		c.Benchmark = v
	}
	if v := os.Getenv("JMHGATE_NODES_SUFFIX"); v != "" {
		c.NodesSuffix = v
	}
	if v := os.Getenv("JMHGATE_METRIC"); v != "" {
		c.Metric = v
	}
	if v := os.Getenv("JMHGATE_THRESHOLD"); v != "" {
		t, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("invalid JMHGATE_THRESHOLD %q: want a number such as 0.98", v)
		}
		c.Threshold = t
	}
	if v := os.Getenv("JMHGATE_MODE"); v != "" {
		c.Mode = v
	}
	if v := os.Getenv("JMHGATE_FORMAT"); v != "" {
		c.Format = v
	}
	if v := os.Getenv("JMHGATE_HISTORY_PATH"); v != "" {
		c.History.Path = v
	}
	if v := os.Getenv("JMHGATE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Benchmark) == "" {
		return fmt.Errorf("benchmark must not be empty")
	}
	if c.Threshold <= 0 || c.Threshold > 10 {
		return fmt.Errorf("threshold must be in (0, 10], got %g", c.Threshold)
	}

	metric, err := compare.ParseMetric(c.Metric)
	if err != nil {
		return err
	}
	if metric.NeedsNodes() && !strings.HasPrefix(c.NodesSuffix, ":") {
		return fmt.Errorf("nodes_suffix must start with ':', got %q", c.NodesSuffix)
	}
	if _, err := gate.ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := jmh.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level)
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("logging.format must be 'json' or 'text', got %s", c.Logging.Format)
	}

	return nil
}

// Selector returns the result-file selector described by c.
func (c *Config) Selector() jmh.Selector {
	metric, _ := compare.ParseMetric(c.Metric)
	return jmh.Selector{
		Benchmark:   c.Benchmark,
		NodesSuffix: c.NodesSuffix,
		NeedNodes:   metric.NeedsNodes(),
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// JSON returns the configuration as indented JSON.
func (c *Config) JSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
