package cmd

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/jmhgate/internal/compare"
	"github.com/Aman-CERP/jmhgate/internal/config"
	gerrors "github.com/Aman-CERP/jmhgate/internal/errors"
	"github.com/Aman-CERP/jmhgate/internal/gate"
	"github.com/Aman-CERP/jmhgate/internal/history"
	"github.com/Aman-CERP/jmhgate/internal/jmh"
)

// compareOptions are the flags shared by the root and watch commands.
// They override config only when set on the command line.
type compareOptions struct {
	benchmark   string
	nodesSuffix string
	metric      string
	threshold   float64
	mode        string
	format      string
	record      string
	jsonOutput  bool
}

func (o *compareOptions) bind(cmd *cobra.Command) {
	defaults := config.NewConfig()
	f := cmd.Flags()
	f.StringVarP(&o.benchmark, "benchmark", "b", defaults.Benchmark, "Benchmark id or dot-separated tail of it")
	f.StringVar(&o.nodesSuffix, "nodes-suffix", defaults.NodesSuffix, "Suffix of the nodes-per-call secondary metric")
	f.StringVar(&o.metric, "metric", defaults.Metric, "Compared metric: nodes (score * nodes-per-call) or score")
	f.Float64Var(&o.threshold, "threshold", defaults.Threshold, "Minimum PR/base ratio that passes")
	f.StringVar(&o.mode, "mode", defaults.Mode, "gate (exit 1 on regression) or report (never fail)")
	f.StringVar(&o.format, "format", defaults.Format, "Result format: auto, csv, text, json")
	f.StringVar(&o.record, "record", "", "Append the comparison to this SQLite history database")
	f.BoolVar(&o.jsonOutput, "json", false, "Output the report as JSON")
}

// apply copies explicitly set flags over cfg and re-validates it.
func (o *compareOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("benchmark") {
		cfg.Benchmark = o.benchmark
	}
	if f.Changed("nodes-suffix") {
		cfg.NodesSuffix = o.nodesSuffix
	}
	if f.Changed("metric") {
		cfg.Metric = o.metric
	}
	if f.Changed("threshold") {
		cfg.Threshold = o.threshold
	}
	if f.Changed("mode") {
		cfg.Mode = o.mode
	}
	if f.Changed("format") {
		cfg.Format = o.format
	}
	if f.Changed("record") {
		cfg.History.Path = o.record
	}
	if err := cfg.Validate(); err != nil {
		return gerrors.UsageError(err.Error())
	}
	return nil
}

// resolve loads config and applies the command's flags.
func (o *compareOptions) resolve(cmd *cobra.Command, a *app) (*config.Config, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := o.apply(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCompare(cmd *cobra.Command, a *app, opts *compareOptions, basePath, prPath string) error {
	cfg, err := opts.resolve(cmd, a)
	if err != nil {
		return err
	}

	r, err := buildReport(jmh.ParseFile, cfg, basePath, prPath)
	if err != nil {
		return err
	}
	if err := writeReport(cmd.OutOrStdout(), r, opts.jsonOutput, a); err != nil {
		return err
	}
	recordReport(cmd.Context(), cfg.History.Path, r)

	return r.Err()
}

// parseFunc reads one result file.
type parseFunc func(path string, format jmh.Format, sel jmh.Selector) (*jmh.Measurement, error)

// buildReport parses both result files and evaluates the gate.
// cfg must already be validated.
func buildReport(parse parseFunc, cfg *config.Config, basePath, prPath string) (gate.Report, error) {
	format, _ := jmh.ParseFormat(cfg.Format)
	metric, _ := compare.ParseMetric(cfg.Metric)
	mode, _ := gate.ParseMode(cfg.Mode)
	sel := cfg.Selector()

	base, err := parse(basePath, format, sel)
	if err != nil {
		return gate.Report{}, err
	}
	pr, err := parse(prPath, format, sel)
	if err != nil {
		return gate.Report{}, err
	}

	c := compare.Compare(base, pr, metric)
	v := gate.Evaluate(c, cfg.Threshold, mode)

	slog.Debug("comparison evaluated",
		slog.String("benchmark", cfg.Benchmark),
		slog.Float64("base", c.Base),
		slog.Float64("pr", c.PR),
		slog.Float64("ratio", c.Ratio),
		slog.Bool("passed", v.Passed))

	return gate.Report{
		Benchmark:  cfg.Benchmark,
		BaseFile:   basePath,
		PRFile:     prPath,
		Comparison: c,
		Verdict:    v,
	}, nil
}

func writeReport(w io.Writer, r gate.Report, jsonOutput bool, a *app) error {
	if jsonOutput {
		return gate.WriteJSON(w, r)
	}
	gate.WriteText(w, r, a.styles(w))
	return nil
}

// recordReport appends r to the history database at path. Failures are
// logged and never change the verdict.
func recordReport(ctx context.Context, path string, r gate.Report) {
	if path == "" {
		return
	}
	store, err := history.Open(path)
	if err != nil {
		logHistoryError(err, path)
		return
	}
	defer func() { _ = store.Close() }()

	id, err := store.Record(ctx, history.FromReport(r, time.Now()))
	if err != nil {
		logHistoryError(err, path)
		return
	}
	slog.Info("comparison recorded", slog.Int64("id", id), slog.String("path", path))
}

func logHistoryError(err error, path string) {
	ge := gerrors.New(gerrors.ErrCodeHistoryStore, "failed to record comparison", err).
		WithDetail("path", path)
	slog.Warn(ge.Message, gerrors.LogAttrs(ge)...)
}
