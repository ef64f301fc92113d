package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/jmhgate/internal/compare"
	gerrors "github.com/Aman-CERP/jmhgate/internal/errors"
	"github.com/Aman-CERP/jmhgate/internal/history"
	"github.com/Aman-CERP/jmhgate/internal/output"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		dbPath     string
		benchmark  string
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded comparisons",
		Long: `List comparisons recorded with --record (or history.path in config),
newest first.`,
		Example: `  # Last 20 comparisons
  jmhgate history --db bench-history.db

  # Only one benchmark, as JSON
  jmhgate history --db bench-history.db -b HQBenchmark.perftNodes --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("db") {
				cfg, err := a.loadConfig(cmd)
				if err != nil {
					return err
				}
				dbPath = cfg.History.Path
			}
			return runHistory(cmd, dbPath, benchmark, limit, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "History database (default history.path from config)")
	cmd.Flags().StringVarP(&benchmark, "benchmark", "b", "", "Only show this benchmark")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runHistory(cmd *cobra.Command, dbPath, benchmark string, limit int, jsonOutput bool) error {
	if dbPath == "" {
		return gerrors.UsageError("no history database configured").
			WithSuggestion("Pass --db or set history.path in .jmhgate.yaml")
	}
	if _, err := os.Stat(dbPath); err != nil {
		return gerrors.New(gerrors.ErrCodeFileNotFound, fmt.Sprintf("history database not found: %s", dbPath), err).
			WithDetail("file", dbPath).
			WithSuggestion("Record a comparison first with --record")
	}

	store, err := history.Open(dbPath)
	if err != nil {
		return gerrors.New(gerrors.ErrCodeHistoryStore, "failed to open history database", err).
			WithDetail("file", dbPath)
	}
	defer func() { _ = store.Close() }()

	entries, err := store.Recent(cmd.Context(), benchmark, limit)
	if err != nil {
		return gerrors.New(gerrors.ErrCodeHistoryStore, "failed to read history", err).
			WithDetail("file", dbPath)
	}

	if jsonOutput {
		if entries == nil {
			entries = []history.Entry{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		output.New(cmd.OutOrStdout()).Status("📭", "No comparisons recorded")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tRECORDED\tBENCHMARK\tMETRIC\tBASE\tPR\tRATIO\tRESULT")
	_, _ = fmt.Fprintln(w, "--\t--------\t---------\t------\t----\t--\t-----\t------")

	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%sx\t%s\n",
			e.ID,
			e.RecordedAt.Local().Format("2006-01-02 15:04:05"),
			e.Benchmark,
			e.Metric,
			compare.Human(e.Base),
			compare.Human(e.PR),
			compare.Fixed(e.Ratio, 2),
			result(e))
	}

	return w.Flush()
}

func result(e history.Entry) string {
	switch {
	case e.Mode == "report":
		return "info"
	case e.Passed:
		return "pass"
	default:
		return "fail"
	}
}
