package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/Aman-CERP/jmhgate/internal/errors"
	"github.com/Aman-CERP/jmhgate/internal/jmh"
	"github.com/Aman-CERP/jmhgate/internal/output"
	"github.com/Aman-CERP/jmhgate/internal/watcher"
)

func newWatchCmd(a *app) *cobra.Command {
	opts := &compareOptions{}
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <base-file> <pr-file>",
		Short: "Re-run the comparison whenever a result file changes",
		Long: `Watch both result files and print a fresh report every time one of them
settles after a write. Parse errors are printed and watching continues.
Stop with Ctrl+C.`,
		Example: `  # Re-compare while JMH rewrites pr.json
  jmhgate watch base.json pr.json`,
		Args: twoFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, a, opts, debounce, args[0], args[1])
		},
	}

	opts.bind(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultOptions().DebounceWindow, "Quiet period before re-running")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, a *app, opts *compareOptions,
	debounce time.Duration, basePath, prPath string) error {
	cfg, err := opts.resolve(cmd, a)
	if err != nil {
		return err
	}

	w, err := watcher.New(watcher.Options{DebounceWindow: debounce}, basePath, prPath)
	if err != nil {
		return gerrors.New(gerrors.ErrCodeFileNotFound, "failed to watch result files", err).
			WithSuggestion("Both result files must be in existing directories")
	}
	defer func() { _ = w.Stop() }()

	// The unchanged file of the pair is served from cache.
	parser := jmh.NewCachedParser(jmh.DefaultCacheSize)
	out := output.New(cmd.OutOrStdout())

	run := func() {
		r, err := buildReport(parser.ParseFile, cfg, basePath, prPath)
		if err != nil {
			_, _ = cmd.ErrOrStderr().Write([]byte(gerrors.FormatForCLI(err)))
			return
		}
		if err := writeReport(cmd.OutOrStdout(), r, opts.jsonOutput, a); err != nil {
			slog.Warn("failed to write report", slog.String("error", err.Error()))
		}
		recordReport(ctx, cfg.History.Path, r)
	}

	out.Statusf("👀", "Watching %s and %s", basePath, prPath)
	run()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Start(gctx)
	})
	g.Go(func() error {
		errs := w.Errors()
		for {
			select {
			case <-gctx.Done():
				return nil
			case batch, ok := <-w.Events():
				if !ok {
					return nil
				}
				for _, e := range batch {
					parser.Forget(e.Path)
				}
				slog.Debug("re-running comparison", slog.Int("changes", len(batch)))
				out.Newline()
				run()
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				slog.Warn("watch error", slog.String("error", err.Error()))
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return gerrors.Wrap(gerrors.ErrCodeInternal, err)
	}
	return nil
}
