package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/dotkeep/internal/config"
	"github.com/thoreinstein/dotkeep/internal/errors"
	"github.com/thoreinstein/dotkeep/internal/snapshot"
	"github.com/thoreinstein/dotkeep/internal/source"
	"github.com/thoreinstein/dotkeep/internal/watcher"
)

var watchDebounce time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce,
		"quiet period before a change triggers a backup")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch [item...]",
	Short: "Back up items automatically when they change",
	Long: `Watch items under the source root and back each one up when it
changes. Rapid successive changes to the same item are collapsed into
one backup. Without arguments, every item under the source root is
watched.

Press Ctrl-C to stop.`,
	Example: `  # Watch everything under the source root
  dotkeep watch

  # Watch two items with a longer quiet period
  dotkeep watch nvim tmux --debounce 2s

  See Also:
    dotkeep backup - One-off backups`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	items := args
	if len(items) == 0 {
		var err error
		items, err = source.Names(cfg.SourceRoot)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return errors.Newf("no items found in %s", cfg.SourceRoot)
		}
	} else if err := validateItemNames(items); err != nil {
		return err
	}

	w, err := watcher.New(cfg.SourceRoot, items, watcher.WithDebounce(watchDebounce))
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Start(); err != nil {
		return err
	}

	// watch stops its loop on Ctrl-C instead of exiting outright.
	releaseInterrupts()
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchLoop(ctx, os.Stdout, cfg, w, items)
}

// watchLoop serializes backups through the command goroutine: one changed
// item triggers one single-item batch.
func watchLoop(ctx context.Context, out io.Writer, cfg *config.Config, w *watcher.Watcher, items []string) error {
	runner := snapshot.NewRunner(cfg.BackupRoot,
		snapshot.WithRetention(cfg.Retention),
		snapshot.WithLogger(slog.Default()))

	fmt.Fprintf(out, "Watching %d item(s) under %s (Ctrl-C to stop)\n", len(items), cfg.SourceRoot)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nStopping watch")
			return nil

		case item := <-w.Changes():
			sum := runner.RunBatch(cfg.SourceRoot, []string{item})
			for _, res := range sum.Results {
				if res.Failed() {
					fmt.Fprintf(out, "%s✗ %s: %v%s\n", colorRed, res.Item, res.Err, colorReset)
				} else {
					fmt.Fprintf(out, "%s✓ %s → %s%s\n", colorGreen, res.Item, res.GenerationID, colorReset)
				}
			}

		case err := <-w.Errors():
			slog.Warn("watch error", "error", err)
		}
	}
}
