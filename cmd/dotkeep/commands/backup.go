package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/dotkeep/internal/config"
	"github.com/thoreinstein/dotkeep/internal/errors"
	"github.com/thoreinstein/dotkeep/internal/snapshot"
	"github.com/thoreinstein/dotkeep/internal/source"
)

var (
	backupAll         bool
	backupInteractive bool
	backupKeep        int
)

func init() {
	backupCmd.Flags().BoolVar(&backupAll, "all", false,
		"back up every item under the source root")
	backupCmd.Flags().BoolVarP(&backupInteractive, "interactive", "i", false,
		"pick items with a fuzzy finder")
	backupCmd.Flags().IntVar(&backupKeep, "keep", config.DefaultRetention,
		"number of generations to retain per item")
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup [item...]",
	Short: "Back up items into timestamped generations",
	Long: `Back up the named items from the source root.

Every item in one invocation shares a single timestamp. Each backup
creates a new generation under <backup root>/<item>/<timestamp>/ and
refreshes the item's copy in the for-git mirror folder. Generations
beyond the retention count are removed, oldest first.

A failing item never aborts the batch: the remaining items are still
backed up and the failure is reported at the end.`,
	Example: `  # Back up two items
  dotkeep backup nvim tmux

  # Back up everything under the source root
  dotkeep backup --all

  # Pick items interactively
  dotkeep backup --interactive

  # Keep only the 3 most recent generations
  dotkeep backup nvim --keep 3

  See Also:
    dotkeep list    - See what can be backed up
    dotkeep history - Show existing generations
    dotkeep prune   - Remove old generations`,
	RunE: runBackup,
}

func runBackup(cmd *cobra.Command, args []string) error {
	names, err := resolveBackupItems(args)
	if err != nil {
		return err
	}
	if names == nil {
		// Interactive selection aborted.
		fmt.Println("Aborted")
		return nil
	}

	retention := cfg.Retention
	if cmd.Flags().Changed("keep") {
		retention = backupKeep
	}
	if retention < 1 {
		return errors.New("--keep must be >= 1")
	}

	return runBackupWithWriter(os.Stdout, cfg, names, retention)
}

// resolveBackupItems turns the flags and args into a list of item names.
// A nil list with a nil error means the user cancelled interactive selection.
func resolveBackupItems(args []string) ([]string, error) {
	switch {
	case backupAll:
		names, err := source.Names(cfg.SourceRoot)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, errors.Newf("no items found in %s", cfg.SourceRoot)
		}
		return names, nil

	case backupInteractive:
		return pickItems(cfg.SourceRoot)

	case len(args) > 0:
		if err := validateItemNames(args); err != nil {
			return nil, err
		}
		return args, nil
	}

	return nil, errors.NewUserError(
		errors.New("no items specified"),
		"Name items to back up, or use --all or --interactive")
}

// pickItems runs the fuzzy finder over the source items.
func pickItems(sourceRoot string) ([]string, error) {
	items, err := source.List(sourceRoot)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.Newf("no items found in %s", sourceRoot)
	}

	indices, err := fuzzyfinder.FindMulti(items,
		func(i int) string {
			if items[i].IsDir {
				return items[i].Name + "/"
			}
			return items[i].Name
		},
		fuzzyfinder.WithHeader("Select items to back up (tab to multi-select)"),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "selecting items")
	}

	names := make([]string, len(indices))
	for i, idx := range indices {
		names[i] = items[idx].Name
	}
	return names, nil
}

func runBackupWithWriter(w io.Writer, cfg *config.Config, names []string, retention int) error {
	runner := snapshot.NewRunner(cfg.BackupRoot,
		snapshot.WithRetention(retention),
		snapshot.WithLogger(slog.Default()))

	sum := runner.RunBatch(cfg.SourceRoot, names)
	printBatchSummary(w, sum)

	if sum.Failed > 0 {
		return errors.Newf("%d item(s) failed to back up", sum.Failed)
	}
	return nil
}

// printBatchSummary writes per-item results and the batch totals.
// Shared between the backup command and the interactive menu.
func printBatchSummary(w io.Writer, sum snapshot.Summary) {
	for _, res := range sum.Results {
		if res.Failed() {
			fmt.Fprintf(w, "%s✗ %s: %v%s\n", colorRed, res.Item, res.Err, colorReset)
			continue
		}

		fmt.Fprintf(w, "%s✓ %s → %s%s", colorGreen, res.Item, res.GenerationID, colorReset)
		if n := len(res.Evicted); n > 0 {
			fmt.Fprintf(w, " %s(removed %d old)%s", colorGray, n, colorReset)
		}
		if res.MirrorErr != nil {
			fmt.Fprintf(w, " %s(mirror update failed: %v)%s", colorYellow, res.MirrorErr, colorReset)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	if sum.Failed > 0 {
		fmt.Fprintf(w, "Backed up %d item(s), %d failed\n", sum.Succeeded, sum.Failed)
	} else {
		fmt.Fprintf(w, "Backed up %d item(s)\n", sum.Succeeded)
	}
}
