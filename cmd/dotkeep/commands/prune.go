package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/dotkeep/internal/config"
	"github.com/thoreinstein/dotkeep/internal/errors"
	"github.com/thoreinstein/dotkeep/internal/history"
	"github.com/thoreinstein/dotkeep/internal/snapshot"
)

var pruneKeep int

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", config.DefaultRetention,
		"number of generations to retain per item")
	rootCmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune [item...]",
	Short: "Remove old generations",
	Long: `Remove generations beyond the retention count, oldest first.

Pruning happens automatically after each backup; this command applies
retention immediately without creating new generations. Without
arguments, all backed-up items are pruned. The for-git mirror is never
touched.`,
	Example: `  # Prune all items to the configured retention
  dotkeep prune

  # Keep only the 2 most recent generations of one item
  dotkeep prune nvim --keep 2

  See Also:
    dotkeep history - See what would be pruned
    dotkeep backup  - Create new generations`,
	RunE: runPrune,
}

func runPrune(cmd *cobra.Command, args []string) error {
	retention := cfg.Retention
	if cmd.Flags().Changed("keep") {
		retention = pruneKeep
	}
	if retention < 1 {
		return errors.New("--keep must be >= 1")
	}

	return runPruneWithWriter(os.Stdout, cfg, args, retention)
}

func runPruneWithWriter(w io.Writer, cfg *config.Config, args []string, retention int) error {
	items := args
	if len(items) == 0 {
		var err error
		items, err = history.Items(cfg.BackupRoot)
		if err != nil {
			return err
		}
	} else if err := validateItemNames(items); err != nil {
		return err
	}

	runner := snapshot.NewRunner(cfg.BackupRoot,
		snapshot.WithRetention(retention),
		snapshot.WithLogger(slog.Default()))

	deleted, err := runner.Prune(items)
	if err != nil {
		return errors.Wrap(err, "pruning generations")
	}

	if deleted == 0 {
		fmt.Fprintln(w, "No generations to prune")
	} else {
		fmt.Fprintf(w, "%s✓ removed %d old generation(s)%s\n", colorGreen, deleted, colorReset)
	}

	return nil
}
