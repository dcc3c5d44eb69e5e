package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/dotkeep/internal/config"
	"github.com/thoreinstein/dotkeep/internal/errors"
	"github.com/thoreinstein/dotkeep/internal/history"
	"github.com/thoreinstein/dotkeep/internal/snapshot"
	"github.com/thoreinstein/dotkeep/pkg/fileutil"
)

var (
	historyJSON   bool
	historyLimit  int
	historyOutput string
)

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output in JSON format")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0,
		"maximum generations shown per item (default: configured retention, 0 = all)")
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", "",
		"write JSON output to a file instead of stdout")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [item...]",
	Short: "Show backup generations and mirror state",
	Long: `Show the backup history: every generation of each item with its
timestamp and on-disk size, newest first, plus the current contents of
the for-git mirror folder.

Without arguments, all backed-up items are shown.`,
	Example: `  # Full history
  dotkeep history

  # History of one item
  dotkeep history nvim

  # Machine-readable output
  dotkeep history --json

  # Write JSON to a file
  dotkeep history --json -o history.json

  See Also:
    dotkeep backup - Create new generations
    dotkeep prune  - Remove old generations`,
	RunE: runHistory,
}

// historyOutputDoc is the JSON document for --json output.
type historyOutputDoc struct {
	Items  []history.ItemHistory `json:"items"`
	Mirror []history.MirrorEntry `json:"mirror"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyOutput != "" && !historyJSON {
		return errors.New("--output requires --json")
	}

	// The display cap follows the retention count unless --limit says
	// otherwise; an explicit --limit 0 shows everything.
	limit := cfg.Retention
	if cmd.Flags().Changed("limit") {
		limit = historyLimit
	}

	return runHistoryWithWriter(os.Stdout, cfg, args, limit)
}

func runHistoryWithWriter(w io.Writer, cfg *config.Config, args []string, limit int) error {
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

	store := snapshot.NewStore(cfg.BackupRoot)
	histories, err := history.Collect(store, items, limit)
	if err != nil {
		return err
	}

	mirror, err := history.MirrorStatus(cfg.BackupRoot)
	if err != nil {
		return err
	}

	if historyJSON {
		doc := historyOutputDoc{Items: histories, Mirror: mirror}
		if historyOutput != "" {
			return fileutil.AtomicWriteJSON(historyOutput, doc)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(doc), "encoding output")
	}

	return outputHistoryTabular(w, histories, mirror)
}

func outputHistoryTabular(w io.Writer, histories []history.ItemHistory, mirror []history.MirrorEntry) error {
	hasGenerations := false

	for i, h := range histories {
		if i > 0 {
			fmt.Fprintln(w)
		}

		fmt.Fprintf(w, "%sItem: %s%s\n", colorCyan+colorBold, h.Item, colorReset)

		if len(h.Generations) == 0 {
			fmt.Fprintf(w, "  %s(no generations)%s\n", colorGray, colorReset)
			continue
		}
		hasGenerations = true

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "  %sGENERATION%s\t%sCREATED%s\t%sSIZE%s\n",
			colorBold, colorReset,
			colorBold, colorReset,
			colorBold, colorReset)

		for _, g := range h.Generations {
			fmt.Fprintf(tw, "  %s%s%s\t%s\t%s\n",
				colorGreen, g.ID, colorReset,
				generationTime(g.ID),
				humanSize(g.Size))
		}
		tw.Flush()
	}

	if !hasGenerations && len(histories) == 0 {
		fmt.Fprintln(w, "No backups yet")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Create one with: dotkeep backup <item>")
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%sMirror (for-git):%s\n", colorCyan+colorBold, colorReset)
	if len(mirror) == 0 {
		fmt.Fprintf(w, "  %s(empty)%s\n", colorGray, colorReset)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, entry := range mirror {
		name := entry.Name
		if entry.IsDir {
			name += "/"
		}
		fmt.Fprintf(tw, "  %s\t%s\n", name, humanSize(entry.Size))
	}
	tw.Flush()

	return nil
}
