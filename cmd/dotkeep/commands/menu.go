package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/dotkeep/internal/cli/prompt"
	"github.com/thoreinstein/dotkeep/internal/config"
	"github.com/thoreinstein/dotkeep/internal/errors"
	"github.com/thoreinstein/dotkeep/internal/snapshot"
	"github.com/thoreinstein/dotkeep/internal/source"
)

func init() {
	rootCmd.AddCommand(menuCmd)
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive backup session",
	Long: `Run an interactive backup session.

Items under the source root are listed with numbers. Enter one or more
numbers (comma or space separated) to back those items up, 'all' for
everything, 'h' to view the backup history, or 'q' to quit. After each
batch you are asked whether to back up more items.`,
	Example: `  dotkeep menu

  See Also:
    dotkeep backup  - Non-interactive backups
    dotkeep history - Backup history`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	return runMenuWithIO(os.Stdin, os.Stdout, cfg)
}

func runMenuWithIO(in io.Reader, out io.Writer, cfg *config.Config) error {
	selector := prompt.NewSelectorWithIO(in, out)

	runner := snapshot.NewRunner(cfg.BackupRoot,
		snapshot.WithRetention(cfg.Retention),
		snapshot.WithLogger(slog.Default()))

	for {
		items, err := source.List(cfg.SourceRoot)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintf(out, "No items found in %s\n", cfg.SourceRoot)
			return nil
		}

		fmt.Fprintf(out, "\n%sItems in %s:%s\n", colorCyan+colorBold, cfg.SourceRoot, colorReset)
		for i, item := range items {
			name := item.Name
			if item.IsDir {
				name += "/"
			}
			fmt.Fprintf(out, "  %2d. %s\n", i+1, name)
		}
		fmt.Fprintln(out, "\nEnter item numbers (e.g. 1,3), 'all', 'h' for history, or 'q' to quit.")

		sel, err := selector.SelectItems(len(items))
		if err != nil {
			if errors.Is(err, prompt.ErrSelectionCancelled) {
				fmt.Fprintln(out, "\nBye.")
				return nil
			}
			return err
		}

		switch sel.Kind {
		case prompt.KindQuit:
			fmt.Fprintln(out, "Bye.")
			return nil

		case prompt.KindHistory:
			if err := runHistoryWithWriter(out, cfg, nil, cfg.Retention); err != nil {
				fmt.Fprintf(out, "%sHistory unavailable: %v%s\n", colorYellow, err, colorReset)
			}
			continue
		}

		var names []string
		if sel.Kind == prompt.KindAll {
			for _, item := range items {
				names = append(names, item.Name)
			}
		} else {
			for _, idx := range sel.Indices {
				names = append(names, items[idx-1].Name)
			}
		}

		fmt.Fprintln(out)
		sum := runner.RunBatch(cfg.SourceRoot, names)
		printBatchSummary(out, sum)

		if !selector.Confirm("Backup more items?") {
			fmt.Fprintln(out, "Bye.")
			return nil
		}
	}
}
