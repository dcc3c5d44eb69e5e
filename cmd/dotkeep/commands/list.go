package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/dotkeep/internal/config"
	"github.com/thoreinstein/dotkeep/internal/errors"
	"github.com/thoreinstein/dotkeep/internal/source"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List items available for backup",
	Long: `List the entries of the source config directory that can be backed up.

Each immediate entry of the source root (directory or file) is one item.
Directories are marked with a trailing slash.`,
	Example: `  # List items under the configured source root
  dotkeep list

  See Also:
    dotkeep backup - Back up items
    dotkeep menu   - Interactive selection`,
	RunE: runList,
}

func runList(_ *cobra.Command, _ []string) error {
	return runListWithWriter(os.Stdout, cfg)
}

func runListWithWriter(w io.Writer, cfg *config.Config) error {
	items, err := source.List(cfg.SourceRoot)
	if err != nil {
		if errors.Is(err, source.ErrSourceRootMissing) {
			return errors.NewUserError(err, "Set source_root in config.yaml to an existing directory")
		}
		return err
	}

	if len(items) == 0 {
		fmt.Fprintf(w, "No items found in %s\n", cfg.SourceRoot)
		return nil
	}

	fmt.Fprintf(w, "%sItems in %s:%s\n", colorCyan+colorBold, cfg.SourceRoot, colorReset)
	for i, item := range items {
		name := item.Name
		if item.IsDir {
			name += "/"
		}
		fmt.Fprintf(w, "  %2d. %s\n", i+1, name)
	}

	return nil
}
