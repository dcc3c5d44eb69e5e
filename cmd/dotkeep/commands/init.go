package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/dotkeep/internal/config"
	"github.com/thoreinstein/dotkeep/internal/errors"
	"github.com/thoreinstein/dotkeep/internal/paths"
	"github.com/thoreinstein/dotkeep/pkg/fileutil"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing configuration")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize dotkeep configuration",
	Long: `Write the default dotkeep configuration file.

Creates <config home>/dotkeep/config.yaml with the default source root,
backup root and retention count. Existing configuration is left alone
unless --force is given.`,
	Example: `  # Write the default configuration
  dotkeep init

  # Overwrite an existing configuration
  dotkeep init --force

  See Also: dotkeep list, dotkeep backup`,
	RunE: runInit,
}

func runInit(_ *cobra.Command, _ []string) error {
	configPath := filepath.Join(paths.AppConfigDir(), "config.yaml")

	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Printf("Configuration already exists at %s\n", configPath)
		fmt.Println("Use --force to overwrite")
		return nil
	}

	if err := paths.EnsureDir(paths.AppConfigDir(), 0); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	defaults := config.Config{
		SourceRoot: paths.DefaultSourceRoot(),
		BackupRoot: paths.DefaultBackupRoot(),
		Retention:  config.DefaultRetention,
	}

	if err := fileutil.AtomicWriteYAML(configPath, &defaults); err != nil {
		return errors.Wrap(err, "writing config file")
	}

	fmt.Printf("Created %s\n", configPath)
	return nil
}
