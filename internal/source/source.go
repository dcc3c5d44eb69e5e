// Package source discovers tracked items: the immediate entries of the
// source config root. Items are ephemeral — they are listed fresh each run,
// never persisted.
package source

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/dotkeep/internal/paths"
)

// Sentinel errors for source discovery.
var (
	// ErrSourceRootMissing indicates the source root directory does not exist.
	ErrSourceRootMissing = errors.New("source root not found")
)

// Item is one entry of the source root, eligible for backup.
type Item struct {
	// Name is the entry's base name, which identifies the tracked item
	// throughout the backup tree.
	Name string

	// IsDir reports whether the entry is a directory.
	IsDir bool
}

// List returns the entries of the source root, sorted by name.
// Symlinked directories count as directories, matching the copy semantics.
// An entry named like the mirror folder is never tracked; backing it up
// would write the mirror into itself when the source and backup roots
// coincide.
func List(sourceRoot string) ([]Item, error) {
	entries, err := os.ReadDir(sourceRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrSourceRootMissing, "%s", sourceRoot)
		}
		return nil, errors.Wrapf(err, "reading source root %s", sourceRoot)
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		if entry.Name() == paths.MirrorDirName {
			continue
		}
		isDir := entry.IsDir()
		if !isDir && entry.Type()&os.ModeSymlink != 0 {
			// ReadDir does not follow links; a link to a directory is
			// treated as a directory, as the copier will follow it.
			if info, err := os.Stat(filepath.Join(sourceRoot, entry.Name())); err == nil {
				isDir = info.IsDir()
			}
		}
		items = append(items, Item{Name: entry.Name(), IsDir: isDir})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})

	return items, nil
}

// Names returns just the item names, in the same order as List.
func Names(sourceRoot string) ([]string, error) {
	items, err := List(sourceRoot)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names, nil
}
