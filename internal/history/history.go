// Package history reads the backup tree for display: which items have been
// backed up, their generations with on-disk sizes, and the state of the
// for-git mirror.
package history

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/dotkeep/internal/paths"
	"github.com/thoreinstein/dotkeep/internal/snapshot"
)

// GenerationInfo is one generation with its total payload size.
type GenerationInfo struct {
	ID   string `json:"id"`
	Size int64  `json:"size_bytes"`
}

// ItemHistory is the generation history of one backed-up item, newest first.
type ItemHistory struct {
	Item        string           `json:"item"`
	Generations []GenerationInfo `json:"generations"`
}

// MirrorEntry is one entry of the for-git mirror folder.
type MirrorEntry struct {
	Name  string `json:"name"`
	IsDir bool   `json:"is_dir"`
	Size  int64  `json:"size_bytes"`
}

// Items returns the names of all items present in the backup tree, sorted.
// The mirror folder is not an item. A missing backup root yields an empty
// list: no backups yet is not an error.
func Items(backupRoot string) ([]string, error) {
	entries, err := os.ReadDir(backupRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading backup root %s", backupRoot)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == paths.MirrorDirName {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Collect gathers the generation history for the named items.
// limit caps the generations reported per item; 0 means no cap.
// Size calculation failures degrade to a zero size rather than failing the view.
func Collect(store *snapshot.Store, items []string, limit int) ([]ItemHistory, error) {
	histories := make([]ItemHistory, 0, len(items))

	for _, item := range items {
		gens, err := store.ListGenerations(item)
		if err != nil {
			return nil, err
		}
		if limit > 0 && len(gens) > limit {
			gens = gens[:limit]
		}

		h := ItemHistory{Item: item, Generations: make([]GenerationInfo, 0, len(gens))}
		for _, gen := range gens {
			size, _ := DirSize(gen.Path)
			h.Generations = append(h.Generations, GenerationInfo{ID: gen.ID, Size: size})
		}
		histories = append(histories, h)
	}

	return histories, nil
}

// MirrorStatus lists the entries of the for-git mirror, sorted by name.
// A missing mirror folder yields an empty list.
func MirrorStatus(backupRoot string) ([]MirrorEntry, error) {
	mirrorRoot := paths.MirrorRoot(backupRoot)
	entries, err := os.ReadDir(mirrorRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading mirror folder")
	}

	out := make([]MirrorEntry, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(mirrorRoot, entry.Name())
		size, _ := DirSize(path)
		out = append(out, MirrorEntry{
			Name:  entry.Name(),
			IsDir: entry.IsDir(),
			Size:  size,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DirSize returns the total size in bytes of all regular files under path.
// A plain file returns its own size. Unreadable entries are skipped.
func DirSize(path string) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, errors.Wrapf(err, "stat %s", path)
	}
	if !info.IsDir() {
		return info.Size(), nil
	}

	var total int64
	err = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if fi, err := d.Info(); err == nil {
			total += fi.Size()
		}
		return nil
	})
	if err != nil {
		return total, errors.Wrapf(err, "walking %s", path)
	}
	return total, nil
}
