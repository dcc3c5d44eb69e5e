package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/dotkeep/internal/fscopy"
	"github.com/thoreinstein/dotkeep/internal/paths"
)

// Store manages the set of timestamped generations per tracked item.
// All generations live under <backupRoot>/<item>/<timestamp>/<item>.
type Store struct {
	backupRoot string
}

// NewStore creates a Store rooted at backupRoot.
func NewStore(backupRoot string) *Store {
	return &Store{backupRoot: backupRoot}
}

// BackupRoot returns the root of the backup tree.
func (s *Store) BackupRoot() string {
	return s.backupRoot
}

// CreateGeneration snapshots srcPath into a new generation of item keyed by
// the given timestamp. If a generation with that timestamp already exists
// (two backups within one second), the ID is disambiguated with a numeric
// suffix; suffixed IDs still sort lexicographically after the bare one.
//
// On copy failure the half-created generation directory is removed.
func (s *Store) CreateGeneration(item, timestamp, srcPath string) (Generation, error) {
	if item == "" {
		return Generation{}, errors.New("item is required")
	}
	if timestamp == "" {
		return Generation{}, errors.New("timestamp is required")
	}

	if err := paths.EnsureDir(paths.ItemRoot(s.backupRoot, item), 0); err != nil {
		return Generation{}, errors.Wrapf(err, "creating item folder for %s", item)
	}

	// Claim a generation directory. Mkdir is atomic, so a same-second rerun
	// lands on the next suffix instead of merging into an existing snapshot.
	genID := timestamp
	var genPath string
	for n := 2; ; n++ {
		genPath = paths.GenerationPath(s.backupRoot, item, genID)
		err := os.Mkdir(genPath, paths.DefaultDirPerm)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return Generation{}, errors.Wrapf(err, "creating generation folder %s", genPath)
		}
		genID = fmt.Sprintf("%s_%d", timestamp, n)
	}

	dst := filepath.Join(genPath, item)
	if err := fscopy.CopyEntry(srcPath, dst); err != nil {
		_ = os.RemoveAll(genPath)
		// Remove fails on a non-empty directory, so an item root holding
		// earlier generations is untouched; only the root this call just
		// created disappears again.
		_ = os.Remove(paths.ItemRoot(s.backupRoot, item))
		return Generation{}, errors.Wrapf(err, "backing up %s", item)
	}

	return Generation{ID: genID, Path: genPath}, nil
}

// ListGenerations returns the generations of item, newest first.
// Non-directory entries in the item root are ignored. A missing item root
// yields an empty list, not an error.
func (s *Store) ListGenerations(item string) ([]Generation, error) {
	if item == "" {
		return nil, errors.New("item is required")
	}

	itemRoot := paths.ItemRoot(s.backupRoot, item)
	entries, err := os.ReadDir(itemRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading item folder for %s", item)
	}

	gens := make([]Generation, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		gens = append(gens, Generation{
			ID:   entry.Name(),
			Path: filepath.Join(itemRoot, entry.Name()),
		})
	}

	// Fixed-width timestamps: lexicographic descending = newest first.
	sort.Slice(gens, func(i, j int) bool {
		return gens[i].ID > gens[j].ID
	})

	return gens, nil
}

// DeleteGeneration removes one generation of item entirely.
func (s *Store) DeleteGeneration(item, id string) error {
	if item == "" || id == "" {
		return errors.New("item and generation ID are required")
	}

	genPath := paths.GenerationPath(s.backupRoot, item, id)
	if err := os.RemoveAll(genPath); err != nil {
		return errors.Wrapf(err, "deleting generation %s of %s", id, item)
	}
	return nil
}
