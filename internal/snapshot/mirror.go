package snapshot

import (
	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/dotkeep/internal/fscopy"
	"github.com/thoreinstein/dotkeep/internal/paths"
)

// Publisher maintains the single "latest" copy of each tracked item under
// the mirror root (<backupRoot>/for-git). The mirror is never versioned and
// never pruned by retention; it always reflects the most recent successful
// copy of the source.
type Publisher struct {
	mirrorRoot string
}

// NewPublisher creates a Publisher for the given backup root.
func NewPublisher(backupRoot string) *Publisher {
	return &Publisher{mirrorRoot: paths.MirrorRoot(backupRoot)}
}

// MirrorRoot returns the mirror folder path.
func (p *Publisher) MirrorRoot() string {
	return p.mirrorRoot
}

// Publish replaces the mirror copy of item with the current source content.
// Any existing copy is fully removed first, so the mirror is always either
// absent or a self-consistent replacement, never a merge.
func (p *Publisher) Publish(item, srcPath string) error {
	if item == "" {
		return errors.New("item is required")
	}

	if err := paths.EnsureDir(p.mirrorRoot, 0); err != nil {
		return errors.Wrap(err, "creating mirror folder")
	}

	dst := paths.ItemRoot(p.mirrorRoot, item)
	if err := fscopy.ReplaceEntry(srcPath, dst); err != nil {
		return errors.Wrapf(err, "updating mirror for %s", item)
	}
	return nil
}
