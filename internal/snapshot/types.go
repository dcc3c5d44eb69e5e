package snapshot

import (
	"github.com/cockroachdb/errors"
)

// TimestampLayout is the generation identifier format (YYYYMMDD_HHMMSS).
// The fixed width makes lexicographic order equal to chronological order,
// which ListGenerations relies on.
const TimestampLayout = "20060102_150405"

// DefaultRetentionCount is the default number of generations retained per item.
const DefaultRetentionCount = 5

// Sentinel errors for snapshot operations.
var (
	// ErrSourceMissing indicates a tracked item's source path no longer exists.
	ErrSourceMissing = errors.New("source item missing")

	// ErrNoGenerations indicates no generations exist for the item.
	ErrNoGenerations = errors.New("no generations found")
)

// Generation is one immutable timestamped snapshot of a tracked item.
// It is identified by its ID, which doubles as the sort key.
type Generation struct {
	// ID is the timestamp identifier, e.g. "20250101_120000".
	// A same-second collision gets a numeric suffix ("20250101_120000_2")
	// which still sorts after the bare ID.
	ID string

	// Path is the generation directory: <backupRoot>/<item>/<ID>.
	Path string
}

// ItemResult describes the outcome of backing up one item in a batch.
type ItemResult struct {
	// Item is the tracked item's name.
	Item string

	// GenerationID is set when a generation was created.
	GenerationID string

	// Evicted lists generation IDs deleted by retention after this backup.
	Evicted []string

	// Err is the failure that prevented generation creation, if any.
	Err error

	// MirrorErr records a mirror publish failure. The generation remains
	// valid; this is a warning, not a failure.
	MirrorErr error
}

// Failed reports whether the item's backup failed.
// Mirror and eviction problems do not count as failures.
func (r ItemResult) Failed() bool {
	return r.Err != nil
}

// Summary aggregates the outcome of one backup batch.
type Summary struct {
	// Timestamp is the shared generation timestamp for the batch.
	Timestamp string

	// Succeeded and Failed count items, not files.
	Succeeded int
	Failed    int

	// Results holds the per-item outcomes in batch order.
	Results []ItemResult
}
