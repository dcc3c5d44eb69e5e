package snapshot

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/dotkeep/internal/logging"
)

// Runner drives backup batches: generation creation, mirror publishing and
// retention eviction per selected item.
type Runner struct {
	store     *Store
	publisher *Publisher
	retention int
	clock     Clock
	logger    *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithRetention sets the number of generations retained per item.
func WithRetention(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.retention = n
		}
	}
}

// WithClock sets the clock used for batch timestamps.
func WithClock(c Clock) Option {
	return func(r *Runner) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithLogger sets the logger for per-item progress and warnings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a Runner operating on the given backup root.
func NewRunner(backupRoot string, opts ...Option) *Runner {
	r := &Runner{
		store:     NewStore(backupRoot),
		publisher: NewPublisher(backupRoot),
		retention: DefaultRetentionCount,
		clock:     RealClock{},
		logger:    logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store exposes the underlying generation store (used by history views).
func (r *Runner) Store() *Store {
	return r.store
}

// Retention returns the configured per-item retention count.
func (r *Runner) Retention() int {
	return r.retention
}

// RunBatch backs up the named items from sourceRoot, in order, under one
// shared timestamp. A failing item is recorded and skipped; the batch always
// processes the full selection. Mirror publish and retention eviction
// problems are warnings and never flip an item to failed.
func (r *Runner) RunBatch(sourceRoot string, items []string) Summary {
	sum := Summary{
		Timestamp: r.clock.Now().Format(TimestampLayout),
		Results:   make([]ItemResult, 0, len(items)),
	}

	for _, item := range items {
		res := r.backupItem(sourceRoot, item, sum.Timestamp)
		if res.Failed() {
			sum.Failed++
		} else {
			sum.Succeeded++
		}
		sum.Results = append(sum.Results, res)
	}

	return sum
}

// backupItem runs the copy → mirror → retention sequence for one item.
func (r *Runner) backupItem(sourceRoot, item, timestamp string) ItemResult {
	res := ItemResult{Item: item}

	srcPath := filepath.Join(sourceRoot, item)
	if _, err := os.Stat(srcPath); err != nil {
		if os.IsNotExist(err) {
			res.Err = errors.Wrapf(ErrSourceMissing, "%s", item)
		} else {
			res.Err = errors.Wrapf(err, "stat %s", srcPath)
		}
		r.logger.Error("backup failed", "item", item, "error", res.Err)
		return res
	}

	gen, err := r.store.CreateGeneration(item, timestamp, srcPath)
	if err != nil {
		res.Err = err
		r.logger.Error("backup failed", "item", item, "error", err)
		return res
	}
	res.GenerationID = gen.ID
	r.logger.Info("generation created", "item", item, "generation", gen.ID)

	// The generation is the source of truth; a mirror failure is only a warning.
	if err := r.publisher.Publish(item, srcPath); err != nil {
		res.MirrorErr = err
		r.logger.Warn("mirror update failed", "item", item, "error", err)
	}

	r.applyRetention(item, &res)

	return res
}

// applyRetention evicts generations beyond the retention count.
// Listing or deletion failures are logged and do not affect the item result.
func (r *Runner) applyRetention(item string, res *ItemResult) {
	gens, err := r.store.ListGenerations(item)
	if err != nil {
		r.logger.Warn("listing generations failed", "item", item, "error", err)
		return
	}

	for _, gen := range SelectEvictions(gens, r.retention) {
		if err := r.store.DeleteGeneration(item, gen.ID); err != nil {
			r.logger.Warn("deleting old generation failed",
				"item", item, "generation", gen.ID, "error", err)
			continue
		}
		res.Evicted = append(res.Evicted, gen.ID)
		r.logger.Debug("old generation deleted", "item", item, "generation", gen.ID)
	}
}

// Prune applies retention to the named items immediately, without creating
// new generations. It returns the number of generations deleted.
func (r *Runner) Prune(items []string) (int, error) {
	deleted := 0
	for _, item := range items {
		gens, err := r.store.ListGenerations(item)
		if err != nil {
			return deleted, err
		}
		for _, gen := range SelectEvictions(gens, r.retention) {
			if err := r.store.DeleteGeneration(item, gen.ID); err != nil {
				return deleted, err
			}
			deleted++
			r.logger.Debug("old generation deleted", "item", item, "generation", gen.ID)
		}
	}
	return deleted, nil
}
