// Package watcher monitors tracked items under the source root and reports
// which item changed, debounced so editor save storms trigger one backup.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long an item must stay quiet before its change is
// reported. Rapid successive saves of the same item collapse into one event.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches the source paths of tracked items.
type Watcher struct {
	fsw        *fsnotify.Watcher
	sourceRoot string
	items      map[string]bool

	changes chan string
	errs    chan error

	ctx    context.Context
	cancel context.CancelFunc

	debounce   time.Duration
	debounceMu sync.Mutex
	timers     map[string]*time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a Watcher for the given items under sourceRoot.
func New(sourceRoot string, items []string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating filesystem watcher")
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := &Watcher{
		fsw:        fsw,
		sourceRoot: filepath.Clean(sourceRoot),
		items:      make(map[string]bool, len(items)),
		changes:    make(chan string),
		errs:       make(chan error, 10),
		ctx:        ctx,
		cancel:     cancel,
		debounce:   DefaultDebounce,
		timers:     make(map[string]*time.Timer),
	}
	for _, item := range items {
		w.items[item] = true
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start registers the watches and begins dispatching events.
// Directory items are watched recursively; file items are covered by a
// watch on the source root itself.
func (w *Watcher) Start() error {
	// Events for file items (and for item creation/deletion) arrive here.
	if err := w.fsw.Add(w.sourceRoot); err != nil {
		return errors.Wrapf(err, "watching %s", w.sourceRoot)
	}

	for item := range w.items {
		path := filepath.Join(w.sourceRoot, item)
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			continue
		}
		if err := w.addRecursive(path); err != nil {
			return err
		}
	}

	go w.loop()
	return nil
}

// addRecursive watches a directory and all of its subdirectories.
func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if !info.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return errors.Wrapf(err, "watching %s", path)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	item, ok := w.itemFor(event.Name)
	if !ok {
		return
	}

	// New subdirectories inside a tracked directory need their own watch.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
		}
	}

	w.debouncedSend(item)
}

// itemFor maps an event path to the tracked item it belongs to.
func (w *Watcher) itemFor(path string) (string, bool) {
	rel, err := filepath.Rel(w.sourceRoot, filepath.Clean(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}

	item := rel
	if i := strings.IndexRune(rel, filepath.Separator); i >= 0 {
		item = rel[:i]
	}
	if !w.items[item] {
		return "", false
	}
	return item, true
}

// debouncedSend reports the item after it has been quiet for the debounce
// interval. A new event for the same item resets the timer.
func (w *Watcher) debouncedSend(item string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.timers[item]; exists {
		timer.Stop()
	}

	w.timers[item] = time.AfterFunc(w.debounce, func() {
		select {
		case w.changes <- item:
		case <-w.ctx.Done():
		}
		w.debounceMu.Lock()
		delete(w.timers, item)
		w.debounceMu.Unlock()
	})
}

// Changes returns the channel of changed item names.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Errors returns the channel of watch errors.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops event dispatch and releases the underlying watcher.
func (w *Watcher) Close() error {
	w.cancel()
	return w.fsw.Close()
}
