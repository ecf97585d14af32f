package file

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atelier-labs/showroom/internal/logger"
)

// defaultDebounce collapses editor save bursts into one reload signal.
const defaultDebounce = 500 * time.Millisecond

// Watcher observes the per-source record files and reports which sources
// changed on disk, so callers can refresh the catalog after external edits.
type Watcher struct {
	fs       *fsnotify.Watcher
	events   chan []string
	done     chan struct{}
	debounce time.Duration
}

// NewWatcher starts watching the record files under dir. Changed source ids
// are delivered on Events, debounced so one batch covers a burst of writes.
// A debounce of zero uses the default.
func NewWatcher(dir string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, err
	}

	w := &Watcher{
		fs:       fs,
		events:   make(chan []string, 1),
		done:     make(chan struct{}),
		debounce: debounce,
	}
	go w.run()
	return w, nil
}

// Events delivers batches of source ids whose record files changed.
func (w *Watcher) Events() <-chan []string {
	return w.events
}

// Close stops the watcher and closes the events channel.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) run() {
	defer close(w.events)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := make(map[string]struct{})

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			id, relevant := sourceIDFromPath(event.Name)
			if !relevant {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending[id] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("Source watcher error: %v", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for id := range pending {
				batch = append(batch, id)
			}
			pending = make(map[string]struct{})

			select {
			case w.events <- batch:
			case <-w.done:
				return
			}
		}
	}
}

// sourceIDFromPath maps a record file path to its source id. Temp files from
// atomic writes and anything that is not a .json file are ignored.
func sourceIDFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".json") {
		return "", false
	}
	return strings.TrimSuffix(base, ".json"), true
}
