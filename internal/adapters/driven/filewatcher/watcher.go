// Package filewatcher reports changes to an OpenAPI document on disk.
package filewatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
	"github.com/custodia-labs/arielle-cli/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches the directory holding a file and emits once per settled
// change to that file. Watching the directory keeps working when editors
// replace the file with a rename.
type Watcher struct {
	debounce time.Duration
	log      *logger.Logger
}

// New creates a watcher. A zero debounce uses DefaultDebounce.
func New(debounce time.Duration, log *logger.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{debounce: debounce, log: log}
}

// Watch emits on the returned channel each time path is written or replaced.
// The channel is closed when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context, path string) (<-chan struct{}, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	changes := make(chan struct{}, 1)
	go w.loop(ctx, fw, abs, changes)
	return changes, nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, target string, changes chan<- struct{}) {
	defer close(changes)
	defer fw.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.log.Debug("File event %s on %s", event.Op, event.Name)
			timer.Reset(w.debounce)

		case <-timer.C:
			// Drop the signal if the previous one has not been consumed yet.
			select {
			case changes <- struct{}{}:
			default:
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("File watcher error: %v", err)
		}
	}
}
