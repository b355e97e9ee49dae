package score

import (
	"errors"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// WatcherEvent represents a score file change.
type WatcherEvent struct {
	Score *Score
	Error error
}

// Watcher watches a score file for changes and sends events.
//
// The containing directory is watched rather than the file itself so that
// editors which save by renaming a temporary file over the score are seen.
type Watcher struct {
	path      string
	watcher   *fsnotify.Watcher
	events    chan WatcherEvent
	done      chan struct{}
	mu        sync.Mutex
	running   bool
	lastScore *Score
}

// NewWatcher creates a new Watcher for the given score file path.
func NewWatcher(path string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:    filepath.Clean(path),
		watcher: fsWatcher,
		events:  make(chan WatcherEvent, 10),
		done:    make(chan struct{}),
	}

	return w, nil
}

// Start begins watching the score file for changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	// Load the initial score so the first event only fires on a real change
	if s, err := Load(w.path); err == nil {
		w.lastScore = s
	}

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}

	go w.processEvents()

	return nil
}

// Stop stops watching the score file.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)
	w.watcher.Close()
}

// Events returns the channel for receiving score change events.
func (w *Watcher) Events() <-chan WatcherEvent {
	return w.events
}

// send delivers ev unless the watcher is stopping.
func (w *Watcher) send(ev WatcherEvent) {
	select {
	case w.events <- ev:
	case <-w.done:
	}
}

// processEvents processes filesystem events and reloads the score when it changes.
func (w *Watcher) processEvents() {
	defer close(w.events)

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}

			switch {
			case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
				w.handleFileChange()
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// The file may come back; the directory watch stays in place.
				w.lastScore = nil
				w.send(WatcherEvent{Error: errors.New("score file was removed")})
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(WatcherEvent{Error: err})
		}
	}
}

// handleFileChange loads the score and sends an event if it changed.
func (w *Watcher) handleFileChange() {
	s, err := Load(w.path)
	if err != nil {
		w.send(WatcherEvent{Error: err})
		return
	}

	if w.lastScore != nil && reflect.DeepEqual(w.lastScore, s) {
		return
	}
	w.lastScore = s
	w.send(WatcherEvent{Score: s})
}
