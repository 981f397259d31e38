package watch

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to animation manifests and frame images in a set
// of directories. A path is reported once no further event for it has
// arrived for the debounce interval, so a burst of writes yields a single
// event after the last one.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	Events   chan string
	Errors   chan error
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewWatcher starts watching dirs. A debounce of zero reports every event
// as it arrives.
func NewWatcher(debounce time.Duration, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher:  w,
		debounce: debounce,
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and closes Events and Errors. Pending debounced
// paths are dropped. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	// pending maps a path to the time of its latest event.
	pending := make(map[string]time.Time)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	armed := false

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !IsWatched(event.Name) {
				continue
			}
			if w.debounce <= 0 {
				if !w.send(event.Name) {
					return
				}
				continue
			}
			pending[event.Name] = time.Now()
			if !armed {
				timer.Reset(w.debounce)
				armed = true
			}
		case <-timer.C:
			armed = false
			now := time.Now()
			var next time.Duration
			for path, last := range pending {
				if wait := w.debounce - now.Sub(last); wait > 0 {
					if next == 0 || wait < next {
						next = wait
					}
					continue
				}
				delete(pending, path)
				if !w.send(path) {
					return
				}
			}
			if next > 0 {
				timer.Reset(next)
				armed = true
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// send delivers path on Events. It reports false when the watcher closed
// while waiting.
func (w *Watcher) send(path string) bool {
	select {
	case w.Events <- path:
		return true
	case <-w.closeCh:
		return false
	}
}

// IsWatched reports whether path is a manifest or a frame image.
func IsWatched(path string) bool {
	return IsManifest(path) || isImageFile(path)
}

// IsManifest reports whether path names an animation manifest.
func IsManifest(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json"
}

func isImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".bmp", ".tif", ".tiff", ".gif", ".jpg", ".jpeg":
		return true
	}
	return false
}
