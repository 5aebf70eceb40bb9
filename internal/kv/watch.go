package kv

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Watcher reports changes to the file backing one key. Bursts of events are
// coalesced into a single pending notification.
type Watcher struct {
	fw      *fsnotify.Watcher
	target  string
	changes chan struct{}
	done    chan struct{}
}

// Watch starts watching the file that backs key. The directory is watched
// rather than the file so atomic replacements keep being observed.
func (s *FileStore) Watch(key string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(s.Root); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", s.Root, err)
	}

	w := &Watcher{
		fw:      fw,
		target:  filepath.Clean(s.Path(key)),
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Changes delivers a value after the watched file was written, created or
// replaced. The channel is closed when the watcher stops.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.changes)
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			select {
			case w.changes <- struct{}{}:
			default: // one notification already pending
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("file watcher error")
		}
	}
}
