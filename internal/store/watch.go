package store

import (
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/Iron-Ham/elitectl/internal/logging"
)

// Watcher reports changes to key files in a FileStore directory made by
// other processes (for example `elitectl reset` while the TUI is open).
type Watcher struct {
	watcher  *fsnotify.Watcher
	keys     []string
	onChange func(key string)
	logger   *logging.Logger

	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// Watch starts watching dir and calls onChange with the key name whenever one
// of keys is created, written or renamed into place. onChange runs on the
// watcher goroutine.
func Watch(dir string, keys []string, onChange func(key string), logger *logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		keys:     keys,
		onChange: onChange,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			key := filepath.Base(ev.Name)
			if !slices.Contains(w.keys, key) {
				continue
			}
			w.onChange(key)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("store watcher error", "error", err.Error())
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stopCh)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
