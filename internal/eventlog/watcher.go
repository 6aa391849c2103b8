package eventlog

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 500 * time.Millisecond

// watcher wakes the client when another process writes the database. It
// prefers fsnotify on the database directory and falls back to a poll ticker
// when the watcher cannot be established.
type watcher struct {
	dbPath   string
	poll     time.Duration
	logger   *slog.Logger
	onChange func()

	fsw *fsnotify.Watcher

	debounceMu sync.Mutex
	debounce   *time.Timer

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func newWatcher(dbPath string, poll time.Duration, logger *slog.Logger, onChange func()) *watcher {
	if poll == 0 {
		poll = 1 * time.Second
	}
	return &watcher{
		dbPath:   dbPath,
		poll:     poll,
		logger:   logger,
		onChange: onChange,
		stopCh:   make(chan struct{}),
	}
}

func (w *watcher) start() {
	fsw, err := fsnotify.NewWatcher()
	if err == nil {
		err = fsw.Add(filepath.Dir(w.dbPath))
	}
	if err != nil {
		if fsw != nil {
			_ = fsw.Close()
		}
		w.logger.Warn("file watcher unavailable, polling for changes", "err", err, "interval", w.poll)
		w.wg.Add(1)
		go w.pollLoop()
		return
	}

	w.fsw = fsw
	w.wg.Add(1)
	go w.watchLoop()
}

func (w *watcher) watchLoop() {
	defer w.wg.Done()

	base := filepath.Base(w.dbPath)
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			// The WAL sidecar carries most writes under journal_mode=WAL.
			name := filepath.Base(event.Name)
			if name == base || name == base+"-wal" {
				w.scheduleChange()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "err", err)
		}
	}
}

func (w *watcher) pollLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.onChange()
		}
	}
}

// scheduleChange debounces bursts of file events into one wake.
func (w *watcher) scheduleChange() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(watchDebounce, func() {
		select {
		case <-w.stopCh:
			return
		default:
		}
		w.onChange()
	})
}

func (w *watcher) stop() {
	close(w.stopCh)
	if w.fsw != nil {
		_ = w.fsw.Close()
	}
	w.debounceMu.Lock()
	if w.debounce != nil {
		w.debounce.Stop()
		w.debounce = nil
	}
	w.debounceMu.Unlock()
	w.wg.Wait()
}
