package app

import (
	"os"
	"sync"
	"time"
)

// FileWatcher polls a file and invokes a callback when its modification
// time advances, so a plan re-exported by another program can be reloaded.
type FileWatcher struct {
	path     string
	interval time.Duration

	mu       sync.Mutex
	baseline time.Time
	onChange func(path string)
	stopCh   chan struct{}
	running  bool
}

// NewFileWatcher creates a watcher for path. It returns nil when the file
// cannot be stat'ed.
func NewFileWatcher(path string, interval time.Duration) *FileWatcher {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	return &FileWatcher{path: path, interval: interval, baseline: info.ModTime()}
}

// OnChange sets the callback. It is called from a background goroutine -
// use appropriate synchronization if updating UI.
func (w *FileWatcher) OnChange(callback func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = callback
}

// Path returns the watched file.
func (w *FileWatcher) Path() string {
	return w.path
}

// Start begins polling in a background goroutine.
func (w *FileWatcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	go w.watchLoop(w.stopCh)
}

// Stop ends polling. It is safe to call more than once.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
}

func (w *FileWatcher) watchLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if cb := w.Check(); cb != nil {
				cb(w.path)
			}
		}
	}
}

// Check compares the file's modification time against the baseline. When
// it has advanced the baseline moves forward and the callback is returned
// for the caller to run.
func (w *FileWatcher) Check() func(string) {
	info, err := os.Stat(w.path)
	if err != nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !info.ModTime().After(w.baseline) {
		return nil
	}
	w.baseline = info.ModTime()
	return w.onChange
}
