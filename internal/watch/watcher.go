// Package watch reports batches of changed files below a set of directories.
package watch

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceDelay is how long the watcher waits for more changes before
// delivering a batch
const DefaultDebounceDelay = 200 * time.Millisecond

// Options configures a Watcher
type Options struct {
	// Dirs are watched recursively; directories that do not exist are skipped
	Dirs []string
	// Extensions restricts reported files; empty reports every file
	Extensions []string
	// ExcludeDirs are directory names never watched
	ExcludeDirs []string
	// DebounceDelay coalesces bursts of events into one batch
	DebounceDelay time.Duration
}

// Watcher delivers debounced, sorted batches of changed file paths
type Watcher struct {
	watcher     *fsnotify.Watcher
	changes     chan []string
	errors      chan error
	done        chan struct{}
	extensions  map[string]bool
	excludeDirs map[string]bool

	mu            sync.Mutex
	debounceDelay time.Duration
	pending       map[string]bool
	timer         *time.Timer
	closed        bool
}

// New creates a Watcher and starts processing events
func New(opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	delay := opts.DebounceDelay
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}

	w := &Watcher{
		watcher:       fsw,
		changes:       make(chan []string, 10),
		errors:        make(chan error, 10),
		done:          make(chan struct{}),
		extensions:    make(map[string]bool),
		excludeDirs:   make(map[string]bool),
		debounceDelay: delay,
		pending:       make(map[string]bool),
	}
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		w.extensions[strings.ToLower(ext)] = true
	}
	for _, d := range opts.ExcludeDirs {
		w.excludeDirs[d] = true
	}

	for _, dir := range opts.Dirs {
		if err := w.addRecursive(filepath.Clean(dir)); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	go w.processEvents()

	return w, nil
}

// addRecursive adds dir and every subdirectory below it. Hidden and excluded
// directories below dir are skipped.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Missing roots and vanished directories are not errors
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && (w.excludeDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			// Ignore permission errors for directories we can't access
			if os.IsPermission(err) {
				return nil
			}
			return err
		}
		return nil
	})
}

// processEvents turns fsnotify events into pending changes
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// New directories are watched as soon as they appear
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addRecursive(path); err != nil {
				w.sendError(err)
			}
			return
		}
	}

	// Ignore chmod-only events
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if !w.matches(path) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceDelay, w.flush)
}

func (w *Watcher) matches(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}

// flush delivers the pending batch
func (w *Watcher) flush() {
	w.mu.Lock()
	if w.closed || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	batch := make([]string, 0, len(w.pending))
	for p := range w.pending {
		batch = append(batch, p)
	}
	w.pending = make(map[string]bool)
	w.timer = nil
	w.mu.Unlock()

	sort.Strings(batch)
	select {
	case w.changes <- batch:
	case <-w.done:
	default:
		// Consumer is still busy with earlier batches; the next re-check covers these too
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
		// Error channel full, drop the error
	}
}

// Changes returns the channel of changed-file batches
func (w *Watcher) Changes() <-chan []string {
	return w.changes
}

// Errors returns the channel for receiving watcher errors
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and releases resources. It is safe to call twice.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	return w.watcher.Close()
}
