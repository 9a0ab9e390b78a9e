// Package watch drives re-analysis on filesystem change. A TreeWatcher
// observes a project root recursively, skips excluded directories, and
// coalesces bursts of events into a single change notification.
package watch

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/harrison/treescout/internal/exclusion"
	"github.com/harrison/treescout/internal/pathmatch"
)

// DefaultDebounceDelay is the default delay for coalescing rapid events
const DefaultDebounceDelay = 500 * time.Millisecond

// ChangeSet is one coalesced batch of filesystem changes under the root
type ChangeSet struct {
	Paths     []string // Root-relative paths, sorted, deduplicated
	Timestamp time.Time
}

// TreeWatcher watches a directory tree and reports debounced change
// batches. Directories excluded by the rule set are never watched, so
// churning build output does not trigger re-analysis.
type TreeWatcher struct {
	watcher *fsnotify.Watcher
	changes chan ChangeSet
	errors  chan error
	done    chan struct{}
	root    string
	rules   *exclusion.RuleSet

	mu            sync.Mutex
	debounceDelay time.Duration
	pending       map[string]struct{}
	timer         *time.Timer
	closed        bool
}

// NewTreeWatcher creates a TreeWatcher rooted at root. A nil rules set
// watches everything.
func NewTreeWatcher(root string, rules *exclusion.RuleSet) (*TreeWatcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	tw := &TreeWatcher{
		watcher:       watcher,
		changes:       make(chan ChangeSet, 10),
		errors:        make(chan error, 10),
		done:          make(chan struct{}),
		root:          abs,
		rules:         rules,
		debounceDelay: DefaultDebounceDelay,
		pending:       make(map[string]struct{}),
	}

	if err := tw.addRecursive(abs); err != nil {
		watcher.Close()
		return nil, err
	}

	go tw.processEvents()

	return tw, nil
}

// addRecursive adds dir and all non-excluded subdirectories to the watcher
func (tw *TreeWatcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		if !info.IsDir() {
			return nil
		}

		if path != tw.root && tw.isExcluded(path) {
			return filepath.SkipDir
		}

		if err := tw.watcher.Add(path); err != nil {
			// Ignore permission errors for directories we can't access
			if os.IsPermission(err) {
				return filepath.SkipDir
			}
			return err
		}

		return nil
	})
}

// isExcluded checks the root-relative path against the rule set
func (tw *TreeWatcher) isExcluded(path string) bool {
	if tw.rules == nil {
		return false
	}
	rel, err := filepath.Rel(tw.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	return tw.rules.IsExcluded(pathmatch.Normalize(rel), exclusion.TargetDir)
}

// processEvents drains fsnotify events until the watcher is closed
func (tw *TreeWatcher) processEvents() {
	for {
		select {
		case <-tw.done:
			return
		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			tw.handleEvent(event)
		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case tw.errors <- err:
			default:
				// Error channel full, drop the error
			}
		}
	}
}

// handleEvent records one fsnotify event into the pending batch
func (tw *TreeWatcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// New directories join the watch set, unless excluded.
	if event.Has(fsnotify.Create) {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() && !tw.isExcluded(path) {
			if err := tw.addRecursive(path); err != nil {
				select {
				case tw.errors <- err:
				default:
				}
			}
		}
	}

	if event.Op == fsnotify.Chmod {
		return
	}
	if tw.isExcluded(filepath.Dir(path)) || tw.isExcluded(path) {
		return
	}

	rel, err := filepath.Rel(tw.root, path)
	if err != nil {
		return
	}

	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.closed {
		return
	}

	tw.pending[pathmatch.Normalize(rel)] = struct{}{}

	// Restart the debounce window on every event so a burst flushes once.
	if tw.timer != nil {
		tw.timer.Stop()
	}
	tw.timer = time.AfterFunc(tw.debounceDelay, tw.flush)
}

// flush emits the accumulated batch as one ChangeSet
func (tw *TreeWatcher) flush() {
	tw.mu.Lock()
	if tw.closed || len(tw.pending) == 0 {
		tw.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(tw.pending))
	for p := range tw.pending {
		paths = append(paths, p)
	}
	tw.pending = make(map[string]struct{})
	tw.mu.Unlock()

	sort.Strings(paths)
	cs := ChangeSet{Paths: paths, Timestamp: time.Now()}

	select {
	case tw.changes <- cs:
	case <-tw.done:
	default:
		// Changes channel full, drop the batch
	}
}

// Changes returns the channel for receiving coalesced change batches
func (tw *TreeWatcher) Changes() <-chan ChangeSet {
	return tw.changes
}

// Errors returns the channel for receiving errors
func (tw *TreeWatcher) Errors() <-chan error {
	return tw.errors
}

// Root returns the absolute root directory being watched
func (tw *TreeWatcher) Root() string {
	return tw.root
}

// SetDebounceDelay sets the coalescing window. Call before events start
// arriving.
func (tw *TreeWatcher) SetDebounceDelay(delay time.Duration) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.debounceDelay = delay
}

// Close stops the watcher and releases resources
func (tw *TreeWatcher) Close() error {
	tw.mu.Lock()
	if tw.closed {
		tw.mu.Unlock()
		return nil
	}
	tw.closed = true
	if tw.timer != nil {
		tw.timer.Stop()
	}
	tw.pending = nil
	tw.mu.Unlock()

	close(tw.done)
	return tw.watcher.Close()
}
