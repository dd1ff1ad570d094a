package registry

import (
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"dashview/probe"

	"github.com/fsnotify/fsnotify"
)

// Entry is one candidate event folder under the library root
type Entry struct {
	Path        string `json:"path"`
	DisplayName string `json:"displayName"`
}

// folderNamePattern matches event folder names; the embedded timestamp
// sorts lexicographically the same as chronologically.
var folderNamePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}$`)

// Registry scans the library root for event folders and serves the
// ordered, filtered list driving folder selection
type Registry struct {
	root     string
	debounce time.Duration

	mu      sync.Mutex
	entries []Entry

	// filterSeq orders filter requests; only the most recent request's
	// result is applied, superseded results are discarded.
	filterSeq atomic.Uint64

	watcher *fsnotify.Watcher
	stop    chan struct{}
}

// New creates a registry over the given library root
func New(root string, debounce time.Duration) *Registry {
	if debounce <= 0 {
		debounce = 120 * time.Millisecond
	}
	return &Registry{root: root, debounce: debounce}
}

// Scan rebuilds the entry list: direct subdirectories whose name matches
// the timestamp pattern and which contain at least one media file, ordered
// newest-first. An empty root yields an empty list, not an error.
func (r *Registry) Scan() error {
	dirEntries, err := os.ReadDir(r.root)
	if err != nil {
		return err
	}

	var entries []Entry
	for _, dirEntry := range dirEntries {
		if !dirEntry.IsDir() {
			continue
		}
		name := dirEntry.Name()
		if !folderNamePattern.MatchString(name) {
			continue
		}
		path := filepath.Join(r.root, name)
		if !containsMedia(path) {
			continue
		}
		entries = append(entries, Entry{Path: path, DisplayName: name})
	}

	// Newest first; lexicographic descending is chronological descending
	// for these names
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].DisplayName > entries[j].DisplayName
	})

	r.mu.Lock()
	r.entries = entries
	r.mu.Unlock()

	log.Printf("Registry scan: %d event folders under %s", len(entries), r.root)
	return nil
}

// containsMedia is a cheap existence check, not a full parse
func containsMedia(dir string) bool {
	files, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, file := range files {
		if !file.IsDir() && probe.IsMP4File(file.Name()) {
			return true
		}
	}
	return false
}

// Entries returns the full scan result, newest-first
func (r *Registry) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Filter returns the entries whose display name contains the query,
// case-insensitively, as a derived view. The base list is never mutated;
// an empty query returns the full list.
func (r *Registry) Filter(query string) []Entry {
	all := r.Entries()
	if query == "" {
		return all
	}

	needle := strings.ToLower(query)
	filtered := make([]Entry, 0, len(all))
	for _, entry := range all {
		if strings.Contains(strings.ToLower(entry.DisplayName), needle) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// FilterAsync debounces a filter request and delivers the result to apply
// on a separate goroutine. A request superseded by a newer one before its
// debounce elapses is discarded without running.
func (r *Registry) FilterAsync(query string, apply func([]Entry)) {
	seq := r.filterSeq.Add(1)

	go func() {
		time.Sleep(r.debounce)
		if r.filterSeq.Load() != seq {
			return
		}
		result := r.Filter(query)
		if r.filterSeq.Load() != seq {
			return
		}
		apply(result)
	}()
}

// Watch starts an fsnotify watcher on the library root that folds folder
// creations and removals into a rescan
func (r *Registry) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(r.root); err != nil {
		watcher.Close()
		return err
	}

	r.watcher = watcher
	r.stop = make(chan struct{})

	go func() {
		// Coalesce bursts of events (a folder being copied in) into one
		// rescan
		var pending *time.Timer
		rescan := func() {
			if err := r.Scan(); err != nil {
				log.Printf("Registry rescan after fs event failed: %v", err)
			}
		}

		for {
			select {
			case <-r.stop:
				if pending != nil {
					pending.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(500*time.Millisecond, rescan)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("Registry watcher error: %v", err)
			}
		}
	}()

	log.Printf("Watching %s for new event folders", r.root)
	return nil
}

// Close stops the watcher
func (r *Registry) Close() {
	if r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
	if r.watcher != nil {
		r.watcher.Close()
		r.watcher = nil
	}
}
