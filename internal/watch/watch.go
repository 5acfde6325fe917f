// Package watch reports filesystem changes next to bookmarked assets so the
// bookmark view can drop or restore rows without a manual refresh.
package watch

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Change is a coalesced notification that something in a watched
// directory was created, removed or renamed.
type Change struct {
	Path string // first path that changed since the last receive
}

// Watcher watches the directories that contain a set of asset paths.
type Watcher struct {
	mu   sync.Mutex
	fs   *fsnotify.Watcher
	dirs map[string]bool

	changes chan Change
}

// New creates a Watcher. Call Run to start delivering changes.
func New() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fs:      fw,
		dirs:    make(map[string]bool),
		changes: make(chan Change, 1),
	}, nil
}

// Changes returns the channel changes are delivered on. At most one change
// is pending at a time.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Dirs returns the currently watched directories, sorted.
func (w *Watcher) Dirs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]string, 0, len(w.dirs))
	for d := range w.dirs {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// SetPaths replaces the watched set with the parent directories of paths.
// When a parent is missing its nearest existing ancestor is watched
// instead, so restoring a whole folder is still seen.
func (w *Watcher) SetPaths(paths []string) error {
	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		if dir, ok := existingDir(filepath.Dir(p)); ok {
			want[dir] = true
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for dir := range w.dirs {
		if want[dir] {
			continue
		}
		if err := w.fs.Remove(dir); err != nil {
			log.Printf("watch: cannot stop watching %s: %v", dir, err)
		}
		delete(w.dirs, dir)
	}

	for dir := range want {
		if w.dirs[dir] {
			continue
		}
		if err := w.fs.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	return nil
}

// existingDir walks up from dir to the first directory that exists.
func existingDir(dir string) (string, bool) {
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Run forwards relevant events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			select {
			case w.changes <- Change{Path: event.Name}:
			default:
				// A change is already pending.
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)
		}
	}
}

// relevant reports whether an event can change asset validity. Plain
// writes do not.
func relevant(e fsnotify.Event) bool {
	return e.Has(fsnotify.Create) || e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename)
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
