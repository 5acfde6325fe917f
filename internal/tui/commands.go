package tui

import (
	"log"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/abm/internal/watch"
)

// assetsChangedMsg is sent when something changed next to a bookmarked asset.
type assetsChangedMsg struct {
	path string
}

// waitForChange blocks until the watcher reports a change.
func waitForChange(w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-w.Changes()
		if !ok {
			return nil
		}
		return assetsChangedMsg{path: c.Path}
	}
}

// watchPaths returns the absolute path of every bookmarked reference,
// including missing ones so that restoring them is noticed.
func (a App) watchPaths() []string {
	if a.registry == nil {
		return nil
	}
	rows := a.view.Rows()
	paths := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Placeholder || r.Ref == "" {
			continue
		}
		paths = append(paths, filepath.Join(a.registry.Root(), filepath.FromSlash(string(r.Ref))))
	}
	return paths
}

// syncWatch points the watcher at the current rows after every reload.
func (a *App) syncWatch() {
	if a.watcher == nil {
		return
	}
	gen := a.view.Generation()
	if gen == a.watchedGen {
		return
	}
	if err := a.watcher.SetPaths(a.watchPaths()); err != nil {
		log.Printf("watch: %v", err)
	}
	a.watchedGen = gen
}
