package tui_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/abm/internal/asset"
	"github.com/nikbrunner/abm/internal/bookmark"
	"github.com/nikbrunner/abm/internal/history"
	"github.com/nikbrunner/abm/internal/storage"
	"github.com/nikbrunner/abm/internal/tui"
	"github.com/nikbrunner/abm/internal/view"
	"gotest.tools/v3/assert"
)

// recordingHost records desktop actions by reference.
type recordingHost struct {
	located []string
	opened  []string
}

func (h *recordingHost) Locate(a asset.Asset) error {
	h.located = append(h.located, string(a.Ref))
	return nil
}

func (h *recordingHost) Open(a asset.Asset) error {
	h.opened = append(h.opened, string(a.Ref))
	return nil
}

// fixture is a project on disk with a store, journal and session.
type fixture struct {
	root     string
	registry *asset.FSRegistry
	store    *bookmark.Store
	journal  *history.Journal
	session  *storage.Session
	host     *recordingHost
	copied   []string
}

// newFixture creates the given files in a temp project. Names ending in
// "/" become directories.
func newFixture(t *testing.T, files ...string) *fixture {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if strings.HasSuffix(f, "/") {
			assert.NilError(t, os.MkdirAll(p, 0755))
			continue
		}
		assert.NilError(t, os.MkdirAll(filepath.Dir(p), 0755))
		assert.NilError(t, os.WriteFile(p, []byte("x"), 0644))
	}

	reg, err := asset.NewFSRegistry(root)
	assert.NilError(t, err)
	store, err := bookmark.Open(storage.NewJSONStorage(storage.ProjectJSONPath(root)), reg)
	assert.NilError(t, err)
	journal := history.New(store, 0)
	store.SetRecorder(journal)

	return &fixture{
		root:     root,
		registry: reg,
		store:    store,
		journal:  journal,
		session:  storage.OpenSession(storage.ProjectSessionPath(root)),
		host:     &recordingHost{},
	}
}

func (f *fixture) bookmark(t *testing.T, refs ...string) {
	t.Helper()
	for _, r := range refs {
		_, _, err := f.store.Add(asset.Ref(r))
		assert.NilError(t, err)
	}
}

func (f *fixture) app(confirm bool, cols []view.Column) tui.App {
	v := view.New(f.store, f.host, view.Options{
		Columns: cols,
		Search:  f.session.GetString(storage.SessionKeySearch, ""),
	})
	return tui.NewApp(tui.AppParams{
		Store:         f.store,
		View:          v,
		Journal:       f.journal,
		Registry:      f.registry,
		Session:       f.session,
		ConfirmRemove: confirm,
		Clipboard: func(s string) error {
			f.copied = append(f.copied, s)
			return nil
		},
	}).WithDimensions(80, 24)
}

// sampleFixture bookmarks a folder and three files. Display order is
// Textures, hero.png, level.scene, Zeta.mat.
func sampleFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t, "Textures/", "hero.png", "level.scene", "Zeta.mat", "unbookmarked.txt")
	f.bookmark(t, "level.scene", "Zeta.mat", "Textures", "hero.png")
	return f
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, app tui.App, msgs ...tea.Msg) tui.App {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := app.Update(msg)
		app = updated.(tui.App)
	}
	return app
}

func typeText(t *testing.T, app tui.App, text string) tui.App {
	t.Helper()
	for _, r := range text {
		app = send(t, app, runes(string(r)))
	}
	return app
}

func currentName(t *testing.T, app tui.App) string {
	t.Helper()
	row, ok := app.CurrentRow()
	assert.Assert(t, ok, "no row under cursor")
	return row.Name
}

func message(app tui.App) string {
	text, _ := app.Message()
	return text
}
