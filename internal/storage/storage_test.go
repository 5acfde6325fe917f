package storage_test

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nikbrunner/abm/internal/asset"
	"github.com/nikbrunner/abm/internal/model"
	"github.com/nikbrunner/abm/internal/storage"
	"gotest.tools/v3/assert"
)

var sampleRefs = []asset.Ref{"Assets/Third.txt", "Assets/First.txt", "Assets/Scenes"}

func sampleCollection() *model.Collection {
	return &model.Collection{
		NextID: 4,
		Entries: []model.Entry{
			{ID: 3, Ref: "Assets/Third.txt"},
			{ID: 1, Ref: "Assets/First.txt"},
			{ID: 2, Ref: "Assets/Scenes"},
		},
	}
}

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bookmarks.json")

	s := storage.NewJSONStorage(path)
	if err := s.Save(sampleCollection()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("bookmark file was not created")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should not survive a save")
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if got := loaded.Refs(); !slices.Equal(got, sampleRefs) {
		t.Errorf("expected refs %v, got %v", sampleRefs, got)
	}
	if loaded.NextID != 4 {
		t.Errorf("expected NextID 4, got %d", loaded.NextID)
	}
}

func TestJSONStorage_LoadNonexistent(t *testing.T) {
	s := storage.NewJSONStorage(filepath.Join(t.TempDir(), "nonexistent.json"))
	c, err := s.Load()
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if len(c.Entries) != 0 {
		t.Error("expected empty collection for missing file")
	}
	if c.NextID != 1 {
		t.Errorf("expected NextID 1, got %d", c.NextID)
	}
}

func TestJSONStorage_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "bookmarks.json")

	s := storage.NewJSONStorage(path)
	if err := s.Save(model.NewCollection()); err != nil {
		t.Fatalf("failed to save with nested dir: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("bookmark file was not created in nested directory")
	}
}

func TestJSONStorage_RepairsNextID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	hand := `{"entries":[{"id":7,"ref":"a"},{"id":2,"ref":"b"}]}`
	if err := os.WriteFile(path, []byte(hand), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := storage.NewJSONStorage(path).Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if c.NextID != 8 {
		t.Errorf("expected NextID repaired to 8, got %d", c.NextID)
	}
}

func TestJSONStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := storage.NewJSONStorage(path).Load()
	if err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestOpenStorage_PrefersExistingDatabase(t *testing.T) {
	root := t.TempDir()

	s, err := storage.OpenStorage(root, storage.BackendJSON)
	assert.NilError(t, err)
	if _, ok := s.(*storage.JSONStorage); !ok {
		t.Fatalf("expected JSON storage, got %T", s)
	}

	db, err := storage.OpenStorage(root, storage.BackendSQLite)
	assert.NilError(t, err)
	if _, ok := db.(*storage.SQLiteStorage); !ok {
		t.Fatalf("expected SQLite storage, got %T", db)
	}
	assert.NilError(t, storage.Close(db))

	// Database now exists, so it wins over the configured JSON backend.
	again, err := storage.OpenStorage(root, storage.BackendJSON)
	assert.NilError(t, err)
	defer storage.Close(again)
	if _, ok := again.(*storage.SQLiteStorage); !ok {
		t.Errorf("expected existing database to win, got %T", again)
	}
}

func TestProjectPaths(t *testing.T) {
	root := filepath.Join("home", "me", "game")
	assert.Equal(t, storage.ProjectJSONPath(root), filepath.Join(root, "UserSettings", "abm", "bookmarks.json"))
	assert.Equal(t, storage.ProjectSQLitePath(root), filepath.Join(root, "UserSettings", "abm", "bookmarks.db"))
	assert.Equal(t, storage.ProjectSessionPath(root), filepath.Join(root, "UserSettings", "abm", "session.json"))
}

func TestLoadConfig_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abm", "config.json")

	cfg, err := storage.LoadConfig(path)
	assert.NilError(t, err)
	assert.Equal(t, cfg.Backend, storage.BackendJSON)
	assert.DeepEqual(t, cfg.Columns, []string{"ping", "name", "open", "remove"})
	assert.Assert(t, cfg.ShouldWatchAssets())

	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file should have been written: %v", err)
	}
}

func TestLoadConfig_FillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	assert.NilError(t, os.WriteFile(path, []byte(`{"caseSensitiveSort":true,"watchAssets":false}`), 0644))

	cfg, err := storage.LoadConfig(path)
	assert.NilError(t, err)
	assert.Assert(t, cfg.CaseSensitiveSort)
	assert.Assert(t, !cfg.ShouldWatchAssets())
	assert.Equal(t, cfg.Backend, storage.BackendJSON)
	assert.Equal(t, len(cfg.Columns), 4)
}

func TestSession_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := storage.OpenSession(path)
	assert.Equal(t, s.GetString(storage.SessionKeySearch, "none"), "none")
	assert.NilError(t, s.SetString(storage.SessionKeySearch, "foo"))

	reopened := storage.OpenSession(path)
	assert.Equal(t, reopened.GetString(storage.SessionKeySearch, ""), "foo")

	assert.NilError(t, reopened.Delete(storage.SessionKeySearch))
	assert.Equal(t, storage.OpenSession(path).GetString(storage.SessionKeySearch, "gone"), "gone")
}
