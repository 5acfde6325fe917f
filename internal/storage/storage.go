package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nikbrunner/abm/internal/model"
)

// Storage defines the interface for persisting bookmarks.
type Storage interface {
	Load() (*model.Collection, error)
	Save(c *model.Collection) error
}

// Per-project locations, relative to the project root.
const (
	settingsDir  = "UserSettings/abm"
	jsonFileName = "bookmarks.json"
	dbFileName   = "bookmarks.db"
)

// Backend names accepted in Config.Backend.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// JSONStorage implements Storage using a JSON file.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Load reads the collection from the JSON file.
// Returns an empty collection if the file doesn't exist.
func (s *JSONStorage) Load() (*model.Collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewCollection(), nil
		}
		return nil, err
	}

	var c model.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	if c.Entries == nil {
		c.Entries = []model.Entry{}
	}
	normalizeNextID(&c)

	return &c, nil
}

// Save writes the collection to the JSON file.
// Writes to a temp file first so a crash never leaves a truncated file.
func (s *JSONStorage) Save(c *model.Collection) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// normalizeNextID keeps the ID counter ahead of every stored entry so files
// edited by hand cannot produce colliding IDs.
func normalizeNextID(c *model.Collection) {
	maxID := 0
	for _, e := range c.Entries {
		if e.ID > maxID {
			maxID = e.ID
		}
	}
	if c.NextID <= maxID {
		c.NextID = maxID + 1
	}
}

// ProjectJSONPath returns <project>/UserSettings/abm/bookmarks.json.
func ProjectJSONPath(projectRoot string) string {
	return filepath.Join(projectRoot, filepath.FromSlash(settingsDir), jsonFileName)
}

// ProjectSQLitePath returns <project>/UserSettings/abm/bookmarks.db.
func ProjectSQLitePath(projectRoot string) string {
	return filepath.Join(projectRoot, filepath.FromSlash(settingsDir), dbFileName)
}

// ProjectSettingsDir returns the directory holding all per-project state.
func ProjectSettingsDir(projectRoot string) string {
	return filepath.Join(projectRoot, filepath.FromSlash(settingsDir))
}

// OpenStorage opens the appropriate storage backend for a project.
// An existing SQLite database always wins; otherwise the configured backend
// is used, falling back to JSON.
func OpenStorage(projectRoot string, backend string) (Storage, error) {
	sqlitePath := ProjectSQLitePath(projectRoot)

	if _, err := os.Stat(sqlitePath); err == nil || backend == BackendSQLite {
		return NewSQLiteStorage(sqlitePath)
	}

	return NewJSONStorage(ProjectJSONPath(projectRoot)), nil
}

// Close releases backend resources if the storage holds any.
func Close(s Storage) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
