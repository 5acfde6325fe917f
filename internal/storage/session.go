package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Session keeps small UI state (search text and the like) between runs.
// Values live next to the bookmarks, one JSON object per project.
type Session struct {
	path   string
	values map[string]string
}

// SessionKeySearch is the key the bookmark view stores its search text under.
const SessionKeySearch = "view.search"

// OpenSession loads the session file, starting empty if it is missing or
// unreadable.
func OpenSession(path string) *Session {
	s := &Session{path: path, values: map[string]string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s.values); err != nil || s.values == nil {
		s.values = map[string]string{}
	}
	return s
}

// ProjectSessionPath returns <project>/UserSettings/abm/session.json.
func ProjectSessionPath(projectRoot string) string {
	return filepath.Join(ProjectSettingsDir(projectRoot), "session.json")
}

// GetString returns the stored value or def if the key is unset.
func (s *Session) GetString(key, def string) string {
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// SetString stores a value and writes the session file.
func (s *Session) SetString(key, value string) error {
	if cur, ok := s.values[key]; ok && cur == value {
		return nil
	}
	s.values[key] = value

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Delete removes a key. Missing keys are ignored.
func (s *Session) Delete(key string) error {
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
