package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds application configuration.
type Config struct {
	Backend           string   `json:"backend"`
	CaseSensitiveSort bool     `json:"caseSensitiveSort"`
	Columns           []string `json:"columns"`
	WatchAssets       *bool    `json:"watchAssets"`
	ConfirmRemove     bool     `json:"confirmRemove"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	watch := true
	return Config{
		Backend:           BackendJSON,
		CaseSensitiveSort: false,
		Columns:           []string{"ping", "name", "open", "remove"},
		WatchAssets:       &watch,
		ConfirmRemove:     false,
	}
}

// ShouldWatchAssets reports whether the TUI should watch bookmarked assets.
func (c Config) ShouldWatchAssets() bool {
	return c.WatchAssets == nil || *c.WatchAssets
}

// LoadConfig reads config from the JSON file.
// Creates the file with defaults if it doesn't exist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := DefaultConfig()
			// Non-fatal: return defaults even if save fails
			_ = SaveConfig(path, &config)
			return &config, nil
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig()
	if config.Backend == "" {
		config.Backend = defaults.Backend
	}
	if config.Columns == nil {
		config.Columns = defaults.Columns
	}
	if config.WatchAssets == nil {
		config.WatchAssets = defaults.WatchAssets
	}

	return &config, nil
}

// SaveConfig writes config to the JSON file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfigFilePath returns the default config path: ~/.config/abm/config.json
func DefaultConfigFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "abm", "config.json"), nil
}
