package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nikbrunner/abm/internal/asset"
	"github.com/nikbrunner/abm/internal/bookmark"
	"github.com/nikbrunner/abm/internal/storage"
	"github.com/nikbrunner/abm/internal/view"
)

// cli holds the global flags and the desktop host shared by all commands.
type cli struct {
	project    string
	configPath string
	logPath    string
	host       view.Host
}

// workspace is one opened project: its config, assets and bookmarks.
type workspace struct {
	config   *storage.Config
	registry *asset.FSRegistry
	backend  storage.Storage
	store    *bookmark.Store
}

// open loads the config and the bookmark store of the selected project.
func (c *cli) open() (*workspace, error) {
	configPath := c.configPath
	if configPath == "" {
		var err error
		configPath, err = storage.DefaultConfigFilePath()
		if err != nil {
			return nil, fmt.Errorf("config path: %w", err)
		}
	}
	config, err := storage.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}

	registry, err := asset.NewFSRegistry(c.project)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(registry.Root())
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project %s is not a directory", registry.Root())
	}

	backend, err := storage.OpenStorage(registry.Root(), config.Backend)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	store, err := bookmark.Open(backend, registry)
	if err != nil {
		_ = storage.Close(backend)
		return nil, err
	}

	return &workspace{config: config, registry: registry, backend: backend, store: store}, nil
}

// Close releases the storage backend.
func (w *workspace) Close() error {
	return storage.Close(w.backend)
}

// name is the project directory name, used as a title.
func (w *workspace) name() string {
	return filepath.Base(w.registry.Root())
}

// newView builds a loaded, unattached view with the configured columns.
func (w *workspace) newView(h view.Host, search string) (*view.View, error) {
	cols, err := view.ColumnsFor(w.config.Columns)
	if err != nil {
		return nil, fmt.Errorf("config columns: %w", err)
	}
	v := view.New(w.store, h, view.Options{
		Columns:       cols,
		CaseSensitive: w.config.CaseSensitiveSort,
		Search:        search,
	})
	v.Reload()
	return v, nil
}
