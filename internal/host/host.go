// Package host performs the desktop-side actions on a bookmarked asset.
package host

import (
	"fmt"
	"path/filepath"

	"github.com/cli/browser"
	"github.com/nikbrunner/abm/internal/asset"
)

// Desktop opens assets with the operating system's default handlers.
type Desktop struct {
	openFile func(path string) error
}

// NewDesktop returns a Desktop backed by the system opener.
func NewDesktop() *Desktop {
	return &Desktop{openFile: browser.OpenFile}
}

// Locate reveals the asset in the system file manager by opening the
// directory that contains it.
func (d *Desktop) Locate(a asset.Asset) error {
	if err := d.openFile(filepath.Dir(a.Path)); err != nil {
		return fmt.Errorf("locate %s: %w", a.Ref, err)
	}
	return nil
}

// Open opens the asset in its default application. Directories are not
// opened; use Locate for them.
func (d *Desktop) Open(a asset.Asset) error {
	if a.IsDir {
		return nil
	}
	if err := d.openFile(a.Path); err != nil {
		return fmt.Errorf("open %s: %w", a.Ref, err)
	}
	return nil
}
