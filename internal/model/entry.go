package model

import "github.com/nikbrunner/abm/internal/asset"

// Entry is a bookmarked reference to one asset.
// Validity and display data are queried from the registry on demand, so an
// entry survives its asset being deleted or moved.
type Entry struct {
	ID  int       `json:"id"`
	Ref asset.Ref `json:"ref"`
}

// NewEntry wraps a reference without validating it.
func NewEntry(id int, ref asset.Ref) Entry {
	return Entry{ID: id, Ref: ref}
}

// Asset resolves the entry's reference.
func (e Entry) Asset(reg asset.Registry) (asset.Asset, bool) {
	if e.Ref == "" {
		return asset.Asset{}, false
	}
	return reg.Resolve(e.Ref)
}

// IsValid reports whether the reference still resolves to a live asset.
func (e Entry) IsValid(reg asset.Registry) bool {
	_, ok := e.Asset(reg)
	return ok
}

// DisplayName returns the asset's name, or "" when the entry is invalid.
func (e Entry) DisplayName(reg asset.Registry) string {
	a, ok := e.Asset(reg)
	if !ok {
		return ""
	}
	return a.Name
}

// IsContainer reports whether the referenced asset is a directory.
func (e Entry) IsContainer(reg asset.Registry) bool {
	a, ok := e.Asset(reg)
	return ok && a.IsDir
}
