package model

import "github.com/nikbrunner/abm/internal/asset"

// Collection holds the ordered bookmark entries of one project.
type Collection struct {
	NextID  int     `json:"nextId"`
	Entries []Entry `json:"entries"`
}

// NewCollection creates an empty Collection with initialized slices.
func NewCollection() *Collection {
	return &Collection{
		NextID:  1,
		Entries: []Entry{},
	}
}

// Clone returns a deep copy safe to keep as a snapshot.
func (c *Collection) Clone() Collection {
	entries := make([]Entry, len(c.Entries))
	copy(entries, c.Entries)
	return Collection{NextID: c.NextID, Entries: entries}
}

// allocID hands out the next entry ID, skipping any already in use.
func (c *Collection) allocID() int {
	if c.NextID < 1 {
		c.NextID = 1
	}
	for c.ContainsID(c.NextID) {
		c.NextID++
	}
	id := c.NextID
	c.NextID++
	return id
}

// Add appends a new entry for ref, stored in its canonical spelling.
// References already present are not added twice; the existing entry is
// returned with false.
func (c *Collection) Add(ref asset.Ref) (Entry, bool) {
	ref = asset.CleanRef(ref)
	if i := c.IndexOfRef(ref); i >= 0 {
		return c.Entries[i], false
	}
	e := NewEntry(c.allocID(), ref)
	c.Entries = append(c.Entries, e)
	return e, true
}

// IndexOfID returns the position of the entry with the given ID, or -1.
func (c *Collection) IndexOfID(id int) int {
	for i := range c.Entries {
		if c.Entries[i].ID == id {
			return i
		}
	}
	return -1
}

// IndexOfRef returns the position of the first entry wrapping ref, or -1.
// Equivalent spellings of a reference match.
func (c *Collection) IndexOfRef(ref asset.Ref) int {
	ref = asset.CleanRef(ref)
	for i := range c.Entries {
		if asset.CleanRef(c.Entries[i].Ref) == ref {
			return i
		}
	}
	return -1
}

// ContainsID reports whether an entry with the given ID exists.
func (c *Collection) ContainsID(id int) bool {
	return c.IndexOfID(id) >= 0
}

// ContainsRef reports whether an entry wraps ref.
func (c *Collection) ContainsRef(ref asset.Ref) bool {
	return c.IndexOfRef(ref) >= 0
}

// GetByID finds an entry by ID, returns nil if not found.
func (c *Collection) GetByID(id int) *Entry {
	if i := c.IndexOfID(id); i >= 0 {
		return &c.Entries[i]
	}
	return nil
}

// RemoveID removes the entry with the given ID. Returns false if absent.
func (c *Collection) RemoveID(id int) bool {
	return c.removeAt(c.IndexOfID(id))
}

// RemoveRef removes the first entry wrapping ref. Returns false if absent.
func (c *Collection) RemoveRef(ref asset.Ref) bool {
	return c.removeAt(c.IndexOfRef(ref))
}

func (c *Collection) removeAt(i int) bool {
	if i < 0 || i >= len(c.Entries) {
		return false
	}
	c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)
	return true
}

// Prune drops every entry that no longer resolves. The scan runs back to
// front so removal indices stay valid. Returns whether anything was removed.
func (c *Collection) Prune(reg asset.Registry) bool {
	changed := false
	for i := len(c.Entries) - 1; i >= 0; i-- {
		if !c.Entries[i].IsValid(reg) {
			c.removeAt(i)
			changed = true
		}
	}
	return changed
}

// Refs returns the wrapped references in order.
func (c *Collection) Refs() []asset.Ref {
	refs := make([]asset.Ref, len(c.Entries))
	for i, e := range c.Entries {
		refs[i] = e.Ref
	}
	return refs
}

// ReplaceRefs sets the collection to exactly refs, in order. Entries whose
// reference survives keep their ID. References are stored in their
// canonical spelling; duplicates and empty references are dropped. A change is reported when the count differs or any position
// differs.
func (c *Collection) ReplaceRefs(refs []asset.Ref) bool {
	old := c.Entries
	byRef := make(map[asset.Ref]Entry, len(old))
	for _, e := range old {
		key := asset.CleanRef(e.Ref)
		if _, seen := byRef[key]; !seen {
			byRef[key] = e
		}
	}

	next := make([]Entry, 0, len(refs))
	seen := make(map[asset.Ref]bool, len(refs))
	for _, ref := range refs {
		ref = asset.CleanRef(ref)
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		if e, ok := byRef[ref]; ok {
			e.Ref = ref
			next = append(next, e)
			continue
		}
		next = append(next, Entry{Ref: ref})
	}

	dirty := len(next) != len(old)
	for i := range next {
		if !dirty && next[i].Ref != old[i].Ref {
			dirty = true
		}
	}
	if !dirty {
		return false
	}

	c.Entries = next
	for i := range c.Entries {
		if c.Entries[i].ID == 0 {
			c.Entries[i].ID = c.allocID()
		}
	}
	return true
}
