// Package bookmark owns the bookmark list of one project: every mutation
// is persisted and then broadcast to subscribers.
package bookmark

import (
	"fmt"

	"github.com/nikbrunner/abm/internal/asset"
	"github.com/nikbrunner/abm/internal/model"
	"github.com/nikbrunner/abm/internal/notify"
	"github.com/nikbrunner/abm/internal/storage"
)

// Recorder receives the state before each effective mutation.
type Recorder interface {
	Record(before model.Collection)
}

// Store is the process-wide bookmark list. Construct it once and pass it to
// every consumer. It is not safe for concurrent use.
type Store struct {
	data     *model.Collection
	storage  storage.Storage
	registry asset.Registry
	changed  notify.Broadcaster
	recorder Recorder
}

// Open loads the persisted collection and returns a ready Store.
func Open(st storage.Storage, reg asset.Registry) (*Store, error) {
	data, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}
	return &Store{data: data, storage: st, registry: reg}, nil
}

// Registry returns the asset registry entries are resolved against.
func (s *Store) Registry() asset.Registry {
	return s.registry
}

// SetRecorder installs a hook that sees the pre-mutation snapshot of every
// mutation that changes the list. Pass nil to remove it.
func (s *Store) SetRecorder(r Recorder) {
	s.recorder = r
}

// Subscribe registers fn to run after every successful save.
func (s *Store) Subscribe(fn func()) notify.Subscription {
	return s.changed.Subscribe(fn)
}

// Entries returns a copy of the entries in stored order.
func (s *Store) Entries() []model.Entry {
	out := make([]model.Entry, len(s.data.Entries))
	copy(out, s.data.Entries)
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.data.Entries)
}

// Snapshot returns a deep copy of the current collection.
func (s *Store) Snapshot() model.Collection {
	return s.data.Clone()
}

// Contains reports whether an entry with the given ID exists.
func (s *Store) Contains(id int) bool {
	return s.data.ContainsID(id)
}

// ContainsRef reports whether ref is bookmarked.
func (s *Store) ContainsRef(ref asset.Ref) bool {
	return s.data.ContainsRef(ref)
}

// Get returns the entry with the given ID.
func (s *Store) Get(id int) (model.Entry, bool) {
	e := s.data.GetByID(id)
	if e == nil {
		return model.Entry{}, false
	}
	return *e, true
}

// Add bookmarks ref. A reference already in the list is not added again;
// the existing entry is returned with false and nothing is written.
func (s *Store) Add(ref asset.Ref) (model.Entry, bool, error) {
	var added model.Entry
	var ok bool
	err := s.mutate(func(c *model.Collection) bool {
		added, ok = c.Add(ref)
		return ok
	})
	if err != nil {
		return model.Entry{}, false, err
	}
	return added, ok, nil
}

// Remove deletes the entry with the given ID. Absent IDs are a no-op.
func (s *Store) Remove(id int) error {
	return s.mutate(func(c *model.Collection) bool {
		return c.RemoveID(id)
	})
}

// RemoveRef deletes the first entry wrapping ref. Absent refs are a no-op.
func (s *Store) RemoveRef(ref asset.Ref) error {
	return s.mutate(func(c *model.Collection) bool {
		return c.RemoveRef(ref)
	})
}

// Prune removes every entry whose asset no longer resolves. It writes and
// broadcasts only when something was removed.
func (s *Store) Prune() (bool, error) {
	var changed bool
	err := s.mutate(func(c *model.Collection) bool {
		changed = c.Prune(s.registry)
		return changed
	})
	return changed, err
}

// ReplaceRefs sets the list to refs, keeping IDs of surviving entries.
func (s *Store) ReplaceRefs(refs []asset.Ref) (bool, error) {
	var changed bool
	err := s.mutate(func(c *model.Collection) bool {
		changed = c.ReplaceRefs(refs)
		return changed
	})
	return changed, err
}

// Restore replaces the whole collection, for undo and redo. It is never
// passed to the recorder.
func (s *Store) Restore(c model.Collection) error {
	restored := c.Clone()
	if restored.Entries == nil {
		restored.Entries = []model.Entry{}
	}
	return s.commit(&restored)
}

// Save persists the current state and notifies subscribers.
func (s *Store) Save() error {
	return s.commit(s.data)
}

// commit persists next and only then makes it the current state and
// broadcasts. A failed save leaves the store untouched.
func (s *Store) commit(next *model.Collection) error {
	if err := s.storage.Save(next); err != nil {
		return fmt.Errorf("save bookmarks: %w", err)
	}
	s.data = next
	s.changed.Fire()
	return nil
}

// mutate applies fn to a working copy. Only when fn reports a change is the
// copy saved, committed, recorded and broadcast.
func (s *Store) mutate(fn func(c *model.Collection) bool) error {
	before := s.data.Clone()
	work := s.data.Clone()
	if !fn(&work) {
		return nil
	}

	if err := s.storage.Save(&work); err != nil {
		return fmt.Errorf("save bookmarks: %w", err)
	}
	s.data = &work
	if s.recorder != nil {
		s.recorder.Record(before)
	}
	s.changed.Fire()
	return nil
}
