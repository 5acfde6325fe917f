// Package history is the undo/redo facility for the bookmark list.
package history

import (
	"github.com/nikbrunner/abm/internal/model"
	"github.com/nikbrunner/abm/internal/notify"
)

// DefaultLimit bounds how many undo steps are kept.
const DefaultLimit = 50

// Target is the store the journal restores into.
type Target interface {
	Snapshot() model.Collection
	Restore(c model.Collection) error
}

// Journal keeps bounded undo and redo stacks of collection snapshots and
// fires its signal after every performed undo or redo.
type Journal struct {
	target    Target
	limit     int
	undo      []model.Collection
	redo      []model.Collection
	performed notify.Broadcaster
}

// New creates a Journal restoring into target. A limit below 1 uses
// DefaultLimit.
func New(target Target, limit int) *Journal {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Journal{target: target, limit: limit}
}

// Record pushes the state before a mutation and clears the redo stack.
func (j *Journal) Record(before model.Collection) {
	j.undo = append(j.undo, before)
	if len(j.undo) > j.limit {
		j.undo = j.undo[len(j.undo)-j.limit:]
	}
	j.redo = nil
}

// Subscribe registers fn to run after each undo or redo.
func (j *Journal) Subscribe(fn func()) notify.Subscription {
	return j.performed.Subscribe(fn)
}

// CanUndo reports whether an undo step is available.
func (j *Journal) CanUndo() bool { return len(j.undo) > 0 }

// CanRedo reports whether a redo step is available.
func (j *Journal) CanRedo() bool { return len(j.redo) > 0 }

// Undo restores the previous state. Returns false when there is nothing to undo.
func (j *Journal) Undo() (bool, error) {
	if len(j.undo) == 0 {
		return false, nil
	}
	prev := j.undo[len(j.undo)-1]
	current := j.target.Snapshot()

	if err := j.target.Restore(prev); err != nil {
		return false, err
	}
	j.undo = j.undo[:len(j.undo)-1]
	j.redo = append(j.redo, current)
	j.performed.Fire()
	return true, nil
}

// Redo reapplies the last undone state. Returns false when there is nothing to redo.
func (j *Journal) Redo() (bool, error) {
	if len(j.redo) == 0 {
		return false, nil
	}
	next := j.redo[len(j.redo)-1]
	current := j.target.Snapshot()

	if err := j.target.Restore(next); err != nil {
		return false, err
	}
	j.redo = j.redo[:len(j.redo)-1]
	j.undo = append(j.undo, current)
	j.performed.Fire()
	return true, nil
}
