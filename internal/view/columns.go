package view

import (
	"fmt"
	"strings"
)

// ColumnID identifies one column of the bookmark list.
type ColumnID string

const (
	ColumnPing   ColumnID = "ping"
	ColumnName   ColumnID = "name"
	ColumnOpen   ColumnID = "open"
	ColumnRemove ColumnID = "remove"
)

// Action is what activating a column on a row does.
type Action func(v *View, r Row) error

// Column describes one list column and the action bound to it.
type Column struct {
	ID     ColumnID
	Title  string
	Width  int // 0 = flexible
	Action Action
}

// columnTable maps every known column to its definition.
var columnTable = map[ColumnID]Column{
	ColumnPing:   {ID: ColumnPing, Title: "", Width: 3, Action: pingAction},
	ColumnName:   {ID: ColumnName, Title: "Name", Width: 0, Action: nil},
	ColumnOpen:   {ID: ColumnOpen, Title: "", Width: 6, Action: openAction},
	ColumnRemove: {ID: ColumnRemove, Title: "", Width: 3, Action: removeAction},
}

// DefaultColumns returns all columns in their default order.
func DefaultColumns() []Column {
	cols, _ := ColumnsFor([]string{"ping", "name", "open", "remove"})
	return cols
}

// ColumnsFor builds the column table from configured IDs, in order.
// The name column is required and IDs may not repeat.
func ColumnsFor(ids []string) ([]Column, error) {
	seen := make(map[ColumnID]bool, len(ids))
	cols := make([]Column, 0, len(ids))

	for _, raw := range ids {
		id := ColumnID(strings.ToLower(strings.TrimSpace(raw)))
		col, ok := columnTable[id]
		if !ok {
			return nil, fmt.Errorf("unknown column %q", raw)
		}
		if seen[id] {
			return nil, fmt.Errorf("column %q listed twice", raw)
		}
		seen[id] = true
		cols = append(cols, col)
	}

	if !seen[ColumnName] {
		return nil, fmt.Errorf("column %q is required", ColumnName)
	}
	return cols, nil
}

func pingAction(v *View, r Row) error {
	return v.host.Locate(r.Asset)
}

func openAction(v *View, r Row) error {
	if r.Container {
		return nil
	}
	return v.host.Open(r.Asset)
}

func removeAction(v *View, r Row) error {
	if err := v.source.Remove(r.ID); err != nil {
		return err
	}
	// An attached view already reloaded through the store's broadcast.
	if v.state != Ready {
		v.Reload()
	}
	return nil
}
