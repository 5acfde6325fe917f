// Package view turns the bookmark store into a sorted, filtered list of
// rows and maps row actions back onto the store and the desktop host.
package view

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/nikbrunner/abm/internal/asset"
	"github.com/nikbrunner/abm/internal/model"
	"github.com/nikbrunner/abm/internal/notify"
)

// Source is the bookmark store as seen by a view.
type Source interface {
	Entries() []model.Entry
	Registry() asset.Registry
	Remove(id int) error
	Subscribe(fn func()) notify.Subscription
}

// Signal is any payload-free notification, such as undo/redo.
type Signal interface {
	Subscribe(fn func()) notify.Subscription
}

// Host performs desktop actions on resolved assets.
type Host interface {
	Locate(a asset.Asset) error
	Open(a asset.Asset) error
}

// State is the lifecycle of a View.
type State int

const (
	Uninitialized State = iota
	Ready
	Detached
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Detached:
		return "detached"
	default:
		return "unknown"
	}
}

// Row is one entry as displayed. Asset data is captured once per reload.
type Row struct {
	ID          int
	Ref         asset.Ref
	Name        string
	Valid       bool
	Container   bool
	Asset       asset.Asset
	Placeholder bool
}

// Display is the renderable result of a reload.
type Display struct {
	Rows  []Row // visible rows in display order
	Empty bool  // the store holds no entries at all
}

// WidgetRows returns Rows, or a single placeholder row when the store is
// empty, for list widgets that cannot render an empty root.
func (d Display) WidgetRows() []Row {
	if d.Empty {
		return []Row{{Placeholder: true}}
	}
	return d.Rows
}

// Options configures a View.
type Options struct {
	Columns       []Column // nil uses DefaultColumns
	CaseSensitive bool     // compare names case-sensitively when sorting
	Search        string   // initial search text
}

// View is the display model of one bookmark panel.
type View struct {
	source        Source
	host          Host
	columns       []Column
	caseSensitive bool

	state State
	subs  []notify.Subscription

	rows       []Row
	empty      bool
	reloading  bool
	generation int

	sortColumn ColumnID
	ascending  bool
	search     string
}

// New creates a View in the Uninitialized state.
func New(source Source, host Host, opts Options) *View {
	columns := opts.Columns
	if columns == nil {
		columns = DefaultColumns()
	}
	return &View{
		source:        source,
		host:          host,
		columns:       columns,
		caseSensitive: opts.CaseSensitive,
		state:         Uninitialized,
		sortColumn:    ColumnName,
		ascending:     true,
		search:        opts.Search,
		empty:         true,
	}
}

// State returns the current lifecycle state.
func (v *View) State() State {
	return v.state
}

// Attach subscribes to store changes and the undo signal, then reloads.
// Attaching a Ready view is a no-op.
func (v *View) Attach(undo Signal) {
	if v.state == Ready {
		return
	}
	v.subs = append(v.subs, v.source.Subscribe(v.Reload))
	if undo != nil {
		v.subs = append(v.subs, undo.Subscribe(v.Reload))
	}
	v.state = Ready
	v.Reload()
}

// Detach cancels every subscription.
func (v *View) Detach() {
	for _, s := range v.subs {
		s.Cancel()
	}
	v.subs = nil
	if v.state == Ready {
		v.state = Detached
	}
}

// Reload rebuilds the rows from the store and re-applies the sort. It never
// mutates the store.
func (v *View) Reload() {
	if v.reloading {
		return
	}
	v.reloading = true
	defer func() { v.reloading = false }()

	reg := v.source.Registry()
	entries := v.source.Entries()

	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		row := Row{ID: e.ID, Ref: e.Ref}
		if a, ok := e.Asset(reg); ok {
			row.Valid = true
			row.Asset = a
			row.Name = a.Name
			row.Container = a.IsDir
		}
		rows = append(rows, row)
	}

	v.rows = rows
	v.empty = len(entries) == 0
	v.applySort()
	v.generation++
}

// Generation increases on every reload, so renderers can tell when to redraw.
func (v *View) Generation() int {
	return v.generation
}

// Columns returns the configured column table.
func (v *View) Columns() []Column {
	return v.columns
}

// Search returns the current search text.
func (v *View) Search() string {
	return v.search
}

// SetSearch changes the filter. Rows that do not match are hidden but stay
// in the store.
func (v *View) SetSearch(text string) {
	v.search = text
}

// Matches reports whether a row passes the current search: a
// case-insensitive substring match on the display name.
func (v *View) Matches(r Row) bool {
	return MatchesSearch(r.Name, v.search)
}

// MatchesSearch is the search predicate. An empty search matches everything.
// Case is compared with Unicode simple folding, one rune at a time.
func MatchesSearch(name, search string) bool {
	if search == "" {
		return true
	}
	want := utf8.RuneCountInString(search)
	for start := range name {
		end, n := start, 0
		for end < len(name) && n < want {
			_, size := utf8.DecodeRuneInString(name[end:])
			end += size
			n++
		}
		if n < want {
			return false
		}
		if strings.EqualFold(name[start:end], search) {
			return true
		}
	}
	return false
}

// Sort returns the active sort column and direction.
func (v *View) Sort() (ColumnID, bool) {
	return v.sortColumn, v.ascending
}

// SortBy activates a column header: the active column toggles direction, a
// different column starts ascending. The built rows are re-sorted in place.
func (v *View) SortBy(col ColumnID) {
	if col == v.sortColumn {
		v.ascending = !v.ascending
	} else {
		v.sortColumn = col
		v.ascending = true
	}
	v.applySort()
}

// SetSort sets column and direction directly.
func (v *View) SetSort(col ColumnID, ascending bool) {
	v.sortColumn = col
	v.ascending = ascending
	v.applySort()
}

func (v *View) applySort() {
	SortRows(v.rows, v.ascending, v.caseSensitive)
}

// SortRows orders rows containers first, then by name, then by ID.
// Descending reverses the whole order.
func SortRows(rows []Row, ascending, caseSensitive bool) {
	slices.SortStableFunc(rows, func(a, b Row) int {
		return compareRows(a, b, caseSensitive)
	})
	if !ascending {
		slices.Reverse(rows)
	}
}

func compareRows(a, b Row, caseSensitive bool) int {
	if a.Container != b.Container {
		if a.Container {
			return -1
		}
		return 1
	}
	if !caseSensitive {
		if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Rows returns every built row, including invalid ones, in sort order.
func (v *View) Rows() []Row {
	return v.rows
}

// Visible returns the rows that are rendered: valid and matching the search.
func (v *View) Visible() []Row {
	out := make([]Row, 0, len(v.rows))
	for _, r := range v.rows {
		if r.Valid && !r.Placeholder && v.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Display returns the current renderable state.
func (v *View) Display() Display {
	return Display{Rows: v.Visible(), Empty: v.empty}
}

// Row finds a rendered row by ID.
func (v *View) Row(id int) (Row, bool) {
	for _, r := range v.rows {
		if r.ID == id && r.Valid && !r.Placeholder {
			return r, true
		}
	}
	return Row{}, false
}

// Dispatch runs the action bound to a column for the given row. Unknown
// rows, placeholder rows and columns without an action are a no-op.
func (v *View) Dispatch(rowID int, col ColumnID) error {
	r, ok := v.Row(rowID)
	if !ok {
		return nil
	}
	for _, c := range v.columns {
		if c.ID == col && c.Action != nil {
			return c.Action(v, r)
		}
	}
	return nil
}

// DoubleClick locates containers and opens everything else.
func (v *View) DoubleClick(rowID int) error {
	r, ok := v.Row(rowID)
	if !ok {
		return nil
	}
	if r.Container {
		return pingAction(v, r)
	}
	return openAction(v, r)
}

// DragOut returns the assets of the given rows that are still valid, in the
// order requested.
func (v *View) DragOut(ids []int) []asset.Asset {
	var out []asset.Asset
	for _, id := range ids {
		if r, ok := v.Row(id); ok {
			out = append(out, r.Asset)
		}
	}
	return out
}
