package tui

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/abm/internal/asset"
	"github.com/nikbrunner/abm/internal/bookmark"
	"github.com/nikbrunner/abm/internal/history"
	"github.com/nikbrunner/abm/internal/storage"
	"github.com/nikbrunner/abm/internal/tui/layout"
	"github.com/nikbrunner/abm/internal/view"
	"github.com/nikbrunner/abm/internal/watch"
)

// doubleClickInterval is the longest gap between two clicks on the same row
// that still counts as a double click.
const doubleClickInterval = 400 * time.Millisecond

// App is the main bubbletea model for the asset bookmark panel.
type App struct {
	store    *bookmark.Store
	view     *view.View
	journal  *history.Journal
	registry *asset.FSRegistry
	session  *storage.Session
	watcher  *watch.Watcher
	copy     func(string) error

	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig

	mode          Mode
	confirmRemove bool
	cursor        int
	selection     SelectionState
	search        SearchState
	add           AddState
	settings      SettingsState
	removeIDs     []int // rows awaiting confirmation

	messageText string
	messageType MessageType

	// For gg command
	lastKeyWasG bool
	lastClick   clickState

	// Generation of the view the watcher was last synced to
	watchedGen int

	// Window dimensions
	width  int
	height int
}

type clickState struct {
	rowID int
	at    time.Time
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Store         *bookmark.Store
	View          *view.View
	Journal       *history.Journal   // optional, enables undo/redo
	Registry      *asset.FSRegistry  // resolves pasted and typed paths
	Session       *storage.Session   // optional, persists the search text
	Watcher       *watch.Watcher     // optional, started by the caller
	ConfirmRemove bool               // ask before removing bookmarks
	Clipboard     func(string) error // optional, defaults to the system clipboard
	Keys          *KeyMap            // optional, uses default if nil
	Styles        *Styles            // optional, uses default if nil
	LayoutConfig  *layout.LayoutConfig
}

// NewApp creates a new App and attaches its view.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	cfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		cfg = *params.LayoutConfig
	}

	copyFn := params.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	if params.View.State() != view.Ready {
		var undo view.Signal
		if params.Journal != nil {
			undo = params.Journal
		}
		params.View.Attach(undo)
	}

	return App{
		store:         params.Store,
		view:          params.View,
		journal:       params.Journal,
		registry:      params.Registry,
		session:       params.Session,
		watcher:       params.Watcher,
		copy:          copyFn,
		keys:          keys,
		styles:        styles,
		layoutConfig:  cfg,
		mode:          ModeNormal,
		confirmRemove: params.ConfirmRemove,
		selection:     NewSelectionState(),
		search:        NewSearchState(cfg, params.View.Search()),
		add:           NewAddState(cfg),
		settings:      NewSettingsState(cfg),
		watchedGen:    -1,
		width:         80,
		height:        24,
	}
}

// WithDimensions returns a copy of the App with fixed terminal dimensions.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Cursor returns the current cursor position in the visible rows.
func (a App) Cursor() int {
	return a.cursor
}

// Mode returns the current interaction mode.
func (a App) Mode() Mode {
	return a.mode
}

// Message returns the current status message.
func (a App) Message() (string, MessageType) {
	return a.messageText, a.messageType
}

// SelectedIDs returns the selected row IDs in ascending order.
func (a App) SelectedIDs() []int {
	ids := make([]int, 0, len(a.selection.Selected))
	for id := range a.selection.Selected {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// CurrentRow returns the row under the cursor.
func (a App) CurrentRow() (view.Row, bool) {
	rows := a.view.Visible()
	if a.cursor < 0 || a.cursor >= len(rows) {
		return view.Row{}, false
	}
	return rows[a.cursor], true
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.watcher == nil {
		return nil
	}
	a.syncWatch()
	return waitForChange(a.watcher)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := a.update(msg)
	next.clampCursor()
	next.syncWatch()
	return next, cmd
}

func (a App) update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case assetsChangedMsg:
		log.Printf("assets changed: %s", msg.path)
		a.view.Reload()
		return a, waitForChange(a.watcher)

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.KeyMsg:
		switch a.mode {
		case ModeSearch:
			return a.updateSearch(msg)
		case ModeAdd:
			return a.updateAdd(msg)
		case ModeSettings:
			return a.updateSettings(msg)
		case ModeConfirmRemove:
			return a.updateConfirmRemove(msg)
		case ModeHelp:
			return a.updateHelp(msg)
		default:
			return a.updateNormal(msg)
		}
	}

	// Forward everything else (cursor blink) to the focused input.
	var cmd tea.Cmd
	switch a.mode {
	case ModeSearch:
		a.search.Input, cmd = a.search.Input.Update(msg)
	case ModeAdd:
		a.add.Input, cmd = a.add.Input.Update(msg)
	case ModeSettings:
		a.settings.Editor, cmd = a.settings.Editor.Update(msg)
	}
	return a, cmd
}

func (a App) updateNormal(msg tea.KeyMsg) (App, tea.Cmd) {
	if msg.Paste {
		a.addPaths(splitPastedPaths(string(msg.Runes), a.pathExists))
		return a, nil
	}

	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	rows := a.view.Visible()

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.view.Detach()
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(rows)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(rows) > 0 {
			a.cursor = len(rows) - 1
		}

	case key.Matches(msg, a.keys.Activate):
		if row, ok := a.CurrentRow(); ok {
			a.activate(row)
		}

	case key.Matches(msg, a.keys.Ping):
		a.dispatch(view.ColumnPing)

	case key.Matches(msg, a.keys.Open):
		a.dispatch(view.ColumnOpen)

	case key.Matches(msg, a.keys.Remove):
		a.startRemove(a.targetIDs())

	case key.Matches(msg, a.keys.Search):
		a.mode = ModeSearch
		a.search.Previous = a.view.Search()
		a.search.Input.SetValue(a.search.Previous)
		a.search.Input.CursorEnd()
		cmd := a.search.Input.Focus()
		return a, cmd

	case key.Matches(msg, a.keys.Sort):
		a.sortByIndex(msg.String())

	case key.Matches(msg, a.keys.Refresh):
		a.view.Reload()
		a.setMessage("Refreshed", MessageInfo)

	case key.Matches(msg, a.keys.Add):
		a.mode = ModeAdd
		a.add.Reset()
		cmd := a.add.Input.Focus()
		return a, cmd

	case key.Matches(msg, a.keys.Select):
		if row, ok := a.CurrentRow(); ok {
			a.selection.Toggle(row.ID)
		}

	case key.Matches(msg, a.keys.Clear):
		a.selection.Reset()
		a.clearMessage()

	case key.Matches(msg, a.keys.YankPaths):
		a.yankPaths()

	case key.Matches(msg, a.keys.Undo):
		a.undo()

	case key.Matches(msg, a.keys.Redo):
		a.redo()

	case key.Matches(msg, a.keys.Prune):
		a.prune()

	case key.Matches(msg, a.keys.Settings):
		a.openSettings()
		cmd := a.settings.Editor.Focus()
		return a, cmd

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	return a, nil
}

func (a App) updateSearch(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		a.applySearch(a.search.Input.Value())
		a.search.Input.Blur()
		a.mode = ModeNormal
		return a, nil

	case tea.KeyEsc:
		a.view.SetSearch(a.search.Previous)
		a.search.Input.SetValue(a.search.Previous)
		a.search.Input.Blur()
		a.mode = ModeNormal
		return a, nil
	}

	var cmd tea.Cmd
	a.search.Input, cmd = a.search.Input.Update(msg)
	a.view.SetSearch(a.search.Input.Value())
	a.cursor = 0
	return a, cmd
}

func (a App) updateAdd(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if value := strings.TrimSpace(a.add.Input.Value()); value != "" {
			a.addPaths(splitPastedPaths(value, a.pathExists))
		}
		a.add.Input.Blur()
		a.mode = ModeNormal
		return a, nil

	case tea.KeyEsc:
		a.add.Input.Blur()
		a.mode = ModeNormal
		return a, nil
	}

	var cmd tea.Cmd
	a.add.Input, cmd = a.add.Input.Update(msg)
	return a, cmd
}

func (a App) updateSettings(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.settings.Editor.Blur()
		a.mode = ModeNormal
		return a, nil

	case "ctrl+s":
		refs := parseRefLines(a.settings.Editor.Value())
		changed, err := a.store.ReplaceRefs(refs)
		switch {
		case err != nil:
			a.setMessage(err.Error(), MessageError)
		case changed:
			a.setMessage(fmt.Sprintf("Saved %d references", len(a.store.Entries())), MessageSuccess)
		default:
			a.setMessage("No changes", MessageInfo)
		}
		a.settings.Editor.Blur()
		a.mode = ModeNormal
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.Editor, cmd = a.settings.Editor.Update(msg)
	return a, cmd
}

func (a App) updateConfirmRemove(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		ids := a.removeIDs
		a.removeIDs = nil
		a.mode = ModeNormal
		a.removeRows(ids)
	case "n", "N", "esc", "q":
		a.removeIDs = nil
		a.mode = ModeNormal
		a.setMessage("Cancelled", MessageInfo)
	}
	return a, nil
}

func (a App) updateHelp(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "?", "q", "esc":
		a.mode = ModeNormal
	}
	return a, nil
}

// targetIDs returns the selected rows in display order, or the row under
// the cursor.
func (a App) targetIDs() []int {
	if a.selection.HasSelection() {
		var ids []int
		for _, r := range a.view.Visible() {
			if a.selection.IsSelected(r.ID) {
				ids = append(ids, r.ID)
			}
		}
		return ids
	}
	if row, ok := a.CurrentRow(); ok {
		return []int{row.ID}
	}
	return nil
}

func (a App) hasColumn(id view.ColumnID) bool {
	for _, c := range a.view.Columns() {
		if c.ID == id {
			return true
		}
	}
	return false
}

// activate is the double-click action: reveal folders, open files.
func (a *App) activate(row view.Row) {
	if err := a.view.DoubleClick(row.ID); err != nil {
		a.setMessage(err.Error(), MessageError)
		return
	}
	if row.Container {
		a.setMessage("Revealed "+row.Name, MessageInfo)
	} else {
		a.setMessage("Opened "+row.Name, MessageInfo)
	}
}

// dispatch runs a column action on the row under the cursor.
func (a *App) dispatch(col view.ColumnID) {
	row, ok := a.CurrentRow()
	if !ok {
		return
	}
	if !a.hasColumn(col) {
		a.setMessage(fmt.Sprintf("The %s column is disabled", col), MessageWarning)
		return
	}

	switch col {
	case view.ColumnRemove:
		a.startRemove([]int{row.ID})
		return
	case view.ColumnOpen:
		if row.Container {
			a.setMessage("Folders can only be revealed", MessageWarning)
			return
		}
	}

	if err := a.view.Dispatch(row.ID, col); err != nil {
		a.setMessage(err.Error(), MessageError)
		return
	}
	if col == view.ColumnPing {
		a.setMessage("Revealed "+row.Name, MessageInfo)
	} else {
		a.setMessage("Opened "+row.Name, MessageInfo)
	}
}

func (a *App) startRemove(ids []int) {
	if len(ids) == 0 {
		return
	}
	if !a.hasColumn(view.ColumnRemove) {
		a.setMessage("The remove column is disabled", MessageWarning)
		return
	}
	if a.confirmRemove {
		a.removeIDs = ids
		a.mode = ModeConfirmRemove
		return
	}
	a.removeRows(ids)
}

func (a *App) removeRows(ids []int) {
	removed := 0
	for _, id := range ids {
		if err := a.view.Dispatch(id, view.ColumnRemove); err != nil {
			a.setMessage(err.Error(), MessageError)
			return
		}
		removed++
	}
	a.selection.Reset()
	a.setMessage(fmt.Sprintf("Removed %s", plural(removed, "bookmark")), MessageSuccess)
}

func (a *App) sortByIndex(k string) {
	n, err := strconv.Atoi(k)
	cols := a.view.Columns()
	if err != nil || n < 1 || n > len(cols) {
		return
	}
	a.view.SortBy(cols[n-1].ID)
	col, asc := a.view.Sort()
	dir := "ascending"
	if !asc {
		dir = "descending"
	}
	a.setMessage(fmt.Sprintf("Sorted by %s, %s", col, dir), MessageInfo)
}

func (a *App) applySearch(text string) {
	a.view.SetSearch(text)
	if a.session == nil {
		return
	}
	var err error
	if text == "" {
		err = a.session.Delete(storage.SessionKeySearch)
	} else {
		err = a.session.SetString(storage.SessionKeySearch, text)
	}
	if err != nil {
		a.setMessage("Could not save search: "+err.Error(), MessageError)
	}
}

// yankPaths copies the absolute paths of the target rows to the clipboard.
func (a *App) yankPaths() {
	assets := a.view.DragOut(a.targetIDs())
	if len(assets) == 0 {
		return
	}
	paths := make([]string, len(assets))
	for i, as := range assets {
		paths[i] = as.Path
	}
	if err := a.copy(strings.Join(paths, "\n")); err != nil {
		a.setMessage("Clipboard: "+err.Error(), MessageError)
		return
	}
	a.setMessage(fmt.Sprintf("Copied %s", plural(len(paths), "path")), MessageSuccess)
}

func (a *App) undo() {
	if a.journal == nil {
		a.setMessage("Undo is not available", MessageWarning)
		return
	}
	ok, err := a.journal.Undo()
	switch {
	case err != nil:
		a.setMessage(err.Error(), MessageError)
	case !ok:
		a.setMessage("Nothing to undo", MessageInfo)
	default:
		a.setMessage("Undone", MessageSuccess)
	}
}

func (a *App) redo() {
	if a.journal == nil {
		a.setMessage("Redo is not available", MessageWarning)
		return
	}
	ok, err := a.journal.Redo()
	switch {
	case err != nil:
		a.setMessage(err.Error(), MessageError)
	case !ok:
		a.setMessage("Nothing to redo", MessageInfo)
	default:
		a.setMessage("Redone", MessageSuccess)
	}
}

func (a *App) prune() {
	before := a.store.Len()
	changed, err := a.store.Prune()
	switch {
	case err != nil:
		a.setMessage(err.Error(), MessageError)
	case !changed:
		a.setMessage("Nothing to prune", MessageInfo)
	default:
		a.setMessage(fmt.Sprintf("Pruned %s", plural(before-a.store.Len(), "missing bookmark")), MessageSuccess)
	}
}

func (a *App) openSettings() {
	snap := a.store.Snapshot()
	lines := make([]string, 0, len(snap.Entries))
	for _, ref := range snap.Refs() {
		lines = append(lines, string(ref))
	}
	modalWidth := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal.LargeWidthPercent, a.layoutConfig.Modal)
	a.settings.Editor.SetWidth(modalWidth - 6)
	a.settings.Editor.SetValue(strings.Join(lines, "\n"))
	a.mode = ModeSettings
}

// parseRefLines turns editor text into references, one per non-blank line.
func parseRefLines(text string) []asset.Ref {
	var refs []asset.Ref
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		refs = append(refs, asset.Ref(filepath.ToSlash(line)))
	}
	return refs
}

func (a *App) setMessage(text string, t MessageType) {
	a.messageText = text
	a.messageType = t
}

func (a *App) clearMessage() {
	a.messageText = ""
	a.messageType = MessageInfo
}

// clampCursor keeps the cursor on a visible row and drops selections of
// rows that disappeared.
func (a *App) clampCursor() {
	rows := a.view.Visible()
	if a.cursor >= len(rows) {
		a.cursor = len(rows) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	if a.selection.HasSelection() {
		keep := make(map[int]bool, len(rows))
		for _, r := range rows {
			keep[r.ID] = true
		}
		a.selection.Retain(keep)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
