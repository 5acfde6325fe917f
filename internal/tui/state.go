package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/nikbrunner/abm/internal/tui/layout"
)

// Mode is the current interaction mode of the App.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeAdd
	ModeSettings
	ModeConfirmRemove
	ModeHelp
)

// MessageType determines the styling of the status message.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// SearchState holds the search input and the text to restore on cancel.
type SearchState struct {
	Input    textinput.Model
	Previous string
}

// NewSearchState creates a SearchState with an initialized input.
func NewSearchState(cfg layout.LayoutConfig, initial string) SearchState {
	input := textinput.New()
	input.Placeholder = "Search..."
	input.CharLimit = cfg.Input.SearchCharLimit
	input.Width = cfg.Input.StandardWidth
	input.SetValue(initial)
	return SearchState{Input: input, Previous: initial}
}

// AddState holds the add-path prompt.
type AddState struct {
	Input textinput.Model
}

// NewAddState creates an AddState with an initialized input.
func NewAddState(cfg layout.LayoutConfig) AddState {
	input := textinput.New()
	input.Placeholder = "path/to/asset"
	input.CharLimit = cfg.Input.PathCharLimit
	input.Width = cfg.Input.StandardWidth
	return AddState{Input: input}
}

// Reset clears the prompt for a new session.
func (s *AddState) Reset() {
	s.Input.Reset()
}

// SettingsState holds the raw reference editor.
type SettingsState struct {
	Editor textarea.Model
}

// NewSettingsState creates a SettingsState with an initialized editor.
func NewSettingsState(cfg layout.LayoutConfig) SettingsState {
	editor := textarea.New()
	editor.Placeholder = "One reference per line"
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.SetHeight(cfg.Modal.SettingsHeight)
	return SettingsState{Editor: editor}
}

// SelectionState holds the rows marked for batch actions.
type SelectionState struct {
	Selected map[int]bool // row IDs that are selected
}

// NewSelectionState creates an empty SelectionState.
func NewSelectionState() SelectionState {
	return SelectionState{Selected: make(map[int]bool)}
}

// Reset clears all selection state.
func (s *SelectionState) Reset() {
	s.Selected = make(map[int]bool)
}

// Toggle adds or removes a row from selection.
func (s *SelectionState) Toggle(id int) {
	if s.Selected[id] {
		delete(s.Selected, id)
	} else {
		s.Selected[id] = true
	}
}

// IsSelected returns true if the row ID is selected.
func (s *SelectionState) IsSelected(id int) bool {
	return s.Selected[id]
}

// Count returns the number of selected rows.
func (s *SelectionState) Count() int {
	return len(s.Selected)
}

// HasSelection returns true if any rows are selected.
func (s *SelectionState) HasSelection() bool {
	return len(s.Selected) > 0
}

// Retain drops selected IDs that are not in keep.
func (s *SelectionState) Retain(keep map[int]bool) {
	for id := range s.Selected {
		if !keep[id] {
			delete(s.Selected, id)
		}
	}
}
