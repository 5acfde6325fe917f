package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App              lipgloss.Style
	Pane             lipgloss.Style
	Title            lipgloss.Style
	Header           lipgloss.Style
	HeaderSorted     lipgloss.Style
	Item             lipgloss.Style
	ItemSelected     lipgloss.Style
	ItemMarked       lipgloss.Style
	ItemMarkedCursor lipgloss.Style
	Action           lipgloss.Style
	Folder           lipgloss.Style
	Path             lipgloss.Style
	Search           lipgloss.Style
	Help             lipgloss.Style
	Empty            lipgloss.Style
	HintKey          lipgloss.Style // Key portion of hints (e.g., "Enter", "j/k")
	HintDesc         lipgloss.Style // Description portion of hints (e.g., "confirm", "move")
	HintLabel        lipgloss.Style // Line label in the help bar
}

// DefaultStyles returns the default style configuration.
// Industrial design: grayscale with single desaturated teal accent.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"} // main text
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}  // secondary text
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}  // desaturated teal
	border := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#505050"}  // inactive borders
	marked := lipgloss.AdaptiveColor{Light: "#C8D8D8", Dark: "#2F4040"}  // selection background

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(border).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Header: lipgloss.NewStyle().
			Foreground(subtle),

		HeaderSorted: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Item: lipgloss.NewStyle().
			Foreground(primary),

		ItemSelected: lipgloss.NewStyle().
			Background(accent).
			Foreground(lipgloss.Color("#1A1A1A")),

		ItemMarked: lipgloss.NewStyle().
			Background(marked).
			Foreground(primary),

		ItemMarkedCursor: lipgloss.NewStyle().
			Background(accent).
			Foreground(lipgloss.Color("#1A1A1A")).
			Bold(true),

		Action: lipgloss.NewStyle().
			Foreground(subtle),

		Folder: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),

		Path: lipgloss.NewStyle().
			Foreground(subtle),

		Search: lipgloss.NewStyle().
			Foreground(accent),

		Help: lipgloss.NewStyle().
			Foreground(subtle).
			Padding(1, 0),

		Empty: lipgloss.NewStyle().
			Foreground(subtle),

		HintKey: lipgloss.NewStyle().
			Foreground(subtle),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),

		HintLabel: lipgloss.NewStyle().
			Foreground(border),
	}
}
