package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Pane  PaneConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// PaneConfig holds dimensions of the bookmark list pane.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + title (1) + pane borders (2) + help bar (3) = 7
	HeightReduction int

	// MinHeight is the minimum pane height.
	MinHeight int

	// WidthOffset is subtracted from terminal width for the pane.
	// Accounts for app padding (2 left, 2 right) + pane borders (2).
	WidthOffset int

	// MinWidth is the minimum pane width.
	MinWidth int

	// ContentPadding is subtracted from pane width for row rendering.
	// Accounts for pane border/padding on each side.
	ContentPadding int

	// HeaderLines is the number of lines above the rows (column header).
	HeaderLines int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// DefaultWidthPercent is the standard modal width as percentage of terminal width.
	DefaultWidthPercent int

	// LargeWidthPercent is used for the settings editor.
	LargeWidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int

	// SettingsHeight is the number of editor lines in the settings modal.
	SettingsHeight int

	// HelpLeftColumnWidth: width for help overlay left column.
	HelpLeftColumnWidth int

	// HelpRightColumnWidth: width for help overlay right column.
	HelpRightColumnWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	PathCharLimit   int
	SearchCharLimit int

	// StandardWidth is used for the add and search inputs.
	StandardWidth int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Pane: PaneConfig{
			HeightReduction: 7, // app padding (1) + title (1) + pane borders (2) + help bar (3)
			MinHeight:       5,
			WidthOffset:     6,
			MinWidth:        30,
			ContentPadding:  4,
			HeaderLines:     1,
		},
		Modal: ModalConfig{
			DefaultWidthPercent:  40,
			LargeWidthPercent:    60,
			MinWidth:             50,
			MaxWidth:             100,
			SettingsHeight:       12,
			HelpLeftColumnWidth:  18,
			HelpRightColumnWidth: 22,
		},
		Input: InputConfig{
			PathCharLimit:   1024,
			SearchCharLimit: 100,
			StandardWidth:   40,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
