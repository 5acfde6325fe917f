package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/abm/internal/tui/layout"
	"github.com/nikbrunner/abm/internal/view"
)

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}

// renderView creates the complete panel.
func (a App) renderView() string {
	switch a.mode {
	case ModeHelp:
		return a.renderHelpOverlay()
	case ModeAdd, ModeSettings, ModeConfirmRemove:
		return a.renderModal()
	}

	paneHeight := layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	paneWidth := layout.CalculatePaneWidth(a.width, a.layoutConfig.Pane)

	title := a.renderTitle()
	pane := a.renderListPane(paneWidth, paneHeight)
	helpBar := a.renderHelpBar()

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, title, pane, helpBar),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderTitle renders the app name, the project and the search state.
func (a App) renderTitle() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("abm"))

	if a.registry != nil {
		b.WriteString(" " + a.styles.Path.Render(filepath.Base(a.registry.Root())))
	}

	switch {
	case a.mode == ModeSearch:
		b.WriteString("  /" + a.search.Input.View())
	case a.view.Search() != "":
		b.WriteString("  " + a.styles.Search.Render("/"+a.view.Search()))
	}
	return b.String()
}

func (a App) renderListPane(width, height int) string {
	var content strings.Builder

	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)
	visibleHeight := layout.CalculateVisibleHeight(height, a.layoutConfig.Pane.HeaderLines)
	spans := columnSpans(a.view.Columns(), itemWidth)

	content.WriteString(a.renderHeader(spans) + "\n")

	d := a.view.Display()
	switch {
	case d.Empty:
		content.WriteString(a.styles.Empty.Render("(no bookmarks: paste a path or press a)"))
	case len(d.Rows) == 0 && a.view.Search() != "":
		content.WriteString(a.styles.Empty.Render("(no matches)"))
	case len(d.Rows) == 0:
		content.WriteString(a.styles.Empty.Render("(all bookmarked assets are missing: P prunes them)"))
	default:
		offset := layout.CalculateViewportOffset(a.cursor, len(d.Rows), visibleHeight)
		for i, row := range d.Rows {
			if i < offset {
				continue
			}
			if i >= offset+visibleHeight {
				break
			}
			content.WriteString(a.renderRow(row, spans, i == a.cursor, itemWidth) + "\n")
		}
	}

	return a.styles.Pane.
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// renderHeader renders the column titles; the sort column carries an arrow.
func (a App) renderHeader(spans []columnSpan) string {
	sortCol, asc := a.view.Sort()
	arrow := "▲"
	if !asc {
		arrow = "▼"
	}

	cells := make([]string, len(spans))
	for i, s := range spans {
		title := s.column.Title
		style := a.styles.Header
		if s.column.ID == sortCol {
			title = strings.TrimSpace(title + " " + arrow)
			style = a.styles.HeaderSorted
		}
		text, _ := layout.TruncateText(title, s.width, a.layoutConfig.Text)
		cells[i] = style.Render(layout.PadRight(text, s.width))
	}
	return strings.Join(cells, " ")
}

// cellText returns the unstyled content of one cell.
func (a App) cellText(row view.Row, s columnSpan, marked bool) string {
	switch s.column.ID {
	case view.ColumnPing:
		return "◎"
	case view.ColumnOpen:
		if row.Container {
			return ""
		}
		return "open"
	case view.ColumnRemove:
		return "×"
	default:
		var prefix, suffix string
		if marked {
			prefix = "▸ "
		}
		if row.Container {
			suffix = "/"
		}
		text, _ := layout.TruncateWithPrefixSuffix(row.Name, s.width, prefix, suffix, a.layoutConfig.Text)
		return text
	}
}

func (a App) renderRow(row view.Row, spans []columnSpan, isCursor bool, itemWidth int) string {
	isMarked := a.selection.IsSelected(row.ID)

	cells := make([]string, len(spans))
	for i, s := range spans {
		cells[i] = layout.PadRight(a.cellText(row, s, isMarked && !isCursor), s.width)
	}
	line := layout.PadRight(strings.Join(cells, " "), itemWidth)

	switch {
	case isCursor && isMarked:
		return a.styles.ItemMarkedCursor.Render(line)
	case isCursor:
		return a.styles.ItemSelected.Render(line)
	case isMarked:
		return a.styles.ItemMarked.Render(line)
	case row.Container:
		return a.styles.Folder.Render(line)
	default:
		return a.styles.Item.Render(line)
	}
}

// renderHelpBar renders the message line and the hint lines.
func (a App) renderHelpBar() string {
	var lines []string

	// Line 1: Empty spacer OR message (message replaces the gap)
	if a.messageText != "" {
		lines = append(lines, a.renderMessageLine())
	} else {
		lines = append(lines, "")
	}

	// Line 2: Local (contextual) keyboard hints
	if localHints := a.renderHints(a.getContextualHints()); localHints != "" {
		lines = append(lines, a.styles.HintLabel.Render("Local  ")+localHints)
	}

	// Line 3: Global hints and list status (only in normal mode)
	if a.mode == ModeNormal {
		lines = append(lines, a.styles.HintLabel.Render("Global ")+a.renderHintSlice(a.getGlobalHints())+"  "+a.renderStatus())
	}

	return strings.Join(lines, "\n")
}

// renderStatus renders the [n:X] [miss:X] [sel:X] indicators.
func (a App) renderStatus() string {
	total := len(a.view.Rows())
	missing := 0
	for _, r := range a.view.Rows() {
		if !r.Valid {
			missing++
		}
	}

	var status strings.Builder
	fmt.Fprintf(&status, "[n:%d]", total)
	if missing > 0 {
		fmt.Fprintf(&status, " [miss:%d]", missing)
	}
	if a.selection.HasSelection() {
		fmt.Fprintf(&status, " [sel:%d]", a.selection.Count())
	}
	return status.String()
}

// renderMessageLine renders the styled message with prefix icon based on type.
func (a App) renderMessageLine() string {
	var msgStyle lipgloss.Style
	var prefix string

	switch a.messageType {
	case MessageError:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC3333", Dark: "#FF6666"}).
			Bold(true)
		prefix = "✗ "
	case MessageWarning:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC8800", Dark: "#FFAA00"}).
			Bold(true)
		prefix = "⚠ "
	case MessageSuccess:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#338833", Dark: "#66CC66"}).
			Bold(true)
		prefix = "✓ "
	default: // MessageInfo
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}).
			Bold(true)
		prefix = ""
	}

	return msgStyle.Render(prefix + a.messageText)
}

// renderModal renders the current modal dialog.
func (a App) renderModal() string {
	var title, content strings.Builder

	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}
	widthPercent := a.layoutConfig.Modal.DefaultWidthPercent
	if a.mode == ModeSettings {
		widthPercent = a.layoutConfig.Modal.LargeWidthPercent
	}
	modalWidth := layout.CalculateModalWidth(a.width, widthPercent, a.layoutConfig.Modal)
	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(modalWidth)

	var hints []Hint

	switch a.mode {
	case ModeAdd:
		title.WriteString("Add Bookmark\n\n")
		content.WriteString("Path (relative to the project or absolute):\n")
		content.WriteString(a.add.Input.View())
		hints = []Hint{{Key: "Enter", Desc: "add"}, {Key: "Esc", Desc: "cancel"}}

	case ModeSettings:
		title.WriteString("Bookmarked References\n\n")
		content.WriteString(a.settings.Editor.View())
		hints = []Hint{{Key: "ctrl+s", Desc: "save"}, {Key: "Esc", Desc: "cancel"}}

	case ModeConfirmRemove:
		title.WriteString(fmt.Sprintf("Remove %s?\n\n", plural(len(a.removeIDs), "bookmark")))
		const maxListed = 5
		for i, id := range a.removeIDs {
			if i == maxListed {
				content.WriteString(a.styles.Empty.Render(fmt.Sprintf("... and %d more", len(a.removeIDs)-maxListed)) + "\n")
				break
			}
			if row, ok := a.view.Row(id); ok {
				ref := layout.TruncatePathFromLeft(string(row.Ref), modalWidth-6, a.layoutConfig.Text)
				content.WriteString(a.styles.Path.Render(ref) + "\n")
			}
		}
		hints = []Hint{{Key: "y", Desc: "remove"}, {Key: "n", Desc: "cancel"}}
	}

	body := a.styles.Title.Render(title.String()) +
		strings.TrimRight(content.String(), "\n") +
		"\n\n" + a.renderHintsInline(hints)

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Center,
		lipgloss.Center,
		modalStyle.Render(body),
	)
}

// renderHelpOverlay renders the key reference.
func (a App) renderHelpOverlay() string {
	modalStyle := lipgloss.NewStyle().
		Padding(1, 2)

	var left strings.Builder
	left.WriteString(a.styles.Title.Render("nav") + "\n")
	left.WriteString("j/k  move\n")
	left.WriteString("gg   top\n")
	left.WriteString("G    bottom\n")
	left.WriteString("/    search\n")
	left.WriteString("1-4  sort column\n")
	left.WriteString("r    refresh\n")
	left.WriteString("\n")
	left.WriteString(a.styles.Title.Render("act") + "\n")
	left.WriteString("l    open/reveal\n")
	left.WriteString("p    reveal\n")
	left.WriteString("o    open\n")
	left.WriteString("Y    copy paths\n")

	var right strings.Builder
	right.WriteString(a.styles.Title.Render("edit") + "\n")
	right.WriteString("a    add path\n")
	right.WriteString("paste  add paths\n")
	right.WriteString("d/x  remove\n")
	right.WriteString("P    prune missing\n")
	right.WriteString(",    edit list\n")
	right.WriteString("u    undo\n")
	right.WriteString("^r   redo\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Title.Render("select") + "\n")
	right.WriteString("space  select row\n")
	right.WriteString("Esc  clear select\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Help.Render("[?/esc] close  [q] quit"))

	leftCol := lipgloss.NewStyle().Width(a.layoutConfig.Modal.HelpLeftColumnWidth).Render(left.String())
	rightCol := lipgloss.NewStyle().Width(a.layoutConfig.Modal.HelpRightColumnWidth).Render(right.String())
	cols := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, "  ", rightCol)

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Left,
		lipgloss.Top,
		modalStyle.Render(cols),
	)
}
