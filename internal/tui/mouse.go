package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/abm/internal/tui/layout"
	"github.com/nikbrunner/abm/internal/view"
)

// Screen geometry of the list pane.
const (
	contentLeft = 4 // app padding (2) + pane border (1) + pane padding (1)
	headerTop   = 3 // app padding (1) + title (1) + pane border (1)
	rowsTop     = headerTop + 1
)

// columnSpan is the horizontal extent of one column inside the pane.
type columnSpan struct {
	column view.Column
	start  int
	width  int
}

// minNameWidth keeps the name column usable on narrow terminals.
const minNameWidth = 8

// columnSpans lays the columns out in itemWidth cells, one space apart.
// The name column takes whatever the fixed columns leave.
func columnSpans(cols []view.Column, itemWidth int) []columnSpan {
	fixed := 0
	for _, c := range cols {
		fixed += c.Width
	}
	gaps := len(cols) - 1
	if gaps < 0 {
		gaps = 0
	}

	spans := make([]columnSpan, 0, len(cols))
	x := 0
	for _, c := range cols {
		w := c.Width
		if w == 0 {
			w = itemWidth - fixed - gaps
			if w < minNameWidth {
				w = minNameWidth
			}
		}
		spans = append(spans, columnSpan{column: c, start: x, width: w})
		x += w + 1
	}
	return spans
}

func (a App) itemWidth() int {
	paneWidth := layout.CalculatePaneWidth(a.width, a.layoutConfig.Pane)
	return layout.CalculateItemWidth(paneWidth, a.layoutConfig.Pane)
}

func (a App) visibleHeight() int {
	paneHeight := layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	return layout.CalculateVisibleHeight(paneHeight, a.layoutConfig.Pane.HeaderLines)
}

// columnAt returns the column under screen column x.
func (a App) columnAt(x int) (view.ColumnID, bool) {
	rel := x - contentLeft
	for _, s := range columnSpans(a.view.Columns(), a.itemWidth()) {
		if rel >= s.start && rel < s.start+s.width {
			return s.column.ID, true
		}
	}
	return "", false
}

func (a App) handleMouse(msg tea.MouseMsg) (App, tea.Cmd) {
	if a.mode != ModeNormal || msg.Action != tea.MouseActionPress {
		return a, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.cursor > 0 {
			a.cursor--
		}
	case tea.MouseButtonWheelDown:
		if a.cursor < len(a.view.Visible())-1 {
			a.cursor++
		}
	case tea.MouseButtonLeft:
		a.click(msg.X, msg.Y, time.Now())
	}
	return a, nil
}

// click handles a left click: header cells sort, row cells run the column
// action, and two clicks on a name activate the row.
func (a *App) click(x, y int, now time.Time) {
	col, onColumn := a.columnAt(x)

	if y == headerTop {
		if onColumn {
			a.view.SortBy(col)
		}
		return
	}

	rows := a.view.Visible()
	height := a.visibleHeight()
	line := y - rowsTop
	if line < 0 || line >= height {
		return
	}
	idx := layout.CalculateViewportOffset(a.cursor, len(rows), height) + line
	if idx >= len(rows) {
		return
	}
	row := rows[idx]
	a.cursor = idx

	if !onColumn {
		return
	}
	if col != view.ColumnName {
		a.lastClick = clickState{}
		a.dispatch(col)
		return
	}

	if a.lastClick.rowID == row.ID && now.Sub(a.lastClick.at) <= doubleClickInterval {
		a.lastClick = clickState{}
		a.activate(row)
		return
	}
	a.lastClick = clickState{rowID: row.ID, at: now}
}
