package exporter

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nikbrunner/abm/internal/view"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("99")).
				Bold(true).
				Padding(0, 1)

	tableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	tableMissingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244")).
				Italic(true).
				Padding(0, 1)
)

// RenderTable renders rows as a bordered table of id, name, kind and
// reference. Invalid rows stay listed so they can be pruned.
func RenderTable(rows []view.Row) string {
	data := make([][]string, 0, len(rows))
	valid := make([]bool, 0, len(rows))
	for _, r := range rows {
		if r.Placeholder {
			continue
		}
		kind := "file"
		name := r.Name
		switch {
		case !r.Valid:
			kind = "missing"
			name = "-"
		case r.Container:
			kind = "folder"
		}
		data = append(data, []string{strconv.Itoa(r.ID), name, kind, string(r.Ref)})
		valid = append(valid, r.Valid)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("ID", "Name", "Kind", "Reference").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case row >= 0 && row < len(valid) && !valid[row]:
				return tableMissingStyle
			default:
				return tableCellStyle
			}
		})

	return t.Render()
}
