// Package render draws admin pages for the terminal and exports them to
// spreadsheets.
package render

import (
	"fmt"
	"strings"

	"farmadmin/internal/client"
	"farmadmin/internal/metrics"
	"farmadmin/internal/page"

	"github.com/charmbracelet/lipgloss"
)

const defaultEmpty = "No records found."

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))

	badgeColors = map[string]lipgloss.Color{
		"blue":   lipgloss.Color("#2196F3"),
		"green":  lipgloss.Color("#8BC34A"),
		"yellow": lipgloss.Color("#FFC107"),
		"red":    lipgloss.Color("#e53935"),
		"gray":   lipgloss.Color("#9e9e9e"),
	}
)

// Cell renders one column of rec as plain text.
func Cell(col page.Column, rec client.Record) string {
	if col.Format != nil {
		return col.Format(rec)
	}
	return rec.String(col.Key)
}

// Rows renders items as plain text cells, one row per item.
func Rows(s page.Schema, items []client.Record) [][]string {
	rows := make([][]string, len(items))
	for i, rec := range items {
		row := make([]string, len(s.Columns))
		for j, col := range s.Columns {
			row[j] = Cell(col, rec)
		}
		rows[i] = row
	}
	return rows
}

func headers(s page.Schema) []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Header
	}
	return out
}

// Badge colors a status by its meaning.
func Badge(status string) string {
	if status == "" {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(badgeColors[metrics.StatusColor(status)]).
		Render(status)
}

// Table draws the list of a page. An empty list shows the schema's
// empty message instead of a table.
func Table(s page.Schema, items []client.Record) string {
	var sb strings.Builder
	if s.Title != "" {
		sb.WriteString(titleStyle.Render(s.Title))
		sb.WriteString("\n")
	}
	if len(items) == 0 {
		msg := s.EmptyMessage
		if msg == "" {
			msg = defaultEmpty
		}
		sb.WriteString(mutedStyle.Render(msg))
		sb.WriteString("\n")
		return sb.String()
	}

	heads := headers(s)
	rows := Rows(s, items)

	widths := make([]int, len(heads))
	for i, h := range heads {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	// padding is part of the rendered width
	total := len(heads) - 1
	for i := range widths {
		widths[i] += 2
		total += widths[i]
	}

	sep := mutedStyle.Render("|")
	for i, h := range heads {
		sb.WriteString(headerStyle.Width(widths[i]).Render(h))
		if i < len(heads)-1 {
			sb.WriteString(sep)
		}
	}
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for _, row := range rows {
		for i, cell := range row {
			if s.Columns[i].Status {
				cell = Badge(cell)
			}
			sb.WriteString(cellStyle.Width(widths[i]).Render(cell))
			if i < len(row)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("%d record(s)", len(rows))))
	sb.WriteString("\n")
	return sb.String()
}

// Stat is one labelled figure of a summary card.
type Stat struct {
	Label string
	Value string
}

// Card draws labelled figures one per line with the labels aligned.
func Card(title string, stats []Stat) string {
	width := 0
	for _, s := range stats {
		if w := lipgloss.Width(s.Label); w > width {
			width = w
		}
	}
	label := mutedStyle.Width(width + 2)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	for _, s := range stats {
		sb.WriteString(label.Render(s.Label))
		sb.WriteString(s.Value)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Detail draws every field of one record, in schema order.
func Detail(s page.Schema, rec client.Record) string {
	stats := []Stat{{Label: "id", Value: rec.String("id")}}
	for _, f := range s.Fields {
		stats = append(stats, Stat{Label: f.Name, Value: rec.String(f.Name)})
	}
	for _, c := range s.Columns {
		if _, isField := s.Field(c.Key); isField {
			continue
		}
		stats = append(stats, Stat{Label: strings.ToLower(c.Header), Value: Cell(c, rec)})
	}
	title := s.Title
	if title == "" {
		title = s.Entity
	}
	return Card(title, stats)
}
