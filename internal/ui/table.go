package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column defines a table column.
type Column struct {
	Title string
	Width int
}

// Row is a slice of cell values.
type Row []string

// Table renders wallets, deployments and networks as aligned columns.
type Table struct {
	Columns []Column
	Rows    []Row
	// Highlight marks one row, e.g. the default wallet. -1 for none.
	Highlight int
}

// NewTable creates a new table.
func NewTable(cols []Column) *Table {
	return &Table{Columns: cols, Highlight: -1}
}

// AddRow appends a row.
func (t *Table) AddRow(r Row) {
	t.Rows = append(t.Rows, r)
}

// Render returns the table as a string. Cells are padded to the column width
// before styling so ANSI codes never count towards alignment.
func (t *Table) Render() string {
	var sb strings.Builder

	head := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	cell := lipgloss.NewStyle().Foreground(ColorValue)
	mark := lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)

	line := func(style lipgloss.Style, values []string) {
		parts := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			v := ""
			if i < len(values) {
				v = values[i]
			}
			parts[i] = style.Render(fit(v, col.Width))
		}
		sb.WriteString(strings.TrimRight(strings.Join(parts, " "), " "))
		sb.WriteString("\n")
	}

	titles := make([]string, len(t.Columns))
	rules := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		titles[i] = col.Title
		rules[i] = strings.Repeat("─", col.Width)
	}
	line(head, titles)
	line(StyleMeta, rules)

	for i, r := range t.Rows {
		if i == t.Highlight {
			line(mark, r)
			continue
		}
		line(cell, r)
	}
	return sb.String()
}

// KeyValueBlock renders key-value pairs in a bordered box.
func KeyValueBlock(title string, pairs [][2]string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(StyleTitle.Render(title))
		sb.WriteString("\n")
	}
	for _, p := range pairs {
		key := StyleMeta.Render(fmt.Sprintf("%-18s", p[0]+":"))
		sb.WriteString("  " + key + " " + StyleValue.Render(p[1]) + "\n")
	}
	return StyleBorder.Render(sb.String())
}

// fit pads s to exactly width runes, cutting it with an ellipsis if longer.
func fit(s string, width int) string {
	r := []rune(s)
	switch {
	case width <= 0:
		return ""
	case len(r) > width:
		if width == 1 {
			return "…"
		}
		return string(r[:width-1]) + "…"
	default:
		return padR(s, width)
	}
}

// padR right-pads s with spaces to n runes; longer strings are returned as is.
func padR(s string, n int) string {
	l := len([]rune(s))
	if l >= n {
		return s
	}
	return s + strings.Repeat(" ", n-l)
}
