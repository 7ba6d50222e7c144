package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tableColumn describes one CLI table column. A positive Width caps cell
// text at that many runes.
type tableColumn struct {
	Header  string
	Numeric bool
	Width   int
}

// renderTable draws rows under columns. Headers keep their case so language
// codes and units such as "Sec/char" read as written.
func renderTable(columns []tableColumn, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.Header
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
		if col.Numeric {
			configs[i].Align = text.AlignRight
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i, col := range columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if col.Width > 0 {
				cell = truncateText(cell, col.Width)
			}
			r[i] = cell
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}

// truncateText flattens line breaks and cuts value to width runes.
func truncateText(value string, width int) string {
	value = strings.ReplaceAll(value, "\n", " / ")
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}
	return string(runes[:width-1]) + "…"
}
