package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
	// alignPath is left aligned and hard-wrapped at pathColumnWidth.
	alignPath
)

const pathColumnWidth = 60

// renderTable draws rows under headers. Rows shorter than headers are padded;
// aligns may be shorter than headers, missing entries are alignLeft.
func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(toRow(headers, len(headers)))
	for _, row := range rows {
		tw.AppendRow(toRow(row, len(headers)))
	}

	configs := make([]table.ColumnConfig, len(headers))
	for i := range configs {
		configs[i] = table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft, Align: text.AlignLeft}
		if i >= len(aligns) {
			continue
		}
		switch aligns[i] {
		case alignRight:
			configs[i].Align = text.AlignRight
		case alignPath:
			configs[i].WidthMax = pathColumnWidth
			configs[i].WidthMaxEnforcer = text.WrapHard
		}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func toRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range width {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	return row
}
