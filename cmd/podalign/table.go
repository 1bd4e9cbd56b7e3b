package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// tableView describes one rendered table. Rows shorter than the header are
// padded with empty cells.
type tableView struct {
	title   string
	headers []string
	aligns  []columnAlignment
	rows    [][]string
	footer  []string
}

func renderTable(view tableView) string {
	columns := len(view.headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if view.title != "" {
		tw.SetTitle(view.title)
	}
	tw.AppendHeader(toRow(view.headers, columns))
	for _, row := range view.rows {
		tw.AppendRow(toRow(row, columns))
	}
	if len(view.footer) > 0 {
		tw.AppendFooter(toRow(view.footer, columns))
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(view.aligns) && view.aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			AlignFooter: align,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func toRow(cells []string, columns int) table.Row {
	r := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		if i < len(cells) {
			r[i] = cells[i]
		} else {
			r[i] = ""
		}
	}
	return r
}
