package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tableColumn describes one column of a clip table. A non-zero maxWidth
// soft-wraps longer cells, which keeps long sidecar paths and error
// messages from stretching the whole table.
type tableColumn struct {
	header   string
	numeric  bool
	maxWidth int
}

const detailWidth = 64

// summaryColumns lays out one row per converted clip for --summary.
var summaryColumns = []tableColumn{
	{header: "Clip"},
	{header: "Status"},
	{header: "Properties", numeric: true},
	{header: "Sidecar / Error", maxWidth: detailWidth},
}

// historyColumns lays out one row per ledger entry for the history command.
var historyColumns = []tableColumn{
	{header: "ID", numeric: true},
	{header: "Started"},
	{header: "Clip"},
	{header: "Status"},
	{header: "Props", numeric: true},
	{header: "Duration", numeric: true},
	{header: "Detail", maxWidth: detailWidth},
}

// renderTable lays rows out under columns. Short rows are padded; extra
// cells are dropped.
func renderTable(columns []tableColumn, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.header
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
		if col.numeric {
			configs[i].Align = text.AlignRight
		}
		if col.maxWidth > 0 {
			configs[i].WidthMax = col.maxWidth
			configs[i].WidthMaxEnforcer = text.WrapSoft
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range r {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}
