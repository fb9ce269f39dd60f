package main

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/handiism/radiotracks/internal/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// summaryColumns are the search result columns, in display order.
var summaryColumns = []struct {
	name  string
	align text.Align
	cell  func(model.TitleSummary) string
}{
	{"Cover", text.AlignLeft, func(s model.TitleSummary) string { return s.ImageURL }},
	{"Title", text.AlignLeft, func(s model.TitleSummary) string { return s.Title }},
	{"Last on air", text.AlignLeft, func(s model.TitleSummary) string { return humanize.Time(s.LastSeen) }},
	{"Count", text.AlignRight, func(s model.TitleSummary) string { return strconv.Itoa(s.Count) }},
}

// renderSummaries renders search results as a table. Titles without a cover
// get an empty Cover cell.
func renderSummaries(summaries []model.TitleSummary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	// Keep the labels as written; the default style upper-cases them.
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, 0, len(summaryColumns))
	configs := make([]table.ColumnConfig, 0, len(summaryColumns))
	for i, col := range summaryColumns {
		header = append(header, col.name)
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       col.align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, s := range summaries {
		row := make(table.Row, 0, len(summaryColumns))
		for _, col := range summaryColumns {
			row = append(row, col.cell(s))
		}
		tw.AppendRow(row)
	}

	return tw.Render()
}
