package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/rangekit/pkg/alg/interval"
	"github.com/Sumatoshi-tech/rangekit/pkg/config"
)

// entryRow is the JSON shape of one query result.
type entryRow struct {
	Low   int64  `json:"low"`
	High  int64  `json:"high"`
	Label string `json:"label"`
}

// renderEntries writes query results in the requested format, followed
// by a colored match-count summary for the table format.
func renderEntries(w io.Writer, entries []interval.Entry[int64, string], format string, noColor bool) error {
	switch format {
	case config.FormatJSON:
		return renderJSON(w, entries)
	case config.FormatCSV:
		renderTable(w, entries, true)

		return nil
	default:
		renderTable(w, entries, false)
		renderSummary(w, len(entries), noColor)

		return nil
	}
}

func renderTable(w io.Writer, entries []interval.Entry[int64, string], asCSV bool) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Low", "High", "Label"})

	for _, e := range entries {
		tw.AppendRow(table.Row{e.Interval.Low, e.Interval.High, e.Value})
	}

	if asCSV {
		tw.RenderCSV()

		return
	}

	tw.Render()
}

func renderJSON(w io.Writer, entries []interval.Entry[int64, string]) error {
	rows := make([]entryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, entryRow{Low: e.Interval.Low, High: e.Interval.High, Label: e.Value})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(rows)
}

func renderSummary(w io.Writer, count int, noColor bool) {
	c := color.New(color.FgGreen)
	if count == 0 {
		c = color.New(color.FgYellow)
	}

	if noColor {
		c.DisableColor()
	}

	fmt.Fprintln(w, c.Sprintf("%d matching interval(s)", count))
}
