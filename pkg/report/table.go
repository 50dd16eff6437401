package report

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// WriteTable renders the rows as a console table.
func WriteTable(w io.Writer, rows []Row, cols []Column) {
	cols = columnsOrDefault(cols)

	table := tablewriter.NewWriter(w)
	table.SetHeader(headers(cols))
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, row := range rows {
		table.Append(values(cols, row))
	}
	table.Render()
}
