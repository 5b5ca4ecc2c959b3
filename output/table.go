package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// TableFormatter outputs rows as an aligned ASCII table
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format renders rows as a table with columns in the given order
func (t *TableFormatter) Format(columns []string, rows []map[string]interface{}) error {
	if len(columns) == 0 {
		columns = collectColumns(rows)
	}

	table := tablewriter.NewWriter(t.writer)
	table.SetHeader(columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = formatValue(row[col])
		}
		table.Append(record)
	}

	table.Render()
	return nil
}
