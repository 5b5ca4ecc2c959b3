// Package output provides formatters for printing frame rows.
//
// Supported formats:
//   - JSON Lines: one JSON object per line
//   - CSV: comma-separated values with a header row
//   - Table: aligned ASCII table
//
// All formatters take the column order explicitly so output matches the
// frame's declared column order rather than map iteration order.
//
// Example usage:
//
//	formatter := output.NewJSONFormatter(os.Stdout)
//	if err := formatter.Format(f.Columns(), f.Rows()); err != nil {
//	    log.Fatal(err)
//	}
package output

import "io"

// Formatter defines the interface for output formatters.
type Formatter interface {
	// Format writes rows in the formatter's specific format, with columns
	// in the given order
	Format(columns []string, rows []map[string]interface{}) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}
