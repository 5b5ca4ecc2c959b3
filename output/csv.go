package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
)

// CSVFormatter outputs rows as CSV format
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes rows as CSV with a header in the given column order. When no
// column order is given, the union of row keys is used, sorted.
func (c *CSVFormatter) Format(columns []string, rows []map[string]interface{}) error {
	csvWriter := csv.NewWriter(c.writer)

	if len(columns) == 0 {
		columns = collectColumns(rows)
	}
	if len(columns) == 0 {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			return fmt.Errorf("failed to flush CSV writer: %w", err)
		}
		return nil
	}

	if err := csvWriter.Write(columns); err != nil {
		return err
	}

	for _, row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = formatValue(row[col])
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return nil
}

// collectColumns gathers the union of row keys, sorted
func collectColumns(rows []map[string]interface{}) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, row := range rows {
		for col := range row {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}
	sort.Strings(columns)
	return columns
}

// formatValue converts a value to string for CSV output
func formatValue(v interface{}) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		// Prefix values that spreadsheets would interpret as formulas
		if len(val) > 0 {
			switch val[0] {
			case '=', '+', '-', '@', '\t', '\r', '\n', '|':
				return "'" + strings.ReplaceAll(val, "'", "''")
			}
		}
		return val
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", val)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
