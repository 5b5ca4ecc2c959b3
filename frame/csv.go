package frame

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// LoadCSV reads a CSV file with a header row into a frame. Cell values are
// sniffed in order int64, float64, bool, string; empty cells become nil.
func LoadCSV(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file %s has no header row", path)
	}

	columns := records[0]
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if col == "" {
			return nil, fmt.Errorf("CSV file %s has an empty column name", path)
		}
		if seen[col] {
			return nil, fmt.Errorf("CSV file %s has a duplicate column name: %s", path, col)
		}
		seen[col] = true
	}

	rows := make([]map[string]interface{}, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = sniffCell(record[i])
		}
		rows = append(rows, row)
	}

	return New(columns, rows, path), nil
}

// sniffCell converts a CSV cell to the most specific type it parses as
func sniffCell(cell string) interface{} {
	if cell == "" {
		return nil
	}
	if v, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(cell, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseBool(cell); err == nil {
		return v
	}
	return cell
}
