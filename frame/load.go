package frame

import (
	"fmt"
	"path/filepath"
	"strings"
)

// maxGlobFiles bounds how many files one glob load may touch.
const maxGlobFiles = 1000

// Load reads a single file into a frame, dispatching on the file extension.
// Parquet (.parquet) and CSV (.csv) are supported.
func Load(path string) (*Frame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return LoadParquet(path)
	case ".csv":
		return LoadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s (want .parquet or .csv)", path)
	}
}

// LoadGlob reads all files matching a glob pattern into one frame. With a
// plain path (no wildcards) it behaves exactly like Load. With a pattern,
// rows from every matching file are concatenated, each tagged with a _file
// column naming its source, and the column set is the union across files.
func LoadGlob(pattern string) (*Frame, error) {
	if !strings.ContainsAny(pattern, "*?[]{}") {
		return Load(pattern)
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}
	if len(matches) > maxGlobFiles {
		return nil, fmt.Errorf("glob pattern matched too many files (%d), maximum is %d", len(matches), maxGlobFiles)
	}

	var columns []string
	seen := make(map[string]bool)
	var rows []map[string]interface{}

	for _, path := range matches {
		f, err := Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		for _, col := range f.Columns() {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}

		for _, row := range f.Rows() {
			tagged := make(map[string]interface{}, len(row)+1)
			for col, v := range row {
				tagged[col] = v
			}
			tagged["_file"] = path
			rows = append(rows, tagged)
		}
	}

	columns = append(columns, "_file")
	return New(columns, rows, pattern), nil
}
