package frame

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
)

// LoadParquet reads an entire parquet file into a frame. Column order
// follows the file schema. The whole file is loaded into memory, so this is
// not suitable for files larger than available RAM.
func LoadParquet(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	columns := leafColumnNames(pqFile.Schema())

	reader := parquet.NewReader(pqFile)
	defer func() { _ = reader.Close() }()

	rows := make([]map[string]interface{}, 0)
	for {
		row := make(map[string]interface{})
		err := reader.Read(&row)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, row)
	}

	return New(columns, rows, path), nil
}

// leafColumnNames collects leaf field names from a parquet schema in
// declaration order, using dot notation for nested fields.
func leafColumnNames(schema *parquet.Schema) []string {
	var names []string
	for _, field := range schema.Fields() {
		names = append(names, leafFieldNames(field, "")...)
	}
	return names
}

// leafFieldNames recursively collects leaf names under a field
func leafFieldNames(field parquet.Field, prefix string) []string {
	name := field.Name()
	if prefix != "" {
		name = prefix + "." + name
	}

	children := field.Fields()
	if len(children) == 0 {
		return []string{name}
	}

	var names []string
	for _, child := range children {
		names = append(names, leafFieldNames(child, name)...)
	}
	return names
}
