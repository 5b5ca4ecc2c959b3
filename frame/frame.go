// Package frame provides the columnar data frames that mask expressions are
// evaluated against.
//
// Frames are loaded from Apache Parquet (via parquet-go) or CSV files and
// held fully in memory as ordered columns plus row maps. A frame is never
// mutated after loading; the operations in the query package produce new
// frames. Each frame carries a generated handle so multi-frame sessions can
// attribute log lines and errors to a specific load.
package frame

import (
	"github.com/google/uuid"

	"github.com/vegasq/maskql/mask"
)

// Frame is an immutable in-memory table: ordered column names plus rows
// represented as maps from column name to value.
type Frame struct {
	id      uuid.UUID
	columns []string
	rows    []map[string]interface{}
	source  string
}

// New creates a frame with the given column order and rows. The source names
// where the data came from (a file path, or a label like "derived").
func New(columns []string, rows []map[string]interface{}, source string) *Frame {
	return &Frame{
		id:      uuid.New(),
		columns: columns,
		rows:    rows,
		source:  source,
	}
}

// ID returns the frame's generated handle.
func (f *Frame) ID() string {
	return f.id.String()
}

// Source returns where the frame was loaded from.
func (f *Frame) Source() string {
	return f.source
}

// Columns returns the column names in order. Callers must not modify the
// returned slice.
func (f *Frame) Columns() []string {
	return f.columns
}

// HasColumn reports whether the frame has a column with the given name.
func (f *Frame) HasColumn(name string) bool {
	for _, col := range f.columns {
		if col == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// Row returns row i. Callers must not modify the returned map.
func (f *Frame) Row(i int) map[string]interface{} {
	return f.rows[i]
}

// Rows returns all rows. Callers must not modify the returned slice or maps.
func (f *Frame) Rows() []map[string]interface{} {
	return f.rows
}

// Mask returns a data mask over row i and the given bindings, ready for one
// expression evaluation.
func (f *Frame) Mask(i int, env mask.Bindings) *mask.Mask {
	return mask.New(f.rows[i], env)
}

// Head returns a frame with at most n rows, sharing the underlying data.
func (f *Frame) Head(n int) *Frame {
	if n < 0 || n >= len(f.rows) {
		return f
	}
	return New(f.columns, f.rows[:n], f.source)
}
