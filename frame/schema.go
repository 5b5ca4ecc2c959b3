package frame

import "fmt"

// ColumnInfo describes one column of a frame for schema listings.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Schema infers a schema from the frame's values: for each column, the Go
// type of the first non-nil value, or "null" when a column never has one.
func (f *Frame) Schema() []ColumnInfo {
	infos := make([]ColumnInfo, 0, len(f.columns))
	for _, col := range f.columns {
		infos = append(infos, ColumnInfo{Name: col, Type: f.columnType(col)})
	}
	return infos
}

// columnType returns the type name of the first non-nil value in a column
func (f *Frame) columnType(col string) string {
	for _, row := range f.rows {
		if v, ok := row[col]; ok && v != nil {
			switch v.(type) {
			case string:
				return "string"
			case bool:
				return "bool"
			case float32, float64:
				return "double"
			case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
				return "int64"
			default:
				return fmt.Sprintf("%T", v)
			}
		}
	}
	return "null"
}
