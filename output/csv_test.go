package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestCSVFormatter(t *testing.T) {
	rows := []map[string]interface{}{
		{"carat": 0.3, "cut": "Fair", "price": int64(350)},
		{"carat": 1.1, "cut": "Ideal", "price": int64(4800)},
	}

	var buf bytes.Buffer
	formatter := NewCSVFormatter(&buf)
	if err := formatter.Format([]string{"carat", "cut", "price"}, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), buf.String())
	}
	if lines[0] != "carat,cut,price" {
		t.Errorf("header = %q, want column order preserved", lines[0])
	}
	if lines[1] != "0.3,Fair,350" {
		t.Errorf("row 1 = %q", lines[1])
	}
}

func TestCSVFormatter_EmptyRows(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewCSVFormatter(&buf)
	if err := formatter.Format(nil, nil); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty input produced output: %q", buf.String())
	}
}

func TestCSVFormatter_MissingValuesAreEmpty(t *testing.T) {
	rows := []map[string]interface{}{
		{"a": int64(1)},
	}

	var buf bytes.Buffer
	formatter := NewCSVFormatter(&buf)
	if err := formatter.Format([]string{"a", "b"}, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[1] != "1," {
		t.Errorf("row = %q, want missing value left empty", lines[1])
	}
}

func TestCSVFormatter_FormulaGuard(t *testing.T) {
	rows := []map[string]interface{}{
		{"v": "=SUM(A1)"},
	}

	var buf bytes.Buffer
	formatter := NewCSVFormatter(&buf)
	if err := formatter.Format([]string{"v"}, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if !strings.Contains(buf.String(), "'=SUM(A1)") {
		t.Errorf("formula value not prefixed: %q", buf.String())
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil", nil, ""},
		{"string", "x", "x"},
		{"int", int64(42), "42"},
		{"float", 2.5, "2.5"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(tt.in); got != tt.want {
				t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
