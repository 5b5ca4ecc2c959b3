package frame

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
)

// diamondRow defines the test parquet schema
type diamondRow struct {
	Carat float64 `parquet:"carat"`
	Cut   string  `parquet:"cut"`
	Price int64   `parquet:"price"`
}

// writeParquetFile writes rows to a parquet file and returns its path.
func writeParquetFile(t *testing.T, dir, name string, rows []diamondRow) string {
	t.Helper()
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	defer func() { _ = f.Close() }()

	writer := parquet.NewGenericWriter[diamondRow](f)
	if _, err := writer.Write(rows); err != nil {
		t.Fatalf("failed to write test data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	return path
}

func TestLoadParquet(t *testing.T) {
	path := writeParquetFile(t, t.TempDir(), "diamonds.parquet", []diamondRow{
		{Carat: 0.3, Cut: "Fair", Price: 350},
		{Carat: 1.1, Cut: "Ideal", Price: 4800},
	})

	f, err := LoadParquet(path)
	if err != nil {
		t.Fatalf("LoadParquet() error = %v", err)
	}

	wantColumns := []string{"carat", "cut", "price"}
	if len(f.Columns()) != len(wantColumns) {
		t.Fatalf("Columns() = %v, want %v", f.Columns(), wantColumns)
	}
	for i, col := range wantColumns {
		if f.Columns()[i] != col {
			t.Errorf("column %d = %q, want %q", i, f.Columns()[i], col)
		}
	}

	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", f.Len())
	}
	row := f.Row(1)
	if row["carat"] != 1.1 {
		t.Errorf("carat = %v, want 1.1", row["carat"])
	}
	if row["cut"] != "Ideal" {
		t.Errorf("cut = %v, want Ideal", row["cut"])
	}
	if row["price"] != int64(4800) {
		t.Errorf("price = %v (%T), want 4800 (int64)", row["price"], row["price"])
	}
}

func TestLoadParquet_MissingFile(t *testing.T) {
	if _, err := LoadParquet(filepath.Join(t.TempDir(), "nope.parquet")); err == nil {
		t.Fatal("LoadParquet() expected error for missing file")
	}
}

func TestLoadParquet_NotParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.parquet")
	if err := os.WriteFile(path, []byte("not a parquet file"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := LoadParquet(path); err == nil {
		t.Fatal("LoadParquet() expected error for invalid file")
	}
}

func TestLoadGlob_MultipleFiles(t *testing.T) {
	dir := t.TempDir()
	writeParquetFile(t, dir, "part1.parquet", []diamondRow{{Carat: 0.3, Cut: "Fair", Price: 350}})
	writeParquetFile(t, dir, "part2.parquet", []diamondRow{{Carat: 1.1, Cut: "Ideal", Price: 4800}})

	f, err := LoadGlob(filepath.Join(dir, "*.parquet"))
	if err != nil {
		t.Fatalf("LoadGlob() error = %v", err)
	}

	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", f.Len())
	}
	if !f.HasColumn("_file") {
		t.Fatal("glob load should add a _file column")
	}
	for i := 0; i < f.Len(); i++ {
		src, ok := f.Row(i)["_file"].(string)
		if !ok || src == "" {
			t.Errorf("row %d _file = %v, want source path", i, f.Row(i)["_file"])
		}
	}
}

func TestLoadGlob_SingleFileNoTag(t *testing.T) {
	path := writeParquetFile(t, t.TempDir(), "single.parquet", []diamondRow{{Carat: 0.3, Cut: "Fair", Price: 350}})

	f, err := LoadGlob(path)
	if err != nil {
		t.Fatalf("LoadGlob() error = %v", err)
	}
	if f.HasColumn("_file") {
		t.Error("single-file load should not add a _file column")
	}
}

func TestLoadGlob_NoMatches(t *testing.T) {
	if _, err := LoadGlob(filepath.Join(t.TempDir(), "*.parquet")); err == nil {
		t.Fatal("LoadGlob() expected error when nothing matches")
	}
}
