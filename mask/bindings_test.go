package mask

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseBinding(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantVal  interface{}
		wantErr  bool
	}{
		{"integer value", "min_carat=2", "min_carat", int64(2), false},
		{"float value", "threshold=0.5", "threshold", 0.5, false},
		{"bool value", "active=true", "active", true, false},
		{"string value", "cut=Ideal", "cut", "Ideal", false},
		{"quoted numeric stays string", `zip="01234"`, "zip", "01234", false},
		{"value containing equals", "expr=a=b", "expr", "a=b", false},
		{"empty value", "name=", "name", "", false},
		{"missing equals", "min_carat", "", nil, true},
		{"empty name", "=5", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, val, err := ParseBinding(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseBinding(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBinding(%q) error = %v", tt.input, err)
			}
			if name != tt.wantName {
				t.Errorf("ParseBinding(%q) name = %q, want %q", tt.input, name, tt.wantName)
			}
			if val != tt.wantVal {
				t.Errorf("ParseBinding(%q) value = %v (%T), want %v (%T)", tt.input, val, val, tt.wantVal, tt.wantVal)
			}
		})
	}
}

func TestLoadBindingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindings.yaml")
	content := "min_carat: 1.5\ncut: Ideal\nlimit: 100\nactive: true\nvar: carat\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write bindings file: %v", err)
	}

	b, err := LoadBindingsFile(path)
	if err != nil {
		t.Fatalf("LoadBindingsFile() error = %v", err)
	}

	want := Bindings{
		"min_carat": 1.5,
		"cut":       "Ideal",
		"limit":     int64(100),
		"active":    true,
		"var":       "carat",
	}
	if len(b) != len(want) {
		t.Fatalf("LoadBindingsFile() = %v, want %v", b, want)
	}
	for name, wantVal := range want {
		if b[name] != wantVal {
			t.Errorf("binding %q = %v (%T), want %v (%T)", name, b[name], b[name], wantVal, wantVal)
		}
	}
}

func TestLoadBindingsFile_RejectsNestedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindings.yaml")
	if err := os.WriteFile(path, []byte("input:\n  var: x\n  min: 0\n"), 0o644); err != nil {
		t.Fatalf("failed to write bindings file: %v", err)
	}

	if _, err := LoadBindingsFile(path); err == nil {
		t.Fatal("LoadBindingsFile() expected error for nested mapping")
	}
}

func TestLoadBindingsFile_MissingFile(t *testing.T) {
	if _, err := LoadBindingsFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("LoadBindingsFile() expected error for missing file")
	}
}

func TestMerge(t *testing.T) {
	file := Bindings{"min": int64(1), "cut": "Fair"}
	flags := Bindings{"cut": "Ideal"}

	merged := Merge(file, flags)
	if merged["min"] != int64(1) {
		t.Errorf("merged[min] = %v, want 1", merged["min"])
	}
	if merged["cut"] != "Ideal" {
		t.Errorf("merged[cut] = %v, want Ideal (flag overrides file)", merged["cut"])
	}

	// Inputs are untouched.
	if file["cut"] != "Fair" {
		t.Errorf("Merge modified its input: file[cut] = %v", file["cut"])
	}
}
