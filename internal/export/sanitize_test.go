package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"control chars dropped", " A\nB\rC\tD\x00 ", 100, "ABCD"},
		{"allowed kept", "Az09 -_.,()", 100, "Az09 -_.,()"},
		{"disallowed replaced", "bad<>|\"name", 100, "bad____name"},
		{"unicode letters kept", "Plage été", 100, "Plage été"},
		{"leading dots removed", "..hidden cut", 100, "hidden cut"},
		{"truncated by runes", "abcdefghijklmnopqrstuvwxyz", 10, "abcdefghij"},
		{"truncation trims trailing space", "abcd efgh", 5, "abcd"},
		{"unlimited", "abcdefghijklmnopqrstuvwxyz", 0, "abcdefghijklmnopqrstuvwxyz"},
		{"only junk", "\x00\x01", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("SanitizeName(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestCheckOutputDir(t *testing.T) {
	base := t.TempDir()
	if err := CheckOutputDir(base); err != nil {
		t.Fatalf("CheckOutputDir(%q) error = %v", base, err)
	}

	file := filepath.Join(base, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		dir  string
	}{
		{"empty", "  "},
		{"traversal", "/tmp/../etc"},
		{"unclean", base + "/"},
		{"missing", filepath.Join(base, "missing")},
		{"not a directory", file},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckOutputDir(tt.dir); !errors.Is(err, ErrInvalidOutputDir) {
				t.Fatalf("CheckOutputDir(%q) error = %v, want ErrInvalidOutputDir", tt.dir, err)
			}
		})
	}
}
