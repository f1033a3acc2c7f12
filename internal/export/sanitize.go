package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

// ErrInvalidOutputDir is wrapped by every CheckOutputDir rejection.
var ErrInvalidOutputDir = errors.New("invalid output_dir")

// SanitizeName makes s safe as both a file name and an EDL clip name:
// control characters are dropped, anything outside letters, digits and a
// few punctuation marks becomes '_', and leading dots are removed so the
// result is never a hidden file. maxLen counts runes; 0 means unlimited.
func SanitizeName(s string, maxLen int) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r):
			return -1
		case unicode.IsLetter(r), unicode.IsDigit(r), strings.ContainsRune(" -_.,()", r):
			return r
		default:
			return '_'
		}
	}, s)

	cleaned := strings.TrimLeft(strings.TrimSpace(mapped), ".")
	if runes := []rune(cleaned); maxLen > 0 && len(runes) > maxLen {
		cleaned = strings.TrimSpace(string(runes[:maxLen]))
	}
	return cleaned
}

// CheckOutputDir accepts only an existing directory given as a clean path.
func CheckOutputDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("%w: output_dir is required", ErrInvalidOutputDir)
	}
	if slices.Contains(strings.Split(filepath.ToSlash(dir), "/"), "..") {
		return fmt.Errorf("%w: path traversal is not allowed", ErrInvalidOutputDir)
	}
	if filepath.Clean(dir) != dir {
		return fmt.Errorf("%w: %q is not a clean path", ErrInvalidOutputDir, dir)
	}

	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %q does not exist", ErrInvalidOutputDir, dir)
	case err != nil:
		return fmt.Errorf("%w: %v", ErrInvalidOutputDir, err)
	case !info.IsDir():
		return fmt.Errorf("%w: %q is not a directory", ErrInvalidOutputDir, dir)
	}

	return nil
}
