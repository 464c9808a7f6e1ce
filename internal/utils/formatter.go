package utils

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Plural formats a count with a noun, adding an "s" when needed
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// RelativeTo returns path relative to base using forward slashes, or path
// unchanged when no relative form exists
func RelativeTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}
