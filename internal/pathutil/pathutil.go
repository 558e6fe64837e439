package pathutil

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts Windows-style separators to the current platform's separator
// and cleans the resulting path.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}

	replaced := strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(filepath.FromSlash(replaced))
}

// ExpandHome replaces a leading "~" with home and normalizes the result.
func ExpandHome(p, home string) string {
	if p == "~" {
		return NormalizePath(home)
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~\\") {
		return NormalizePath(filepath.Join(home, p[2:]))
	}
	return NormalizePath(p)
}

// Relative returns the path to target relative to dir, always with forward
// slashes. Targets outside dir yield a path starting with "..".
func Relative(dir, target string) (string, error) {
	base := NormalizePath(dir)
	cleanedTarget := NormalizePath(target)

	rel, err := filepath.Rel(base, cleanedTarget)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}

// IsEntryFile reports whether name has the given extension, ignoring case
// and hidden or editor swap files.
func IsEntryFile(name, ext string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), ext)
}
