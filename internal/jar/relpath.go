package jar

import (
	"path/filepath"
	"strings"
)

// RelPathComponents computes the path components of path relative to base:
// the longest common leading component prefix is stripped, and one ".."
// segment is prepended for every base component left unmatched. When path and
// base are equal the result is empty.
func RelPathComponents(path, base string) []string {
	p := pathComponents(path)
	b := pathComponents(base)

	common := 0
	for common < len(p) && common < len(b) && p[common] == b[common] {
		common++
	}

	out := make([]string, 0, len(b)-common+len(p)-common)
	for range b[common:] {
		out = append(out, "..")
	}
	return append(out, p[common:]...)
}

func pathComponents(path string) []string {
	s := filepath.ToSlash(path)
	parts := strings.Split(s, "/")
	out := parts[:0]
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		out = append(out, part)
	}
	return out
}
