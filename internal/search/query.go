package search

import (
	"fmt"
	"strings"
	"unicode"
)

// DefaultFields are the indexed columns a free-text query is matched against.
var DefaultFields = []string{"title", "content", "tags"}

var indexedFields = map[string]bool{"title": true, "content": true, "tags": true}

// ParseFields normalizes field names given on the command line. Names other
// than the indexed columns are an error.
func ParseFields(names []string) ([]string, error) {
	fields := make([]string, 0, len(names))
	for _, name := range names {
		f := strings.ToLower(strings.TrimSpace(name))
		if !indexedFields[f] {
			return nil, fmt.Errorf("unknown search field %q: choose from %s", name, strings.Join(DefaultFields, ", "))
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// BuildQuery turns free text into an FTS5 match expression. Each term is
// quoted, restricted to fields and OR-combined with the others. Terms with no
// letters or digits are dropped, and an empty result means there is nothing
// to search for.
func BuildQuery(text string, fields ...string) string {
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if indexedFields[f] {
			cols = append(cols, f)
		}
	}
	if len(cols) == 0 {
		cols = DefaultFields
	}
	filter := "{" + strings.Join(cols, " ") + "}"

	var parts []string
	for _, term := range strings.Fields(text) {
		if !hasWordRune(term) {
			continue
		}
		parts = append(parts, filter+" : "+quote(term))
	}
	return strings.Join(parts, " OR ")
}

func quote(term string) string {
	return `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
