package arg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Paintersrp/journaldb/internal/entry"
)

// HandleID parses the entry id at position i of args.
func HandleID(args []string, i int) (int64, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("error: No entry id given. Try again")
	}

	raw := strings.TrimSpace(args[i])
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid entry id %q: must be a number", raw)
	}
	if id <= 0 {
		return 0, &entry.InvalidIdentifierError{ID: id}
	}
	return id, nil
}

// HandleOptional returns the argument at position i, or "" when absent.
func HandleOptional(args []string, i int) string {
	if len(args) <= i {
		return ""
	}
	return args[i]
}
