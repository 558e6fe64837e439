package entry

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// FormatError reports a malformed entry document: a missing header marker,
// missing required keys or values, or a value that does not parse.
type FormatError struct {
	Missing []string
	Field   string
	Reason  string
	Err     error
}

func (e *FormatError) Error() string {
	switch {
	case len(e.Missing) > 0 && e.Reason != "":
		return fmt.Sprintf("invalid entry format: %s: %s", e.Reason, strings.Join(e.Missing, ", "))
	case len(e.Missing) > 0:
		return fmt.Sprintf("invalid entry format: missing %s", strings.Join(e.Missing, ", "))
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("invalid entry format: %s: %s: %v", e.Field, e.Reason, e.Err)
	case e.Field != "":
		return fmt.Sprintf("invalid entry format: %s: %s", e.Field, e.Reason)
	default:
		return "invalid entry format: " + e.Reason
	}
}

func (e *FormatError) Unwrap() error { return e.Err }

// NotFoundError is returned when an id or natural key has no matching record.
type NotFoundError struct {
	ID  int64
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("entry not found: %s", e.Key)
	}
	return fmt.Sprintf("entry %d not found", e.ID)
}

// InvalidIdentifierError is returned when an operation needs an existing
// entry id but received zero or a negative value.
type InvalidIdentifierError struct {
	ID int64
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid entry id %d: an existing entry id is required", e.ID)
}

// AmbiguousEntryError signals that the natural key (title, date) did not
// resolve to exactly one record matching what was written.
type AmbiguousEntryError struct {
	Title   string
	Date    time.Time
	Matches int
	Reason  string
}

func (e *AmbiguousEntryError) Error() string {
	msg := fmt.Sprintf("ambiguous entry %q on %s", e.Title, FormatDate(e.Date))
	if e.Matches > 0 {
		msg += fmt.Sprintf(": %d matching records", e.Matches)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// IndexDesyncError reports that the record store mutation succeeded but the
// matching search index mutation failed. The record store remains the source
// of truth; a reindex repairs the search index.
type IndexDesyncError struct {
	ID  int64
	Op  string
	Err error
}

func (e *IndexDesyncError) Error() string {
	return fmt.Sprintf("search index out of sync for entry %d after %s: %v", e.ID, e.Op, e.Err)
}

func (e *IndexDesyncError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsDesync reports whether err is, or wraps, an IndexDesyncError.
func IsDesync(err error) bool {
	var de *IndexDesyncError
	return errors.As(err, &de)
}

// IsFormat reports whether err is, or wraps, a FormatError.
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
