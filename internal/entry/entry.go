// Package entry defines the journal entry model shared by the codec, the
// record store, the search index and the services that keep them in step.
package entry

import (
	"strings"
	"time"

	"github.com/Paintersrp/journaldb/internal/constants"
)

// Entry is a persisted journal record. An ID of zero means the entry has not
// been written to the record store yet.
type Entry struct {
	ID      int64
	Title   string
	Content string
	Date    time.Time
	// Tags is stored as one opaque, searchable string.
	Tags string
}

// Document is the plaintext file form of an entry. ID zero requests a create,
// any other value addresses an existing entry.
type Document struct {
	ID      int64
	Title   string
	Tags    string
	Date    time.Time
	Content string
}

// Fields is the set of values handed to the record store on create and
// update. Zero values are treated as absent.
type Fields struct {
	Title   string
	Content string
	Date    time.Time
	Tags    string
}

// NormalizeDate truncates t to a calendar date at midnight UTC.
func NormalizeDate(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a calendar date in the fixed entry layout.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(constants.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	return NormalizeDate(t), nil
}

// FormatDate renders a date in the fixed entry layout. The zero time renders
// as an empty string.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(constants.DateLayout)
}

// FromDocument maps a parsed file document onto an entry.
func FromDocument(doc Document) Entry {
	return Entry{
		ID:      doc.ID,
		Title:   doc.Title,
		Content: doc.Content,
		Date:    NormalizeDate(doc.Date),
		Tags:    doc.Tags,
	}
}

// ToDocument maps an entry onto its file document form.
func ToDocument(e Entry) Document {
	return Document{
		ID:      e.ID,
		Title:   e.Title,
		Tags:    e.Tags,
		Date:    NormalizeDate(e.Date),
		Content: e.Content,
	}
}

// Fields returns the document values as a store field set.
func (d Document) Fields() Fields {
	return Fields{
		Title:   d.Title,
		Content: strings.TrimSpace(d.Content),
		Date:    NormalizeDate(d.Date),
		Tags:    d.Tags,
	}
}

// Fields returns the entry values as a store field set.
func (e Entry) Fields() Fields {
	return Fields{
		Title:   e.Title,
		Content: e.Content,
		Date:    NormalizeDate(e.Date),
		Tags:    e.Tags,
	}
}

// Missing lists the required values that are empty. Tags are optional.
func (f Fields) Missing() []string {
	var missing []string
	if strings.TrimSpace(f.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(f.Content) == "" {
		missing = append(missing, "content")
	}
	if f.Date.IsZero() {
		missing = append(missing, "date")
	}
	return missing
}

// IsEmpty reports whether no field is set.
func (f Fields) IsEmpty() bool {
	return f.Title == "" && f.Content == "" && f.Tags == "" && f.Date.IsZero()
}

// Diff returns the non-empty values of f that differ from current. The
// result carries only the fields that must be written.
func (f Fields) Diff(current Entry) Fields {
	var diff Fields
	if f.Title != "" && f.Title != current.Title {
		diff.Title = f.Title
	}
	if f.Content != "" && f.Content != current.Content {
		diff.Content = f.Content
	}
	if !f.Date.IsZero() && !NormalizeDate(f.Date).Equal(NormalizeDate(current.Date)) {
		diff.Date = NormalizeDate(f.Date)
	}
	if f.Tags != "" && f.Tags != current.Tags {
		diff.Tags = f.Tags
	}
	return diff
}

// Apply returns a copy of e with the non-empty values of f written over it.
func (e Entry) Apply(f Fields) Entry {
	out := e
	if f.Title != "" {
		out.Title = f.Title
	}
	if f.Content != "" {
		out.Content = f.Content
	}
	if !f.Date.IsZero() {
		out.Date = NormalizeDate(f.Date)
	}
	if f.Tags != "" {
		out.Tags = f.Tags
	}
	return out
}

// Equal reports whether two entries carry the same id and values.
func (e Entry) Equal(other Entry) bool {
	return e.ID == other.ID && e.SameValues(other)
}

// SameValues compares title, content, date and tags, ignoring the id.
func (e Entry) SameValues(other Entry) bool {
	return e.Title == other.Title &&
		e.Content == other.Content &&
		e.Tags == other.Tags &&
		NormalizeDate(e.Date).Equal(NormalizeDate(other.Date))
}

// Summary is a one-line description used by list output and logs.
func (e Entry) Summary() string {
	return e.Title + " (" + FormatDate(e.Date) + ")"
}
