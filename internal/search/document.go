package search

import (
	"time"

	"github.com/Paintersrp/journaldb/internal/entry"
)

// Document is the stored copy of an entry kept alongside its postings, so
// hits can be displayed without a record store round-trip.
type Document struct {
	ID      int64
	Title   string
	Content string
	Date    time.Time
	Tags    string
}

// Hit is a single ranked match. Higher scores rank first.
type Hit struct {
	ID       int64
	Score    float64
	Document Document
}

// FromEntry maps a persisted entry onto its index document.
func FromEntry(e entry.Entry) Document {
	return Document{
		ID:      e.ID,
		Title:   e.Title,
		Content: e.Content,
		Date:    entry.NormalizeDate(e.Date),
		Tags:    e.Tags,
	}
}

// Entry maps the stored index fields back onto an entry.
func (d Document) Entry() entry.Entry {
	return entry.Entry{
		ID:      d.ID,
		Title:   d.Title,
		Content: d.Content,
		Date:    entry.NormalizeDate(d.Date),
		Tags:    d.Tags,
	}
}

// Matches reports whether the document carries exactly the values of e.
func (d Document) Matches(e entry.Entry) bool {
	return d.Entry().Equal(e)
}
