package state

import (
	"testing"
	"time"

	indexsvc "github.com/Paintersrp/journaldb/internal/services/index"
)

func TestFormatIndexStatusIncludesRebuild(t *testing.T) {
	t.Parallel()

	stats := indexsvc.Stats{
		Entries:     3,
		Documents:   3,
		LastRebuild: time.Date(2024, time.March, 5, 17, 42, 0, 0, time.Local),
	}

	got := formatIndexStatus(stats)
	want := "Idx: entries 3 · documents 3 · rebuilt 17:42"
	if got != want {
		t.Fatalf("formatIndexStatus mismatch: got %q, want %q", got, want)
	}
}

func TestFormatIndexStatusFlagsMismatch(t *testing.T) {
	t.Parallel()

	got := formatIndexStatus(indexsvc.Stats{Entries: 2, Documents: 1})
	want := "Idx: entries 2 · documents 1 · out of sync"
	if got != want {
		t.Fatalf("formatIndexStatus mismatch: got %q, want %q", got, want)
	}
}
