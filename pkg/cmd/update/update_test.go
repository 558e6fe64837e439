package update

import (
	"context"
	"errors"
	"testing"

	"github.com/Paintersrp/journaldb/internal/entry"
	"github.com/Paintersrp/journaldb/pkg/cmd/cmdtest"
)

func TestUpdateAppliesFileValues(t *testing.T) {
	s := cmdtest.NewState(t)
	created := cmdtest.Seed(t, s, entry.Document{
		Title: "Day One", Tags: "+hike", Date: cmdtest.Date(t, "2024-01-05"), Content: "Walked far.",
	})

	doc := entry.ToDocument(created[0])
	doc.Content = "Walked farther."
	path := cmdtest.WriteEntryFile(t, t.TempDir(), "entry.txt", doc)

	out, _, err := cmdtest.Run(t, NewCmdUpdate(s), path)
	if err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if out != "Updated entry 1: Day One (2024-01-05)\n" {
		t.Fatalf("unexpected output %q", out)
	}

	got, err := s.Journal.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Content != "Walked farther." || got.Title != "Day One" {
		t.Fatalf("unexpected entry after update: %+v", got)
	}
}

func TestUpdateRequiresExistingID(t *testing.T) {
	s := cmdtest.NewState(t)
	dir := t.TempDir()
	base := entry.Document{Title: "Ghost", Tags: "", Date: cmdtest.Date(t, "2024-02-01"), Content: "Boo."}

	path := cmdtest.WriteEntryFile(t, dir, "zero.txt", base)
	_, _, err := cmdtest.Run(t, NewCmdUpdate(s), path)
	var invalid *entry.InvalidIdentifierError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidIdentifierError for id 0, got %v", err)
	}

	base.ID = 42
	path = cmdtest.WriteEntryFile(t, dir, "missing.txt", base)
	_, _, err = cmdtest.Run(t, NewCmdUpdate(s), path)
	if !entry.IsNotFound(err) {
		t.Fatalf("expected NotFoundError for id 42, got %v", err)
	}
}
