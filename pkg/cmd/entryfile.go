package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/journaldb/internal/codec"
	"github.com/Paintersrp/journaldb/internal/entry"
	"github.com/Paintersrp/journaldb/internal/render"
	"github.com/Paintersrp/journaldb/internal/state"
)

// ErrNoSelection is returned when an interactive pick is aborted.
var ErrNoSelection = errors.New("no entry selected")

// PickEntry lets the user choose one of entries and returns its index.
var PickEntry = pickEntry

// Open opens the record store and search index for the running command.
func Open(cmd *cobra.Command, s *state.State) error {
	if s == nil {
		return fmt.Errorf("state is not initialized")
	}
	return s.Open(cmd.Context())
}

// ReportDesync turns an index desync into a warning. The record store write
// already succeeded, so the command still exits cleanly.
func ReportDesync(cmd *cobra.Command, err error) error {
	if err == nil || !entry.IsDesync(err) {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	fmt.Fprintln(cmd.ErrOrStderr(), "The entry was saved. Run `jdb reindex` to repair the search index.")
	return nil
}

// EntryFile returns arg, or the configured default entry file when arg is
// empty.
func EntryFile(s *state.State, arg string) string {
	if strings.TrimSpace(arg) != "" {
		return arg
	}
	if s != nil && s.Config != nil && s.Config.DefaultFile != "" {
		return s.Config.DefaultFile
	}
	return "entry.txt"
}

// SyncFile creates or updates the entry described by the file at path. A
// file with id 0 is created as in CreateFromFile. The returned error may be
// an *entry.IndexDesyncError alongside a valid entry.
func SyncFile(ctx context.Context, s *state.State, path string, writeBack bool) (entry.Entry, bool, error) {
	doc, err := codec.ReadFile(path)
	if err != nil {
		return entry.Entry{}, false, err
	}

	if doc.ID != 0 {
		updated, err := s.Journal.Update(ctx, doc)
		return updated, false, err
	}

	created, err := create(ctx, s, path, doc, writeBack)
	return created, created.ID != 0, err
}

// CreateFromFile adds the file at path as a new entry. The id in its header
// is ignored. When writeBack is set the file is rewritten with the assigned
// id. A non-zero entry is returned whenever the record was stored, even if
// the error is set.
func CreateFromFile(ctx context.Context, s *state.State, path string, writeBack bool) (entry.Entry, error) {
	doc, err := codec.ReadFile(path)
	if err != nil {
		return entry.Entry{}, err
	}
	return create(ctx, s, path, doc, writeBack)
}

func create(ctx context.Context, s *state.State, path string, doc entry.Document, writeBack bool) (entry.Entry, error) {
	created, err := s.Journal.Create(ctx, doc)
	if err != nil && !entry.IsDesync(err) {
		return entry.Entry{}, err
	}

	if writeBack {
		if werr := codec.WriteFile(path, entry.ToDocument(created)); werr != nil {
			if err != nil {
				s.Logger.Warn().Err(err).Int64("id", created.ID).Msg("search index out of sync")
			}
			return created, fmt.Errorf("entry %d was added but %s could not be rewritten: %w", created.ID, path, werr)
		}
	}
	return created, err
}

func pickEntry(entries []entry.Entry) (int, error) {
	idx, err := fuzzyfinder.Find(
		entries,
		func(i int) string {
			return render.PickerLine(entries[i])
		},
		fuzzyfinder.WithHeader("Select an entry."),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			out, err := render.Markdown(entries[i].Content, w-4, true)
			if err != nil {
				return entries[i].Content
			}
			return out
		}),
	)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return -1, ErrNoSelection
	}
	return idx, err
}
