// Package journal keeps the record store and the search index in step. Every
// mutation is applied to the record store first and mirrored into the index
// second; an index failure never undoes the store write and is reported as
// an entry.IndexDesyncError instead.
package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Paintersrp/journaldb/internal/entry"
	"github.com/Paintersrp/journaldb/internal/search"
	"github.com/Paintersrp/journaldb/internal/store"
)

// RecordStore is the authoritative entry store.
type RecordStore interface {
	Create(ctx context.Context, f entry.Fields) (int64, error)
	GetByID(ctx context.Context, id int64) (entry.Entry, error)
	GetByExact(ctx context.Context, conds ...store.Condition) (entry.Entry, error)
	FindByPattern(ctx context.Context, field store.Field, pattern string) ([]entry.Entry, error)
	Update(ctx context.Context, id int64, f entry.Fields) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]entry.Entry, error)
}

// SearchIndex is the derived full-text index.
type SearchIndex interface {
	Upsert(ctx context.Context, doc search.Document) error
	Delete(ctx context.Context, id int64) error
}

// Service applies create, update and delete to both stores.
type Service struct {
	store RecordStore
	index SearchIndex
	log   zerolog.Logger
}

// NewService wires a synchronizer over the given store and index.
func NewService(s RecordStore, idx SearchIndex, logger zerolog.Logger) *Service {
	return &Service{
		store: s,
		index: idx,
		log:   logger.With().Str("component", "journal").Logger(),
	}
}

// Create inserts a new entry from doc and indexes it. The document id is
// ignored; the record store assigns one. When only the index write fails,
// the stored entry is returned together with an *entry.IndexDesyncError.
func (s *Service) Create(ctx context.Context, doc entry.Document) (entry.Entry, error) {
	if err := s.ready(); err != nil {
		return entry.Entry{}, err
	}

	fields := doc.Fields()
	if missing := fields.Missing(); len(missing) > 0 {
		return entry.Entry{}, &entry.FormatError{
			Missing: missing,
			Reason:  "an entry needs a title, content and date",
		}
	}
	if doc.ID != 0 {
		s.log.Debug().Int64("id", doc.ID).Msg("ignoring document id on create")
	}

	key := naturalKey(fields)
	existing, err := s.store.GetByExact(ctx, key...)
	switch {
	case err == nil:
		return entry.Entry{}, &entry.AmbiguousEntryError{
			Title:   fields.Title,
			Date:    fields.Date,
			Matches: 1,
			Reason:  fmt.Sprintf("entry %d already uses this title and date", existing.ID),
		}
	case !entry.IsNotFound(err):
		return entry.Entry{}, err
	}

	id, err := s.store.Create(ctx, fields)
	if err != nil {
		return entry.Entry{}, err
	}

	created, err := s.store.GetByExact(ctx, key...)
	if err != nil {
		if entry.IsNotFound(err) {
			return entry.Entry{}, fmt.Errorf("created entry %d could not be located: %w", id, err)
		}
		return entry.Entry{}, err
	}

	want := entry.Entry{ID: id}.Apply(fields)
	if created.ID != id || !created.SameValues(want) {
		return entry.Entry{}, &entry.AmbiguousEntryError{
			Title:   fields.Title,
			Date:    fields.Date,
			Matches: 1,
			Reason:  fmt.Sprintf("stored entry %d does not match the written fields", created.ID),
		}
	}
	s.log.Debug().Int64("id", id).Str("title", created.Title).Msg("entry stored")

	if err := s.index.Upsert(ctx, search.FromEntry(created)); err != nil {
		return created, s.desync(created.ID, "create", err)
	}
	return created, nil
}

// Update applies the non-empty fields of doc to the entry doc.ID and
// re-indexes the full resulting record.
func (s *Service) Update(ctx context.Context, doc entry.Document) (entry.Entry, error) {
	if err := s.ready(); err != nil {
		return entry.Entry{}, err
	}
	if doc.ID <= 0 {
		return entry.Entry{}, &entry.InvalidIdentifierError{ID: doc.ID}
	}

	current, err := s.store.GetByID(ctx, doc.ID)
	if err != nil {
		return entry.Entry{}, err
	}

	diff := doc.Fields().Diff(current)
	if diff.IsEmpty() {
		s.log.Debug().Int64("id", doc.ID).Msg("no field changes")
	} else if err := s.store.Update(ctx, doc.ID, diff); err != nil {
		return entry.Entry{}, err
	}

	updated, err := s.store.GetByID(ctx, doc.ID)
	if err != nil {
		return entry.Entry{}, err
	}
	s.log.Debug().Int64("id", updated.ID).Msg("entry updated")

	if err := s.index.Upsert(ctx, search.FromEntry(updated)); err != nil {
		return updated, s.desync(updated.ID, "update", err)
	}
	return updated, nil
}

// Delete removes the entry from the record store and then from the index.
// A missing id is a NotFoundError and leaves the index untouched.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.ready(); err != nil {
		return err
	}
	if id <= 0 {
		return &entry.InvalidIdentifierError{ID: id}
	}

	if _, err := s.store.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Debug().Int64("id", id).Msg("entry deleted")

	if err := s.index.Delete(ctx, id); err != nil {
		return s.desync(id, "delete", err)
	}
	return nil
}

// Get returns the stored entry with the given id.
func (s *Service) Get(ctx context.Context, id int64) (entry.Entry, error) {
	if err := s.ready(); err != nil {
		return entry.Entry{}, err
	}
	if id <= 0 {
		return entry.Entry{}, &entry.InvalidIdentifierError{ID: id}
	}
	return s.store.GetByID(ctx, id)
}

// List returns every stored entry ordered by date.
func (s *Service) List(ctx context.Context) ([]entry.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.List(ctx)
}

// FindByTitle returns entries whose title matches pattern.
func (s *Service) FindByTitle(ctx context.Context, pattern string) ([]entry.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.FindByPattern(ctx, store.FieldTitle, pattern)
}

// FindByTags returns entries whose tag string matches pattern.
func (s *Service) FindByTags(ctx context.Context, pattern string) ([]entry.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.FindByPattern(ctx, store.FieldTags, pattern)
}

func (s *Service) ready() error {
	if s == nil || s.store == nil || s.index == nil {
		return errors.New("journal service is not configured")
	}
	return nil
}

func (s *Service) desync(id int64, op string, err error) error {
	s.log.Warn().Err(err).Int64("id", id).Str("op", op).Msg("search index out of sync")
	return &entry.IndexDesyncError{ID: id, Op: op, Err: err}
}

func naturalKey(f entry.Fields) []store.Condition {
	return []store.Condition{
		store.Eq(store.FieldTitle, f.Title),
		store.Eq(store.FieldDate, f.Date),
	}
}
