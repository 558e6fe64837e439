// Package index maintains the search index as a derived copy of the record
// store: full rebuilds, consistency checks and targeted repair.
package index

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Paintersrp/journaldb/internal/entry"
	"github.com/Paintersrp/journaldb/internal/search"
)

// ErrClosed signals that the index service has been shut down.
var ErrClosed = errors.New("index service closed")

// Source lists the authoritative entries.
type Source interface {
	List(ctx context.Context) ([]entry.Entry, error)
}

// Target is the search index being maintained.
type Target interface {
	Upsert(ctx context.Context, doc search.Document) error
	Delete(ctx context.Context, id int64) error
	Documents(ctx context.Context) ([]search.Document, error)
	Count(ctx context.Context) (int, error)
	Replace(ctx context.Context, docs []search.Document) error
}

// Stats captures lightweight instrumentation about the index.
type Stats struct {
	Entries     int
	Documents   int
	LastRebuild time.Time
}

// InSync reports whether the entry and document counts agree.
func (s Stats) InSync() bool {
	return s.Entries == s.Documents
}

// Report lists the ids on which the store and the index disagree.
type Report struct {
	Checked int
	// Missing ids are stored but not indexed.
	Missing []int64
	// Stale ids are indexed with values that differ from the store.
	Stale []int64
	// Orphaned ids are indexed but no longer stored.
	Orphaned []int64
}

// Consistent reports whether no disagreement was found.
func (r Report) Consistent() bool {
	return len(r.Missing) == 0 && len(r.Stale) == 0 && len(r.Orphaned) == 0
}

// Service rebuilds and verifies the search index from the record store.
type Service struct {
	mu          sync.Mutex
	source      Source
	target      Target
	lastRebuild time.Time
	closed      bool

	now func() time.Time
	log zerolog.Logger
}

// NewService constructs an index service over the given store and index.
func NewService(src Source, target Target, logger zerolog.Logger) *Service {
	return &Service{
		source: src,
		target: target,
		now:    time.Now,
		log:    logger.With().Str("component", "index").Logger(),
	}
}

// Rebuild replaces the index content with every stored entry in one
// transaction, so a failed rebuild leaves the index as it was. It returns the
// number of indexed entries.
func (s *Service) Rebuild(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	entries, err := s.source.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list entries: %w", err)
	}

	docs := make([]search.Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, search.FromEntry(e))
	}
	if err := s.target.Replace(ctx, docs); err != nil {
		return 0, fmt.Errorf("rebuild search index: %w", err)
	}

	s.lastRebuild = s.now()
	s.log.Info().Int("entries", len(entries)).Msg("search index rebuilt")
	return len(entries), nil
}

// Verify compares every stored entry with its index document.
func (s *Service) Verify(ctx context.Context) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Report{}, ErrClosed
	}
	report, _, err := s.verify(ctx)
	return report, err
}

// Repair fixes the disagreements found by Verify without a full rebuild and
// returns the report it acted on.
func (s *Service) Repair(ctx context.Context) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Report{}, ErrClosed
	}

	report, stored, err := s.verify(ctx)
	if err != nil {
		return Report{}, err
	}

	for _, id := range append(append([]int64{}, report.Missing...), report.Stale...) {
		if err := s.target.Upsert(ctx, search.FromEntry(stored[id])); err != nil {
			return report, fmt.Errorf("index entry %d: %w", id, err)
		}
	}
	for _, id := range report.Orphaned {
		if err := s.target.Delete(ctx, id); err != nil {
			return report, fmt.Errorf("unindex entry %d: %w", id, err)
		}
	}

	if !report.Consistent() {
		s.log.Info().
			Int("missing", len(report.Missing)).
			Int("stale", len(report.Stale)).
			Int("orphaned", len(report.Orphaned)).
			Msg("search index repaired")
	}
	return report, nil
}

// Stats returns entry and document counts.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Stats{}, ErrClosed
	}

	entries, err := s.source.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list entries: %w", err)
	}
	docs, err := s.target.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Entries: len(entries), Documents: docs, LastRebuild: s.lastRebuild}, nil
}

// Close releases the service. Subsequent calls return ErrClosed. The store
// and index themselves are owned by the caller.
func (s *Service) Close() error {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

func (s *Service) verify(ctx context.Context) (Report, map[int64]entry.Entry, error) {
	entries, err := s.source.List(ctx)
	if err != nil {
		return Report{}, nil, fmt.Errorf("list entries: %w", err)
	}
	docs, err := s.target.Documents(ctx)
	if err != nil {
		return Report{}, nil, fmt.Errorf("list index documents: %w", err)
	}

	stored := make(map[int64]entry.Entry, len(entries))
	for _, e := range entries {
		stored[e.ID] = e
	}
	indexed := make(map[int64]search.Document, len(docs))
	for _, d := range docs {
		indexed[d.ID] = d
	}

	report := Report{Checked: len(entries)}
	for id, e := range stored {
		doc, ok := indexed[id]
		switch {
		case !ok:
			report.Missing = append(report.Missing, id)
		case !doc.Matches(e):
			report.Stale = append(report.Stale, id)
		}
	}
	for id := range indexed {
		if _, ok := stored[id]; !ok {
			report.Orphaned = append(report.Orphaned, id)
		}
	}

	sortIDs(report.Missing)
	sortIDs(report.Stale)
	sortIDs(report.Orphaned)
	return report, stored, nil
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
