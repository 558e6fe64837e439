// Package query answers free-text searches over the journal.
package query

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Paintersrp/journaldb/internal/entry"
	"github.com/Paintersrp/journaldb/internal/search"
)

// Searcher runs an FTS match expression against the search index.
type Searcher interface {
	Query(ctx context.Context, match string, limit int) ([]search.Hit, error)
}

// EntryGetter resolves an id to the full stored entry.
type EntryGetter interface {
	GetByID(ctx context.Context, id int64) (entry.Entry, error)
}

// Result is one ranked match. Entry carries the stored index copy of the
// entry fields.
type Result struct {
	Entry entry.Entry
	Score float64
}

// SearchOptions adjusts a search.
type SearchOptions struct {
	// Limit keeps only the first Limit results. Zero keeps all of them.
	Limit int
	// Fields restricts matching to a subset of title, content and tags.
	Fields []string
}

// Service is the query engine.
type Service struct {
	index Searcher
	store EntryGetter
	log   zerolog.Logger
}

// NewService builds a query engine over idx, resolving full entries from st.
func NewService(idx Searcher, st EntryGetter, logger zerolog.Logger) *Service {
	return &Service{
		index: idx,
		store: st,
		log:   logger.With().Str("component", "query").Logger(),
	}
}

// Search matches text against title, content and tags and returns results
// in descending score order. Blank text returns no results without
// consulting the index.
func (s *Service) Search(ctx context.Context, text string, opts ...SearchOptions) ([]Result, error) {
	if s == nil || s.index == nil {
		return nil, errors.New("query service is not configured")
	}

	var o SearchOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	if strings.TrimSpace(text) == "" {
		return []Result{}, nil
	}
	match := search.BuildQuery(text, o.Fields...)
	if match == "" {
		s.log.Debug().Str("text", text).Msg("query has no searchable terms")
		return []Result{}, nil
	}

	hits, err := s.index.Query(ctx, match, o.Limit)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, Result{Entry: h.Document.Entry(), Score: h.Score})
	}
	return results, nil
}

// Resolve fetches the authoritative record for a search result id.
func (s *Service) Resolve(ctx context.Context, id int64) (entry.Entry, error) {
	if s == nil || s.store == nil {
		return entry.Entry{}, errors.New("query service is not configured")
	}
	if id <= 0 {
		return entry.Entry{}, &entry.InvalidIdentifierError{ID: id}
	}
	return s.store.GetByID(ctx, id)
}
