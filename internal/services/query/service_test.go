package query

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/journaldb/internal/entry"
	"github.com/Paintersrp/journaldb/internal/search"
	"github.com/Paintersrp/journaldb/internal/services/journal"
	"github.com/Paintersrp/journaldb/internal/store"
)

type countingSearcher struct {
	Searcher
	calls int
}

func (c *countingSearcher) Query(ctx context.Context, match string, limit int) ([]search.Hit, error) {
	c.calls++
	return c.Searcher.Query(ctx, match, limit)
}

type failingSearcher struct{ err error }

func (f failingSearcher) Query(context.Context, string, int) ([]search.Hit, error) {
	return nil, f.err
}

func setup(t *testing.T) (*Service, *journal.Service, *countingSearcher) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	st, err := store.Open(ctx, filepath.Join(dir, "journal.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	idx, err := search.Open(ctx, filepath.Join(dir, "searchindex", "index.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	counting := &countingSearcher{Searcher: idx}
	return NewService(counting, st, zerolog.Nop()), journal.NewService(st, idx, zerolog.Nop()), counting
}

func seed(t *testing.T, j *journal.Service, docs ...entry.Document) []entry.Entry {
	t.Helper()
	out := make([]entry.Entry, 0, len(docs))
	for _, d := range docs {
		if d.Date.IsZero() {
			var err error
			d.Date, err = entry.ParseDate("2024-02-10")
			require.NoError(t, err)
		}
		e, err := j.Create(context.Background(), d)
		require.NoError(t, err)
		out = append(out, e)
	}
	return out
}

func TestSearchOrdering(t *testing.T) {
	ctx := context.Background()
	q, j, _ := setup(t)

	seed(t, j,
		entry.Document{Title: "Alpine Trip", Tags: "+travel", Content: "long climb to the summit"},
		entry.Document{Title: "Alpine Weather", Tags: "+weather", Content: "cold wind and fresh snow"},
		entry.Document{Title: "Desert Trip", Tags: "+travel", Content: "sand and heat all day"},
		entry.Document{Title: "Groceries", Tags: "+home", Content: "bread milk and eggs today"},
		entry.Document{Title: "Standup", Tags: "+work", Content: "talked about the release plan"},
		entry.Document{Title: "Reading", Tags: "+books", Content: "finished the second chapter"},
		entry.Document{Title: "Garden", Tags: "+home", Content: "planted tomatoes by the fence"},
	)

	results, err := q.Search(ctx, "alpine trip")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "Alpine Trip", results[0].Entry.Title)

	titles := []string{results[1].Entry.Title, results[2].Entry.Title}
	assert.ElementsMatch(t, []string{"Alpine Weather", "Desert Trip"}, titles)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	ctx := context.Background()
	q, j, counting := setup(t)
	seed(t, j, entry.Document{Title: "t", Tags: "+x", Content: "c"})

	for _, text := range []string{"", "  ", "?!"} {
		results, err := q.Search(ctx, text)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
	assert.Zero(t, counting.calls)
}

func TestSearchCarriesStoredFieldsAndResolves(t *testing.T) {
	ctx := context.Background()
	q, j, _ := setup(t)
	created := seed(t, j, entry.Document{Title: "Day One", Tags: "+hike", Content: "Walked far."})

	results, err := q.Search(ctx, "hike")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, created[0], results[0].Entry)
	assert.Greater(t, results[0].Score, 0.0)

	full, err := q.Resolve(ctx, results[0].Entry.ID)
	require.NoError(t, err)
	assert.Equal(t, created[0], full)

	_, err = q.Resolve(ctx, 0)
	var invalid *entry.InvalidIdentifierError
	assert.ErrorAs(t, err, &invalid)
}

func TestSearchOptions(t *testing.T) {
	ctx := context.Background()
	q, j, _ := setup(t)
	seed(t, j,
		entry.Document{Title: "run one", Tags: "+fit", Content: "easy pace"},
		entry.Document{Title: "run two", Tags: "+fit", Content: "hard pace"},
		entry.Document{Title: "rest", Tags: "+run", Content: "no training"},
	)

	limited, err := q.Search(ctx, "run", SearchOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	tagsOnly, err := q.Search(ctx, "run", SearchOptions{Fields: []string{"tags"}})
	require.NoError(t, err)
	require.Len(t, tagsOnly, 1)
	assert.Equal(t, "rest", tagsOnly[0].Entry.Title)
}

func TestSearchPropagatesIndexErrors(t *testing.T) {
	boom := errors.New("boom")
	q := NewService(failingSearcher{err: boom}, nil, zerolog.Nop())

	_, err := q.Search(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}
