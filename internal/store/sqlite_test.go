package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/journaldb/internal/entry"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := entry.ParseDate(value)
	require.NoError(t, err)
	return d
}

func TestCreateAndGetByID(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	id, err := s.Create(ctx, entry.Fields{
		Title: "Day One", Content: "Walked far.", Date: date(t, "2024-01-05"), Tags: "+hike",
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	got, err := s.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entry.Entry{
		ID: id, Title: "Day One", Content: "Walked far.", Date: date(t, "2024-01-05"), Tags: "+hike",
	}, got)
}

func TestIDsAreNeverReused(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	first, err := s.Create(ctx, entry.Fields{Title: "a", Content: "a", Date: date(t, "2024-01-01")})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, first))

	second, err := s.Create(ctx, entry.Fields{Title: "a", Content: "a", Date: date(t, "2024-01-01")})
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestCreateRejectsDuplicateNaturalKey(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	f := entry.Fields{Title: "Same", Content: "one", Date: date(t, "2024-03-03")}
	_, err := s.Create(ctx, f)
	require.NoError(t, err)

	f.Content = "two"
	_, err = s.Create(ctx, f)
	var amb *entry.AmbiguousEntryError
	require.True(t, errors.As(err, &amb), "got %v", err)
	assert.Equal(t, "Same", amb.Title)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGetByIDNotFound(t *testing.T) {
	_, err := setupStore(t).GetByID(context.Background(), 42)
	var nf *entry.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, int64(42), nf.ID)
}

func TestGetByExact(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	id, err := s.Create(ctx, entry.Fields{Title: "Day One", Content: "x", Date: date(t, "2024-01-05")})
	require.NoError(t, err)
	_, err = s.Create(ctx, entry.Fields{Title: "Day One", Content: "y", Date: date(t, "2024-01-06")})
	require.NoError(t, err)

	got, err := s.GetByExact(ctx, Eq(FieldTitle, "Day One"), Eq(FieldDate, date(t, "2024-01-05")))
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = s.GetByExact(ctx, Eq(FieldTitle, "Day One"))
	var amb *entry.AmbiguousEntryError
	require.True(t, errors.As(err, &amb))
	assert.Equal(t, 2, amb.Matches)

	_, err = s.GetByExact(ctx, Eq(FieldTitle, "missing"))
	assert.True(t, entry.IsNotFound(err))

	_, err = s.GetByExact(ctx, Eq(Field("title; DROP TABLE journal_entries"), "x"))
	assert.Error(t, err)

	_, err = s.GetByExact(ctx)
	assert.Error(t, err)
}

func TestFindByPattern(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	for _, f := range []entry.Fields{
		{Title: "Alpine Trip", Content: "c", Date: date(t, "2024-02-10"), Tags: "+mountains"},
		{Title: "Beach Trip", Content: "c", Date: date(t, "2024-01-10"), Tags: "+sea"},
		{Title: "Work notes", Content: "c", Date: date(t, "2024-03-10"), Tags: "+work, +mountains"},
	} {
		_, err := s.Create(ctx, f)
		require.NoError(t, err)
	}

	trips, err := s.FindByPattern(ctx, FieldTitle, "trip")
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, "Beach Trip", trips[0].Title)
	assert.Equal(t, "Alpine Trip", trips[1].Title)

	prefixed, err := s.FindByPattern(ctx, FieldTitle, "Alp*")
	require.NoError(t, err)
	require.Len(t, prefixed, 1)

	tagged, err := s.FindByPattern(ctx, FieldTags, "+mountains")
	require.NoError(t, err)
	assert.Len(t, tagged, 2)

	_, err = s.FindByPattern(ctx, FieldID, "1")
	assert.Error(t, err)
}

func TestUpdateWritesOnlyGivenFields(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	id, err := s.Create(ctx, entry.Fields{Title: "Old", Content: "body", Date: date(t, "2024-01-01"), Tags: "+a"})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, id, entry.Fields{Title: "New"}))

	got, err := s.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "body", got.Content)
	assert.Equal(t, "+a", got.Tags)
	assert.Equal(t, date(t, "2024-01-01"), got.Date)

	require.NoError(t, s.Update(ctx, id, entry.Fields{}))
}

func TestUpdateAndDeleteNotFound(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	assert.True(t, entry.IsNotFound(s.Update(ctx, 7, entry.Fields{Title: "x"})))
	assert.True(t, entry.IsNotFound(s.Update(ctx, 7, entry.Fields{})))
	assert.True(t, entry.IsNotFound(s.Delete(ctx, 7)))
}

func TestListOrdersByDateThenID(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	for _, f := range []entry.Fields{
		{Title: "c", Content: "c", Date: date(t, "2024-05-01")},
		{Title: "a", Content: "a", Date: date(t, "2024-01-01")},
		{Title: "b", Content: "b", Date: date(t, "2024-05-01")},
	} {
		_, err := s.Create(ctx, f)
		require.NoError(t, err)
	}

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "c", "b"}, []string{all[0].Title, all[1].Title, all[2].Title})
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	s, err := Open(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	id, err := s.Create(ctx, entry.Fields{Title: "kept", Content: "c", Date: date(t, "2024-01-01")})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Title)
}
