// Package search is the full-text search index over journal entries. It is
// a derived store: every document mirrors a record store row and the whole
// index can be rebuilt from the record store at any time.
package search

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/Paintersrp/journaldb/internal/dbx"
	"github.com/Paintersrp/journaldb/internal/entry"
	"github.com/Paintersrp/journaldb/internal/search/migrations"
)

// ErrClosed is returned by operations on a closed index.
var ErrClosed = errors.New("search index closed")

const hitColumns = `rowid, title, content, date, tags`

// FTSIndex stores entry documents in a SQLite FTS5 table keyed by entry id.
type FTSIndex struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens the index database at path, creating the schema if needed.
func Open(ctx context.Context, path string, logger zerolog.Logger) (*FTSIndex, error) {
	db, err := dbx.OpenSQLite(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("search: migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("search: migrate: %w", err)
	}

	logger.Debug().Str("path", path).Msg("search index opened")
	return &FTSIndex{db: db, log: logger}, nil
}

// Upsert adds the document or replaces the one stored under the same id.
func (idx *FTSIndex) Upsert(ctx context.Context, doc Document) error {
	if idx == nil || idx.db == nil {
		return ErrClosed
	}
	if doc.ID <= 0 {
		return &entry.InvalidIdentifierError{ID: doc.ID}
	}

	err := dbx.WithTx(ctx, idx.db, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries_fts WHERE rowid = ?`, doc.ID); err != nil {
			return err
		}
		return insertDocument(ctx, tx, doc)
	})
	if err != nil {
		return fmt.Errorf("search: upsert %d: %w", doc.ID, err)
	}

	idx.log.Debug().Int64("id", doc.ID).Msg("indexed entry")
	return nil
}

// Delete removes the document with the given id. Deleting an absent id is
// not an error.
func (idx *FTSIndex) Delete(ctx context.Context, id int64) error {
	if idx == nil || idx.db == nil {
		return ErrClosed
	}

	res, err := idx.db.ExecContext(ctx, `DELETE FROM entries_fts WHERE rowid = ?`, id)
	if err != nil {
		return fmt.Errorf("search: delete %d: %w", id, err)
	}

	n, _ := res.RowsAffected()
	idx.log.Debug().Int64("id", id).Int64("removed", n).Msg("unindexed entry")
	return nil
}

// Query runs an FTS5 match expression and returns hits ordered by
// descending score, then by id. A blank expression returns no hits. A
// positive limit truncates the result.
func (idx *FTSIndex) Query(ctx context.Context, match string, limit int) ([]Hit, error) {
	if idx == nil || idx.db == nil {
		return nil, ErrClosed
	}
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := idx.db.QueryContext(ctx, `
		SELECT `+hitColumns+`, -bm25(entries_fts) AS score
		FROM entries_fts
		WHERE entries_fts MATCH ?
		ORDER BY score DESC, rowid
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("search: query %q: %w", match, err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var score float64
		doc, err := scanDocument(rows, &score)
		if err != nil {
			return nil, err
		}
		hits = append(hits, Hit{ID: doc.ID, Score: score, Document: doc})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search: read hits: %w", err)
	}

	idx.log.Debug().Str("match", match).Int("hits", len(hits)).Msg("searched index")
	return hits, nil
}

// Search builds a query from free text over DefaultFields and runs it.
func (idx *FTSIndex) Search(ctx context.Context, text string, limit int) ([]Hit, error) {
	return idx.Query(ctx, BuildQuery(text), limit)
}

// Get returns the stored document for id. The boolean is false when the id
// is not indexed.
func (idx *FTSIndex) Get(ctx context.Context, id int64) (Document, bool, error) {
	if idx == nil || idx.db == nil {
		return Document{}, false, ErrClosed
	}

	row := idx.db.QueryRowContext(ctx, `SELECT `+hitColumns+` FROM entries_fts WHERE rowid = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, err
	}
	return doc, true, nil
}

// Documents returns every stored document ordered by id.
func (idx *FTSIndex) Documents(ctx context.Context) ([]Document, error) {
	if idx == nil || idx.db == nil {
		return nil, ErrClosed
	}

	rows, err := idx.db.QueryContext(ctx, `SELECT `+hitColumns+` FROM entries_fts ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("search: list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search: list documents: %w", err)
	}
	return docs, nil
}

// Count returns the number of indexed documents.
func (idx *FTSIndex) Count(ctx context.Context) (int, error) {
	if idx == nil || idx.db == nil {
		return 0, ErrClosed
	}

	var n int
	if err := idx.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries_fts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("search: count: %w", err)
	}
	return n, nil
}

// Reset removes every document.
func (idx *FTSIndex) Reset(ctx context.Context) error {
	if idx == nil || idx.db == nil {
		return ErrClosed
	}

	if _, err := idx.db.ExecContext(ctx, `DELETE FROM entries_fts`); err != nil {
		return fmt.Errorf("search: reset: %w", err)
	}
	idx.log.Debug().Msg("search index reset")
	return nil
}

// Replace swaps the whole index content for docs in one transaction. On
// error the previous documents are kept.
func (idx *FTSIndex) Replace(ctx context.Context, docs []Document) error {
	if idx == nil || idx.db == nil {
		return ErrClosed
	}

	err := dbx.WithTx(ctx, idx.db, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries_fts`); err != nil {
			return err
		}
		for _, doc := range docs {
			if doc.ID <= 0 {
				return &entry.InvalidIdentifierError{ID: doc.ID}
			}
			if err := insertDocument(ctx, tx, doc); err != nil {
				return fmt.Errorf("insert %d: %w", doc.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("search: replace: %w", err)
	}

	idx.log.Debug().Int("documents", len(docs)).Msg("search index replaced")
	return nil
}

// Close releases the index database. Further calls return ErrClosed.
func (idx *FTSIndex) Close() error {
	if idx == nil || idx.db == nil {
		return nil
	}
	err := idx.db.Close()
	idx.db = nil
	return err
}

func insertDocument(ctx context.Context, tx dbx.DBTX, doc Document) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO entries_fts (rowid, title, content, date, tags) VALUES (?, ?, ?, ?, ?)`,
		doc.ID, doc.Title, doc.Content, entry.FormatDate(doc.Date), doc.Tags,
	)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner, extra ...any) (Document, error) {
	var (
		doc  Document
		date string
	)
	dest := append([]any{&doc.ID, &doc.Title, &doc.Content, &date, &doc.Tags}, extra...)
	if err := row.Scan(dest...); err != nil {
		return Document{}, err
	}

	if date != "" {
		parsed, err := entry.ParseDate(date)
		if err != nil {
			return Document{}, fmt.Errorf("search: document %d has invalid date %q: %w", doc.ID, date, err)
		}
		doc.Date = parsed
	}
	return doc, nil
}
