// Package store is the authoritative record store for journal entries. It
// keeps one row per entry in a SQLite table and assigns entry ids.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/Paintersrp/journaldb/internal/dbx"
	"github.com/Paintersrp/journaldb/internal/entry"
	"github.com/Paintersrp/journaldb/internal/store/migrations"
)

// Field names a column that callers may filter on.
type Field string

const (
	FieldID      Field = "id"
	FieldTitle   Field = "title"
	FieldContent Field = "content"
	FieldDate    Field = "date"
	FieldTags    Field = "tags"
)

func (f Field) valid() bool {
	switch f {
	case FieldID, FieldTitle, FieldContent, FieldDate, FieldTags:
		return true
	}
	return false
}

// Condition is an equality filter on one field.
type Condition struct {
	Field Field
	Value any
}

// Eq builds an equality Condition.
func Eq(field Field, value any) Condition {
	return Condition{Field: field, Value: value}
}

const selectColumns = `id, title, content, date, tags`

// SQLiteStore implements the record store on SQLite.
type SQLiteStore struct {
	db     *sql.DB
	log    zerolog.Logger
	ownsDB bool
}

// Open opens the database at path, applies pending migrations and returns a
// store that owns the connection.
func Open(ctx context.Context, path string, logger zerolog.Logger) (*SQLiteStore, error) {
	db, err := dbx.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}

	s := New(db, logger)
	s.ownsDB = true
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug().Str("path", path).Msg("record store opened")
	return s, nil
}

// New wraps an existing connection. The caller is responsible for running
// Migrate and for closing db.
func New(db *sql.DB, logger zerolog.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, log: logger}
}

// Migrate applies the embedded schema migrations.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, migrations.FS)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate record store: %w", err)
	}
	for _, r := range results {
		s.log.Debug().
			Int64("version", r.Source.Version).
			Dur("duration", r.Duration).
			Msg("applied migration")
	}
	return nil
}

// Create inserts a new row and returns the id assigned by the database.
func (s *SQLiteStore) Create(ctx context.Context, f entry.Fields) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO journal_entries (title, content, date, tags) VALUES (?, ?, ?, ?)`,
		f.Title, f.Content, entry.FormatDate(f.Date), f.Tags,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, &entry.AmbiguousEntryError{
				Title:  f.Title,
				Date:   f.Date,
				Reason: "an entry with this title and date already exists",
			}
		}
		return 0, fmt.Errorf("failed to insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}
	return id, nil
}

// GetByID returns the entry with the given id.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (entry.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM journal_entries WHERE id = ?`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entry.Entry{}, &entry.NotFoundError{ID: id}
	}
	if err != nil {
		return entry.Entry{}, fmt.Errorf("failed to get entry %d: %w", id, err)
	}
	return e, nil
}

// GetByExact returns the single entry matching every condition. No match is
// a NotFoundError and more than one is an AmbiguousEntryError.
func (s *SQLiteStore) GetByExact(ctx context.Context, conds ...Condition) (entry.Entry, error) {
	if len(conds) == 0 {
		return entry.Entry{}, errors.New("at least one condition is required")
	}

	where, args, err := buildWhere(conds)
	if err != nil {
		return entry.Entry{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM journal_entries WHERE `+where+` ORDER BY id LIMIT 2`, args...)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("failed to query entries: %w", err)
	}
	found, err := scanEntries(rows)
	if err != nil {
		return entry.Entry{}, err
	}

	switch len(found) {
	case 0:
		return entry.Entry{}, &entry.NotFoundError{Key: describe(conds)}
	case 1:
		return found[0], nil
	}

	amb := &entry.AmbiguousEntryError{Matches: len(found), Reason: "natural key matched more than one record"}
	for _, c := range conds {
		switch c.Field {
		case FieldTitle:
			amb.Title, _ = c.Value.(string)
		case FieldDate:
			amb.Date = found[0].Date
		}
	}
	return entry.Entry{}, amb
}

// FindByPattern returns entries whose field matches a LIKE pattern, ordered
// by date then id. A '*' in pattern matches any run of characters; a pattern
// with no wildcard matches anywhere in the value.
func (s *SQLiteStore) FindByPattern(ctx context.Context, field Field, pattern string) ([]entry.Entry, error) {
	if !field.valid() || field == FieldID {
		return nil, fmt.Errorf("cannot match pattern on field %q", field)
	}

	like := strings.ReplaceAll(pattern, "*", "%")
	if !strings.ContainsAny(like, "%_") {
		like = "%" + like + "%"
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM journal_entries WHERE `+string(field)+` LIKE ? ORDER BY date, id`, like)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	return scanEntries(rows)
}

// Update writes the non-empty values of f onto the row with the given id.
// An empty field set only checks that the row exists.
func (s *SQLiteStore) Update(ctx context.Context, id int64, f entry.Fields) error {
	if f.IsEmpty() {
		_, err := s.GetByID(ctx, id)
		return err
	}

	var (
		sets []string
		args []any
	)
	if f.Title != "" {
		sets = append(sets, "title = ?")
		args = append(args, f.Title)
	}
	if f.Content != "" {
		sets = append(sets, "content = ?")
		args = append(args, f.Content)
	}
	if !f.Date.IsZero() {
		sets = append(sets, "date = ?")
		args = append(args, entry.FormatDate(f.Date))
	}
	if f.Tags != "" {
		sets = append(sets, "tags = ?")
		args = append(args, f.Tags)
	}
	sets = append(sets, "updated_at = strftime('%s', 'now')")
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE journal_entries SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return &entry.AmbiguousEntryError{
				Title:  f.Title,
				Date:   f.Date,
				Reason: "another entry already uses this title and date",
			}
		}
		return fmt.Errorf("failed to update entry %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return &entry.NotFoundError{ID: id}
	}
	return nil
}

// Delete removes the row with the given id.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM journal_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return &entry.NotFoundError{ID: id}
	}
	return nil
}

// List returns every entry ordered by date then id.
func (s *SQLiteStore) List(ctx context.Context) ([]entry.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM journal_entries ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return scanEntries(rows)
}

// Count returns the number of stored entries.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM journal_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

// Close releases the connection if the store opened it.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil || !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (entry.Entry, error) {
	var (
		e    entry.Entry
		date string
	)
	if err := row.Scan(&e.ID, &e.Title, &e.Content, &date, &e.Tags); err != nil {
		return entry.Entry{}, err
	}

	parsed, err := entry.ParseDate(date)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("entry %d has invalid stored date %q: %w", e.ID, date, err)
	}
	e.Date = parsed
	return e, nil
}

func scanEntries(rows *sql.Rows) ([]entry.Entry, error) {
	defer rows.Close()

	var out []entry.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return out, nil
}

func buildWhere(conds []Condition) (string, []any, error) {
	clauses := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))
	for _, c := range conds {
		if !c.Field.valid() {
			return "", nil, fmt.Errorf("unknown field %q", c.Field)
		}
		clauses = append(clauses, string(c.Field)+" = ?")
		args = append(args, conditionValue(c))
	}
	return strings.Join(clauses, " AND "), args, nil
}

// conditionValue converts dates to their stored text form.
func conditionValue(c Condition) any {
	if t, ok := c.Value.(time.Time); ok {
		return entry.FormatDate(t)
	}
	return c.Value
}

func describe(conds []Condition) string {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		parts = append(parts, fmt.Sprintf("%s=%v", c.Field, conditionValue(c)))
	}
	return strings.Join(parts, ", ")
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
