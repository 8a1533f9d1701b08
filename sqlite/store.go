package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/docbridge"
)

// Compile-time interface verification.
var _ docbridge.Store = (*Store)(nil)

const (
	// DefaultPageSize is the number of records read per FetchAll page.
	DefaultPageSize = 500

	// DefaultQueryLimit caps Query results when no limit is given.
	DefaultQueryLimit = 10

	// maxQueryTerms bounds the number of terms used for ranking.
	maxQueryTerms = 8
)

const recordColumns = "id, content, source_name, origin, content_type, section, has_code, trust_score, content_hash, loaded_at"

// Store implements docbridge.Store using SQLite.
// Query ranks records by how many query terms their content contains.
type Store struct {
	db *DB

	// PageSize is the FetchAll page size. Defaults to DefaultPageSize.
	PageSize int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewStore creates a new Store.
func NewStore(db *DB) *Store {
	return &Store{db: db, PageSize: DefaultPageSize, Now: time.Now}
}

// EnsureCollection returns the named collection, creating it if needed.
func (s *Store) EnsureCollection(ctx context.Context, name string) (*docbridge.Collection, error) {
	if name == "" {
		return nil, docbridge.Errorf(docbridge.EINVALID, "collection name required")
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (name, purpose, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, docbridge.CollectionPurpose, formatTime(s.Now())); err != nil {
		return nil, unavailable(err, "create collection")
	}

	return s.findCollection(ctx, name)
}

func (s *Store) findCollection(ctx context.Context, name string) (*docbridge.Collection, error) {
	var coll docbridge.Collection
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT name, purpose, created_at FROM collections WHERE name = ?
	`, name).Scan(&coll.Name, &coll.Metadata.Purpose, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docbridge.Errorf(docbridge.ENOTFOUND, "collection %q not found", name)
	}
	if err != nil {
		return nil, unavailable(err, "find collection")
	}

	coll.Metadata.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	return &coll, nil
}

// Upsert writes all records in a single transaction.
func (s *Store) Upsert(ctx context.Context, collection string, records []*docbridge.Record) error {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	if _, err := s.findCollection(ctx, collection); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(err, "begin")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (collection, `+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			content = excluded.content,
			source_name = excluded.source_name,
			origin = excluded.origin,
			content_type = excluded.content_type,
			section = excluded.section,
			has_code = excluded.has_code,
			trust_score = excluded.trust_score,
			content_hash = excluded.content_hash,
			loaded_at = excluded.loaded_at
	`)
	if err != nil {
		return unavailable(err, "prepare upsert")
	}
	defer stmt.Close()

	for _, r := range records {
		m := r.Metadata
		if _, err := stmt.ExecContext(ctx, collection, r.ID, r.Content, m.SourceName, m.Origin,
			m.ContentType, m.Section, m.HasCode, m.TrustScore, m.ContentHash, formatTime(m.LoadedAt)); err != nil {
			return unavailable(err, "upsert")
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable(err, "commit")
	}
	return nil
}

// Query returns records ranked by the number of query terms they contain.
// Ties keep insertion order.
func (s *Store) Query(ctx context.Context, collection string, q docbridge.Query) ([]*docbridge.Record, error) {
	if _, err := s.findCollection(ctx, collection); err != nil {
		return nil, err
	}

	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + recordColumns + ", ")
	terms := queryTerms(q.Text, maxQueryTerms)
	if len(terms) == 0 {
		query.WriteString("0")
	}
	for i, term := range terms {
		if i > 0 {
			query.WriteString(" + ")
		}
		query.WriteString("(instr(lower(content), ?) > 0)")
		args = append(args, term)
	}
	query.WriteString(" AS score FROM records WHERE collection = ?")
	args = append(args, collection)

	if q.Filter.SourceName != nil {
		query.WriteString(" AND source_name = ?")
		args = append(args, *q.Filter.SourceName)
	}

	query.WriteString(" ORDER BY score DESC, rowid ASC")

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	appendPagination(&query, &args, limit, 0)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, unavailable(err, "query")
	}
	defer rows.Close()

	var records []*docbridge.Record
	for rows.Next() {
		var score int
		r, err := scanRecord(rows, &score)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err, "query")
	}
	return records, nil
}

// FetchAll reads the collection in pages ordered by id. Each page is fully
// read before fn is called, so fn may itself use the store.
func (s *Store) FetchAll(ctx context.Context, collection string, fn func(*docbridge.Record) error) error {
	if _, err := s.findCollection(ctx, collection); err != nil {
		return err
	}

	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	after := ""
	for {
		page, err := s.fetchPage(ctx, collection, after, pageSize)
		if err != nil {
			return err
		}
		for _, r := range page {
			if err := fn(r); err != nil {
				return err
			}
		}
		if len(page) < pageSize {
			return nil
		}
		after = page[len(page)-1].ID
	}
}

func (s *Store) fetchPage(ctx context.Context, collection, after string, limit int) ([]*docbridge.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE collection = ? AND id > ?
		ORDER BY id ASC
		LIMIT ?
	`, collection, after, limit)
	if err != nil {
		return nil, unavailable(err, "fetch")
	}
	defer rows.Close()

	var records []*docbridge.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err, "fetch")
	}
	return records, nil
}

// scanRecord scans the record columns followed by any extra destinations.
func scanRecord(rows *sql.Rows, extra ...any) (*docbridge.Record, error) {
	var r docbridge.Record
	var loadedAt string
	m := &r.Metadata

	dest := []any{&r.ID, &r.Content, &m.SourceName, &m.Origin, &m.ContentType, &m.Section,
		&m.HasCode, &m.TrustScore, &m.ContentHash, &loadedAt}
	if err := rows.Scan(append(dest, extra...)...); err != nil {
		return nil, unavailable(err, "scan")
	}

	var err error
	m.LoadedAt, err = parseRFC3339(loadedAt, "loaded_at")
	if err != nil {
		return nil, err
	}
	return &r, nil
}
