package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgallion1/docintel/internal/doctree"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps one row per document with the outline and segments as
// JSON columns.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens a database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// OpenMemory creates an in-memory database (useful for testing).
func OpenMemory() (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    filename TEXT NOT NULL DEFAULT '',
    outline_title TEXT NOT NULL DEFAULT '',
    raw_text TEXT NOT NULL,
    page_count INTEGER NOT NULL,
    content_hash TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    section_count INTEGER NOT NULL DEFAULT 0,
    segment_count INTEGER NOT NULL DEFAULT 0,
    structure TEXT NOT NULL DEFAULT '[]',
    segments TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_documents_hash ON documents(content_hash);
CREATE INDEX IF NOT EXISTS idx_documents_created ON documents(created_at);
`

func (s *SQLiteStore) Save(ctx context.Context, doc *doctree.Document) error {
	structure, err := json.Marshal(nonNil(doc.Structure))
	if err != nil {
		return fmt.Errorf("marshal structure: %w", err)
	}
	segments, err := json.Marshal(nonNil(doc.Segments))
	if err != nil {
		return fmt.Errorf("marshal segments: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO documents
		    (id, title, filename, outline_title, raw_text, page_count, content_hash,
		     created_at, section_count, segment_count, structure, segments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Title, doc.Filename, doc.OutlineTitle, doc.RawText, doc.PageCount,
		doc.ContentHash, doc.CreatedAt.UTC().Format(timeLayout),
		len(doc.Structure), len(doc.Segments), string(structure), string(segments),
	)
	if err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*doctree.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, filename, outline_title, raw_text, page_count, content_hash,
		       created_at, structure, segments
		FROM documents WHERE id = ?`, id)

	var doc doctree.Document
	var created, structure, segments string
	err := row.Scan(&doc.ID, &doc.Title, &doc.Filename, &doc.OutlineTitle, &doc.RawText,
		&doc.PageCount, &doc.ContentHash, &created, &structure, &segments)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}

	if doc.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(structure), &doc.Structure); err != nil {
		return nil, fmt.Errorf("unmarshal structure: %w", err)
	}
	if err := json.Unmarshal([]byte(segments), &doc.Segments); err != nil {
		return nil, fmt.Errorf("unmarshal segments: %w", err)
	}
	return &doc, nil
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]doctree.Summary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, filename, page_count, section_count, segment_count, created_at
		FROM documents ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := []doctree.Summary{}
	for rows.Next() {
		var sum doctree.Summary
		var created string
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Filename, &sum.PageCount,
			&sum.SectionCount, &sum.SegmentCount, &created); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		if sum.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) FindByHash(ctx context.Context, hash string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE content_hash = ? ORDER BY created_at DESC LIMIT 1`, hash).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find by hash: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// nonNil keeps empty slices encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
