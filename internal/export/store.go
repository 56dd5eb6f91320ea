// Package export writes validated reports into the managed document store and
// maintains the consolidated search index.
package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrDocumentNotFound indicates a missing document path.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore is a path-addressed JSON document store backed by sqlite.
type DocumentStore struct {
	db *sql.DB
}

// OpenStore opens (and if needed initializes) the document store file.
func OpenStore(path string) (*DocumentStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS documents (
	path       TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init document store schema: %w", err)
	}

	return &DocumentStore{db: db}, nil
}

// Put upserts a JSON document at the given path.
func (s *DocumentStore) Put(ctx context.Context, path string, doc interface{}) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", path, err)
	}

	const query = `
INSERT INTO documents (path, body, updated_at) VALUES (?, ?, ?)
ON CONFLICT(path) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at;`
	if _, err := s.db.ExecContext(ctx, query, path, string(body), time.Now().UTC()); err != nil {
		return fmt.Errorf("put document %s: %w", path, err)
	}
	return nil
}

// Get unmarshals the document at path into out.
func (s *DocumentStore) Get(ctx context.Context, path string, out interface{}) error {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE path = ?`, path).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("get document %s: %w", path, err)
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("parse document %s: %w", path, err)
	}
	return nil
}

// List returns all document paths with the given prefix.
func (s *DocumentStore) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path FROM documents WHERE path LIKE ? ORDER BY path`, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan document path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// Close closes the underlying database.
func (s *DocumentStore) Close() error {
	return s.db.Close()
}
