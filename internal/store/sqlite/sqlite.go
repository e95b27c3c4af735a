// Package sqlite implements the store.Store interface backed by an
// embedded SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/alfredjeanlab/marketpro/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements store.Store on a single-file SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ store.Store = (*SQLiteStore)(nil)

// New opens (creating if needed) the database at path and applies migrations.
func New(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite store: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// WAL mode lets readers proceed while a write is in flight.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migration driver: %w", err)
	}
	if err := store.Migrate(migrationsFS, "migrations", "sqlite", driver); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetDocument(ctx context.Context) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM site_documents WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select site document: %w", err)
	}
	return []byte(body), nil
}

func (s *SQLiteStore) PutDocument(ctx context.Context, doc []byte) error {
	if !json.Valid(doc) {
		return errors.New("put site document: body is not valid JSON")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO site_documents (id, body) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP`,
		string(doc),
	)
	if err != nil {
		return fmt.Errorf("upsert site document: %w", err)
	}
	return nil
}
