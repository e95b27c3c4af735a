// Package postgres stores the site document in a single PostgreSQL row.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/marketpro/internal/store"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresStore implements store.Store on the site_documents table.
type PostgresStore struct {
	db *sql.DB
}

var _ store.Store = (*PostgresStore)(nil)

// New connects to databaseURL and migrates the schema. Every request reads
// or writes one row, so the pool is kept small.
func New(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migration driver: %w", err)
	}
	if err := store.Migrate(migrations, "migrations", "postgres", driver); err != nil {
		db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) GetDocument(ctx context.Context) ([]byte, error) {
	return queryGetDocument(ctx, s.db)
}

func (s *PostgresStore) PutDocument(ctx context.Context, doc []byte) error {
	return queryPutDocument(ctx, s.db, doc)
}
