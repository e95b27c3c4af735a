package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alfredjeanlab/marketpro/internal/store"
)

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryGetDocument(ctx context.Context, db executor) ([]byte, error) {
	var body []byte
	err := db.QueryRowContext(ctx, `SELECT body FROM site_documents WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select site document: %w", err)
	}
	return body, nil
}

func queryPutDocument(ctx context.Context, db executor, doc []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO site_documents (id, body)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`,
		string(doc),
	)
	if err != nil {
		return fmt.Errorf("upsert site document: %w", err)
	}
	return nil
}
