package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by GetDocument when nothing has been stored yet.
var ErrNotFound = errors.New("site document not found")

// Store defines the persistence interface for the site document.
//
// The document is kept as raw JSON and replaced wholesale on every write.
// Writers are not serialized: the last PutDocument to complete wins.
type Store interface {
	// GetDocument returns the stored document bytes, or ErrNotFound.
	GetDocument(ctx context.Context) ([]byte, error)

	// PutDocument overwrites the stored document.
	PutDocument(ctx context.Context, doc []byte) error

	// Lifecycle
	Close() error
}

// Seed stores doc if the store is empty. It reports whether it wrote.
func Seed(ctx context.Context, s Store, doc []byte) (bool, error) {
	_, err := s.GetDocument(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	if err := s.PutDocument(ctx, doc); err != nil {
		return false, err
	}
	return true, nil
}
