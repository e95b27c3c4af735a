// Package cache keeps the client-side copy of the site document: one JSON
// blob stored under a fixed key in the user's state directory.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Key names the cached blob.
const Key = "marketpro_data"

// ErrMiss is returned by Get when nothing has been cached.
var ErrMiss = errors.New("cache miss")

// Cache stores a single document in dir/<Key>.json.
type Cache struct {
	dir string
}

// DefaultDir returns ~/.local/state/marketpro.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "marketpro"), nil
}

// New returns a cache rooted at dir. An empty dir uses DefaultDir.
func New(dir string) (*Cache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("resolving cache directory: %w", err)
		}
		dir = d
	}
	return &Cache{dir: dir}, nil
}

// Path returns the file backing the cache.
func (c *Cache) Path() string {
	return filepath.Join(c.dir, Key+".json")
}

// Get returns the cached blob, or ErrMiss.
func (c *Cache) Get() ([]byte, error) {
	data, err := os.ReadFile(c.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	return data, nil
}

// Set replaces the cached blob. data must be valid JSON.
func (c *Cache) Set(data []byte) error {
	if !json.Valid(data) {
		return errors.New("cache: refusing to store invalid JSON")
	}
	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(c.dir, "."+Key+"-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.Path()); err != nil {
		return fmt.Errorf("replacing cache: %w", err)
	}
	return nil
}

// Clear removes the cached blob. Clearing an empty cache is not an error.
func (c *Cache) Clear() error {
	if err := os.Remove(c.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}
