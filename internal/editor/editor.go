// Package editor loads the site document for editing, applies field-level
// changes to an in-memory working copy, and saves the whole document back.
package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alfredjeanlab/marketpro/internal/model"
)

// Remote is the persistence backend the editor reads from and writes to.
type Remote interface {
	GetDocument(ctx context.Context) (json.RawMessage, error)
	SaveDocument(ctx context.Context, doc *model.SiteDocument) (json.RawMessage, error)
}

// Cache is the local copy kept between sessions.
type Cache interface {
	Get() ([]byte, error)
	Set(data []byte) error
}

// Source identifies where Load found the document.
type Source int

const (
	SourceDefaults Source = iota
	SourceCache
	SourceRemote
)

func (s Source) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceCache:
		return "cache"
	default:
		return "defaults"
	}
}

var (
	// ErrUnknownField is returned when a mutation names a field the group does not have.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownID is returned when a list mutation names an id that is not present.
	ErrUnknownID = errors.New("unknown id")
	// ErrInvalidIcon is returned when a service icon is not one of the known icons.
	ErrInvalidIcon = errors.New("invalid icon")
)

// Editor holds the working copy. Either Remote or Cache may be nil.
type Editor struct {
	remote Remote
	cache  Cache
	logger *slog.Logger

	mu     sync.Mutex
	doc    *model.SiteDocument
	saved  []byte
	source Source
}

// New returns an editor whose working copy starts as the built-in defaults.
func New(remote Remote, cache Cache, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Editor{remote: remote, cache: cache, logger: logger, doc: model.Default()}
	e.saved = mustMarshal(e.doc)
	return e
}

// Load replaces the working copy using the first source that yields a
// document: remote, then cache, then the defaults. Failures along the way
// are logged and never surface; the result is always a complete document.
func (e *Editor) Load(ctx context.Context) Source {
	doc, src := e.fetch(ctx)

	e.mu.Lock()
	e.doc = doc
	e.saved = mustMarshal(doc)
	e.source = src
	e.mu.Unlock()

	if src == SourceRemote {
		e.mirror(doc)
	}
	e.logger.Debug("site document loaded", "source", src)
	return src
}

func (e *Editor) fetch(ctx context.Context) (*model.SiteDocument, Source) {
	if e.remote != nil {
		raw, err := e.remote.GetDocument(ctx)
		if err == nil {
			doc, mergeErr := model.Merge(raw)
			if mergeErr == nil {
				return doc, SourceRemote
			}
			err = mergeErr
		}
		e.logger.Debug("remote load failed, trying cache", "err", err)
	}

	if e.cache != nil {
		raw, err := e.cache.Get()
		if err == nil {
			doc, mergeErr := model.Merge(raw)
			if mergeErr == nil {
				return doc, SourceCache
			}
			err = mergeErr
		}
		e.logger.Debug("cache load failed, using defaults", "err", err)
	}

	return model.Default(), SourceDefaults
}

// Save submits the whole working copy to the remote and, once the remote
// has accepted it, mirrors it into the cache. A remote failure is logged and
// returned; the working copy is kept as is and the cache keeps the last
// confirmed document. Without a remote the cache is the only store.
func (e *Editor) Save(ctx context.Context) error {
	doc := e.Document()

	if e.remote != nil {
		if _, err := e.remote.SaveDocument(ctx, doc); err != nil {
			e.logger.Error("saving site document failed", "err", err)
			return fmt.Errorf("save site document: %w", err)
		}
	}
	e.mirror(doc)

	e.mu.Lock()
	e.saved = mustMarshal(doc)
	e.mu.Unlock()
	return nil
}

func (e *Editor) mirror(doc *model.SiteDocument) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Set(mustMarshal(doc)); err != nil {
		e.logger.Warn("updating local cache failed", "err", err)
	}
}

// Document returns a copy of the working document.
func (e *Editor) Document() *model.SiteDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// Source reports where the last Load found the document.
func (e *Editor) Source() Source {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.source
}

// Dirty reports whether the working copy differs from what was last loaded
// or saved.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !bytes.Equal(mustMarshal(e.doc), e.saved)
}

// Replace swaps in a whole document, for imports. Documents whose lists
// have missing or duplicate ids are rejected with a *model.ValidationError.
func (e *Editor) Replace(doc *model.SiteDocument) error {
	if err := model.Validate(doc); err != nil {
		return err
	}
	e.mu.Lock()
	e.doc = doc.Clone()
	e.mu.Unlock()
	return nil
}

// edit runs fn on the working copy under the lock.
func (e *Editor) edit(fn func(d *model.SiteDocument) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.doc)
}

// SiteDocument has no unmarshalable fields.
func mustMarshal(doc *model.SiteDocument) []byte {
	data, err := json.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("editor: marshal site document: %v", err))
	}
	return data
}
