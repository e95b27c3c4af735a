package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alfredjeanlab/marketpro/internal/model"
	"github.com/alfredjeanlab/marketpro/internal/store"
)

// SnapshotVersion is written into every snapshot.
const SnapshotVersion = "1"

// Snapshot is the backup file format: the stored document wrapped with
// when it was taken.
type Snapshot struct {
	Version   string          `json:"version"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Document  json.RawMessage `json:"document"`
}

// Document returns the stored document compacted. An empty store yields
// the built-in defaults so a backup always has something restorable.
func Document(ctx context.Context, s store.Store) ([]byte, error) {
	raw, err := s.GetDocument(ctx)
	if errors.Is(err, store.ErrNotFound) {
		raw, err = json.Marshal(model.Default())
	}
	if err != nil {
		return nil, fmt.Errorf("read site document: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("stored site document: %w", err)
	}
	return buf.Bytes(), nil
}

// Export writes a snapshot of the stored document to w.
func Export(ctx context.Context, s store.Store, w io.Writer) error {
	doc, err := Document(ctx, s)
	if err != nil {
		return err
	}
	return writeSnapshot(w, doc, time.Now().UTC())
}

func writeSnapshot(w io.Writer, doc []byte, at time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Snapshot{
		Version:   SnapshotVersion,
		Type:      "site-document",
		Timestamp: at,
		Document:  doc,
	}); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Restore reads a snapshot from r and writes its document to s, compacted
// back to the form Export read it in.
func Restore(ctx context.Context, s store.Store, r io.Reader) error {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %q", snap.Version)
	}
	var doc bytes.Buffer
	if len(snap.Document) > 0 {
		if err := json.Compact(&doc, snap.Document); err != nil {
			return fmt.Errorf("snapshot document: %w", err)
		}
	}
	if doc.Len() == 0 || doc.Bytes()[0] != '{' {
		return errors.New("snapshot has no document object")
	}
	if err := s.PutDocument(ctx, doc.Bytes()); err != nil {
		return fmt.Errorf("restore site document: %w", err)
	}
	return nil
}

// Pull restores the snapshot held by dest into s.
func Pull(ctx context.Context, s store.Store, dest Destination) error {
	data, err := dest.Read(ctx)
	if err != nil {
		return err
	}
	if err := Restore(ctx, s, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%s: %w", dest.Name(), err)
	}
	return nil
}
