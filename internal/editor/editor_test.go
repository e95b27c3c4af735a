package editor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alfredjeanlab/marketpro/internal/cache"
	"github.com/alfredjeanlab/marketpro/internal/model"
)

// fakeRemote is an in-memory Remote. When failGet/failSave are set the
// corresponding call errors.
type fakeRemote struct {
	doc      json.RawMessage
	failGet  bool
	failSave bool
	saves    int
}

func (f *fakeRemote) GetDocument(context.Context) (json.RawMessage, error) {
	if f.failGet {
		return nil, errors.New("connection refused")
	}
	return f.doc, nil
}

func (f *fakeRemote) SaveDocument(_ context.Context, doc *model.SiteDocument) (json.RawMessage, error) {
	if f.failSave {
		return nil, errors.New("HTTP 500: Failed to update data")
	}
	f.saves++
	data, _ := json.Marshal(doc)
	f.doc = data
	return data, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestLoad_FallbackChain(t *testing.T) {
	for _, tc := range []struct {
		name      string
		remote    *fakeRemote
		cached    string
		wantSrc   Source
		wantTitle string
	}{
		{
			name:      "Remote",
			remote:    &fakeRemote{doc: json.RawMessage(`{"hero":{"title":"From server"}}`)},
			cached:    `{"hero":{"title":"From cache"}}`,
			wantSrc:   SourceRemote,
			wantTitle: "From server",
		},
		{
			name:      "RemoteDown",
			remote:    &fakeRemote{failGet: true},
			cached:    `{"hero":{"title":"From cache"}}`,
			wantSrc:   SourceCache,
			wantTitle: "From cache",
		},
		{
			name:      "RemoteGarbage",
			remote:    &fakeRemote{doc: json.RawMessage(`"not an object"`)},
			cached:    `{"hero":{"title":"From cache"}}`,
			wantSrc:   SourceCache,
			wantTitle: "From cache",
		},
		{
			name:      "CacheCorrupt",
			remote:    &fakeRemote{failGet: true},
			cached:    `{"hero":`,
			wantSrc:   SourceDefaults,
			wantTitle: model.Default().Hero.Title,
		},
		{
			name:      "NothingAvailable",
			remote:    &fakeRemote{failGet: true},
			wantSrc:   SourceDefaults,
			wantTitle: model.Default().Hero.Title,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCache(t)
			if tc.cached != "" {
				// Bypass Set's validation so corrupt blobs can be planted.
				if err := writeRaw(c, tc.cached); err != nil {
					t.Fatal(err)
				}
			}
			e := New(tc.remote, c, testLogger())

			if src := e.Load(context.Background()); src != tc.wantSrc {
				t.Fatalf("Load source = %v, want %v", src, tc.wantSrc)
			}
			doc := e.Document()
			if doc.Hero.Title != tc.wantTitle {
				t.Errorf("title = %q, want %q", doc.Hero.Title, tc.wantTitle)
			}
			// Partial documents are completed from the defaults.
			if doc.Hero.Name == "" || len(doc.Services) == 0 || len(doc.Testimonials) == 0 {
				t.Errorf("loaded document has empty groups: %+v", doc.Hero)
			}
			if e.Dirty() {
				t.Error("freshly loaded editor is dirty")
			}
		})
	}
}

func TestLoad_NilRemoteAndCache(t *testing.T) {
	e := New(nil, nil, testLogger())
	if src := e.Load(context.Background()); src != SourceDefaults {
		t.Fatalf("source = %v", src)
	}
	if diff := cmp.Diff(model.Default(), e.Document()); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_RemoteRefreshesCache(t *testing.T) {
	c := newTestCache(t)
	e := New(&fakeRemote{doc: json.RawMessage(`{"hero":{"title":"Fresh"}}`)}, c, testLogger())
	e.Load(context.Background())

	raw, err := c.Get()
	if err != nil {
		t.Fatalf("cache not populated: %v", err)
	}
	if !strings.Contains(string(raw), `"Fresh"`) {
		t.Errorf("cache = %s", raw)
	}
}

func TestSave_ThenReloadFromCache(t *testing.T) {
	c := newTestCache(t)
	remote := &fakeRemote{doc: json.RawMessage(`{}`)}
	e := New(remote, c, testLogger())
	e.Load(context.Background())

	if err := e.SetHero("title", "Edited headline"); err != nil {
		t.Fatal(err)
	}
	if !e.Dirty() {
		t.Fatal("edit did not mark editor dirty")
	}
	if err := e.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if e.Dirty() {
		t.Error("editor dirty after successful save")
	}

	// Server unreachable on the next visit: the cache path must show the edit.
	reloaded := New(&fakeRemote{failGet: true}, c, testLogger())
	if src := reloaded.Load(context.Background()); src != SourceCache {
		t.Fatalf("source = %v, want cache", src)
	}
	if got := reloaded.Document().Hero.Title; got != "Edited headline" {
		t.Errorf("reloaded title = %q", got)
	}
}

func TestSave_RemoteFailureKeepsWorkingCopy(t *testing.T) {
	c := newTestCache(t)
	remote := &fakeRemote{doc: json.RawMessage(`{}`), failSave: true}
	e := New(remote, c, testLogger())
	e.Load(context.Background())

	_ = e.SetHero("cta", "Book a call")
	if err := e.Save(context.Background()); err == nil {
		t.Fatal("expected save error")
	}
	if e.Document().Hero.CTA != "Book a call" {
		t.Error("working copy rolled back")
	}
	if !e.Dirty() {
		t.Error("failed save cleared dirty flag")
	}
	raw, _ := c.Get()
	if strings.Contains(string(raw), "Book a call") {
		t.Error("unconfirmed edit mirrored into the local cache")
	}
}

func TestSave_FailureThenReload(t *testing.T) {
	c := newTestCache(t)
	remote := &fakeRemote{doc: json.RawMessage(`{"hero":{"title":"Live title"}}`), failSave: true}
	e := New(remote, c, testLogger())
	e.Load(context.Background())

	_ = e.SetHero("title", "Offline title")
	if err := e.Save(context.Background()); err == nil {
		t.Fatal("expected save error")
	}
	if remote.saves != 0 {
		t.Fatalf("saves = %d, want 0", remote.saves)
	}

	// Whichever source the next session reads, it sees what the server holds.
	for _, r := range []*fakeRemote{remote, {failGet: true}} {
		next := New(r, c, testLogger())
		src := next.Load(context.Background())
		if got := next.Document().Hero.Title; got != "Live title" {
			t.Errorf("%v: title = %q, want the confirmed %q", src, got, "Live title")
		}
	}
}

func TestSave_WithoutRemoteWritesCache(t *testing.T) {
	c := newTestCache(t)
	e := New(nil, c, testLogger())
	e.Load(context.Background())

	_ = e.SetHero("title", "Local only")
	if err := e.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if e.Dirty() {
		t.Error("editor dirty after save")
	}
	raw, _ := c.Get()
	if !strings.Contains(string(raw), "Local only") {
		t.Errorf("cache = %s", raw)
	}
}

func TestSave_SendsWholeDocument(t *testing.T) {
	remote := &fakeRemote{doc: json.RawMessage(`{}`)}
	e := New(remote, nil, testLogger())
	e.Load(context.Background())
	_ = e.SetAbout("usp", "Data first")

	if err := e.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	var stored model.SiteDocument
	if err := json.Unmarshal(remote.doc, &stored); err != nil {
		t.Fatal(err)
	}
	want := model.Default()
	want.About.USP = "Data first"
	if diff := cmp.Diff(want, &stored); diff != "" {
		t.Errorf("stored document mismatch (-want +got):\n%s", diff)
	}
}

func TestReplace(t *testing.T) {
	e := New(nil, nil, testLogger())
	doc := model.Default()
	doc.Hero.Name = "Imported"
	if err := e.Replace(doc); err != nil {
		t.Fatal(err)
	}
	doc.Hero.Name = "mutated after replace"

	if e.Document().Hero.Name != "Imported" {
		t.Error("Replace did not copy the document")
	}
	if !e.Dirty() {
		t.Error("Replace should mark dirty")
	}
}

func TestReplace_RejectsDuplicateIDs(t *testing.T) {
	e := New(nil, nil, testLogger())
	doc := model.Default()
	doc.Projects[1].ID = doc.Projects[0].ID

	err := e.Replace(doc)
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Replace error = %v, want *model.ValidationError", err)
	}
	if e.Dirty() {
		t.Error("rejected document should leave the working copy untouched")
	}
}

func TestSource_String(t *testing.T) {
	for src, want := range map[Source]string{SourceRemote: "remote", SourceCache: "cache", SourceDefaults: "defaults"} {
		if src.String() != want {
			t.Errorf("%d.String() = %q", src, src.String())
		}
	}
}

// writeRaw plants data in the cache file without validation.
func writeRaw(c *cache.Cache, data string) error {
	if err := c.Set([]byte(`{}`)); err != nil {
		return err
	}
	return writeFile(c.Path(), data)
}
