package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/alfredjeanlab/marketpro/internal/model"
)

func containsDoc(t *testing.T, data []byte, want string) bool {
	t.Helper()
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, snap.Document); err != nil {
		t.Fatal(err)
	}
	return buf.String() == want
}

func TestExport_EmptyStoreUsesDefaults(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(context.Background(), &memStore{}, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(buf.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Version != SnapshotVersion || snap.Type != "site-document" || snap.Timestamp.IsZero() {
		t.Fatalf("unexpected envelope: %+v", snap)
	}
	var doc model.SiteDocument
	if err := json.Unmarshal(snap.Document, &doc); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(model.Default(), &doc); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestExport_KeepsStoredBytes(t *testing.T) {
	ms := &memStore{doc: []byte("{\n  \"zeta\": 1,\n  \"alpha\": \"<b>\"\n}")}
	var buf bytes.Buffer
	if err := Export(context.Background(), ms, &buf); err != nil {
		t.Fatal(err)
	}
	if !containsDoc(t, buf.Bytes(), `{"zeta":1,"alpha":"<b>"}`) {
		t.Fatalf("snapshot = %s", buf.String())
	}
	if strings.Contains(buf.String(), `\u003c`) {
		t.Error("HTML escaped in snapshot")
	}
}

func TestExport_CorruptDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(context.Background(), &memStore{doc: []byte("{oops")}, &buf); err == nil {
		t.Fatal("expected error")
	}
}

func TestRestore(t *testing.T) {
	src := &memStore{doc: []byte(`{"hero":{"title":"Backed up"}}`)}
	var buf bytes.Buffer
	if err := Export(context.Background(), src, &buf); err != nil {
		t.Fatal(err)
	}

	dst := &memStore{}
	if err := Restore(context.Background(), dst, &buf); err != nil {
		t.Fatal(err)
	}
	if got := string(dst.doc); got != `{"hero":{"title":"Backed up"}}` {
		t.Errorf("restored = %s", got)
	}
}

func TestRestore_CompactsIndentedSnapshot(t *testing.T) {
	input := "{\n  \"version\": \"1\",\n  \"document\": {\n    \"alpha\": \"<b>\",\n    \"zeta\": [\n      1\n    ]\n  }\n}\n"
	dst := &memStore{}
	if err := Restore(context.Background(), dst, strings.NewReader(input)); err != nil {
		t.Fatal(err)
	}
	if got := string(dst.doc); got != `{"alpha":"<b>","zeta":[1]}` {
		t.Errorf("restored = %s", got)
	}
}

func TestRestore_Rejects(t *testing.T) {
	for name, input := range map[string]string{
		"NotJSON":    "nope",
		"BadVersion": `{"version":"9","document":{}}`,
		"NoDocument": `{"version":"1"}`,
		"ArrayDoc":   `{"version":"1","document":[1]}`,
	} {
		t.Run(name, func(t *testing.T) {
			dst := &memStore{}
			if err := Restore(context.Background(), dst, strings.NewReader(input)); err == nil {
				t.Fatal("expected error")
			}
			if dst.doc != nil {
				t.Fatal("store written")
			}
		})
	}
}

func TestPull(t *testing.T) {
	src := &memStore{doc: []byte(`{"hero":{"title":"Backed up"}}`)}
	dest := &mockDestination{}
	if err := NewScheduler(src, []Destination{dest}, time.Minute, testLogger()).RunOnce(context.Background()); err != nil {
		t.Fatal(err)
	}

	dst := &memStore{}
	if err := Pull(context.Background(), dst, dest); err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if string(dst.doc) != `{"hero":{"title":"Backed up"}}` {
		t.Fatalf("restored %s", dst.doc)
	}
}

func TestPull_NothingBackedUp(t *testing.T) {
	dst := &memStore{}
	if err := Pull(context.Background(), dst, &mockDestination{}); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("Pull = %v, want ErrNoSnapshot", err)
	}
	if dst.doc != nil {
		t.Fatal("store written without a snapshot")
	}
}
