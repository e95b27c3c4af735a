package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"title=SEO Audits", "icon=Search", "description=a=b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []assignment{
		{field: "title", value: "SEO Audits"},
		{field: "icon", value: "Search"},
		{field: "description", value: "a=b"},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(assignment{})); diff != "" {
		t.Errorf("parseAssignments mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAssignments_Invalid(t *testing.T) {
	for _, arg := range []string{"title", "=value", " =x"} {
		if _, err := parseAssignments([]string{arg}); err == nil {
			t.Errorf("parseAssignments(%q): expected error", arg)
		}
	}
}

func TestSplitSkills(t *testing.T) {
	got := splitSkills([]string{"SEO, PPC", "Content", " ,Email "})
	want := []string{"SEO", "PPC", "Content", "Email"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("splitSkills mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeImport_BareDocument(t *testing.T) {
	doc, err := decodeImport([]byte(`{"hero":{"name":"Ada"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Hero.Name != "Ada" {
		t.Errorf("Hero.Name = %q, want Ada", doc.Hero.Name)
	}
	// Sections missing from the import come from the defaults.
	if len(doc.Services) == 0 {
		t.Error("expected default services to fill the gap")
	}
}

func TestDecodeImport_Snapshot(t *testing.T) {
	data := []byte(`{"version":"1","type":"site-document","timestamp":"2026-01-02T03:04:05Z","document":{"hero":{"name":"Grace"}}}`)
	doc, err := decodeImport(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Hero.Name != "Grace" {
		t.Errorf("Hero.Name = %q, want Grace", doc.Hero.Name)
	}
}

func TestDecodeImport_Invalid(t *testing.T) {
	if _, err := decodeImport([]byte(`not json`)); err == nil {
		t.Fatal("expected error")
	}
}
