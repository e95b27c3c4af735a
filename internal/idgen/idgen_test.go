package idgen

import (
	"regexp"
	"testing"
)

func TestGenerateWithPrefix(t *testing.T) {
	for _, prefix := range []string{ServicePrefix, ProjectPrefix, TestimonialPrefix, ""} {
		id, err := GenerateWithPrefix(prefix)
		if err != nil {
			t.Fatalf("GenerateWithPrefix(%q) error: %v", prefix, err)
		}

		wantLen := len(prefix) + Length
		if len(id) != wantLen {
			t.Errorf("GenerateWithPrefix(%q) length = %d, want %d (id=%q)", prefix, len(id), wantLen, id)
		}

		pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `[a-zA-Z0-9]+$`)
		if !pattern.MatchString(id) {
			t.Errorf("GenerateWithPrefix(%q) = %q, does not match expected charset pattern", prefix, id)
		}
	}
}

func TestGenerate_Uniqueness(t *testing.T) {
	const count = 10_000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		id, err := GenerateWithPrefix(ServicePrefix)
		if err != nil {
			t.Fatalf("GenerateWithPrefix() error on iteration %d: %v", i, err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ID after %d generations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestUnique_SkipsTaken(t *testing.T) {
	calls := 0
	id, err := Unique(ProjectPrefix, func(string) bool {
		calls++
		return calls < 3
	})
	if err != nil {
		t.Fatalf("Unique() error: %v", err)
	}
	if calls != 3 {
		t.Errorf("taken called %d times, want 3", calls)
	}
	if id[:len(ProjectPrefix)] != ProjectPrefix {
		t.Errorf("Unique() = %q, want prefix %q", id, ProjectPrefix)
	}
}

func TestUnique_NilTaken(t *testing.T) {
	if _, err := Unique(TestimonialPrefix, nil); err != nil {
		t.Fatalf("Unique(nil) error: %v", err)
	}
}

func TestUnique_GivesUp(t *testing.T) {
	if _, err := Unique(ServicePrefix, func(string) bool { return true }); err == nil {
		t.Fatal("expected error when every id is taken")
	}
}
