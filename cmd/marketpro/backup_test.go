package main

import (
	"testing"

	"github.com/alfredjeanlab/marketpro/internal/backup"
)

func TestPickDestination(t *testing.T) {
	gitA := backup.NewGitDestination("/srv/a", "data.json", "main")
	gitB := backup.NewGitDestination("/srv/b", "data.json", "main")
	dests := []backup.Destination{gitA, gitB}

	if got := pickDestination(dests, ""); got != gitA {
		t.Errorf("empty filter picked %v, want first destination", got)
	}
	if got := pickDestination(dests, "/srv/b"); got != gitB {
		t.Errorf("filter /srv/b picked %v", got)
	}
	if got := pickDestination(dests, "s3"); got != nil {
		t.Errorf("filter s3 picked %v, want nil", got)
	}
	if got := pickDestination(nil, ""); got != nil {
		t.Errorf("no destinations picked %v", got)
	}
}
