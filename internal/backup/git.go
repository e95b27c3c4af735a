package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// GitDestination commits each snapshot to a file in a local clone and
// pushes it, so the document history can be browsed with git log.
type GitDestination struct {
	repo   string
	file   string
	branch string
}

// NewGitDestination returns a destination for an existing clone at repo.
// file is relative to the repository root.
func NewGitDestination(repo, file, branch string) *GitDestination {
	return &GitDestination{repo: repo, file: file, branch: branch}
}

func (d *GitDestination) Name() string {
	return "git:" + d.repo + "@" + d.branch + ":" + d.file
}

// Write commits data unless it matches HEAD, then pushes the branch.
func (d *GitDestination) Write(ctx context.Context, data []byte) error {
	if err := d.sync(ctx); err != nil {
		return err
	}

	path := filepath.Join(d.repo, d.file)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := d.git(ctx, "add", "--", d.file); err != nil {
		return err
	}
	if _, err := d.git(ctx, "diff", "--cached", "--quiet"); err == nil {
		return nil
	}

	msg := "backup: site document " + time.Now().UTC().Format(time.RFC3339)
	if _, err := d.git(ctx, "commit", "-m", msg); err != nil {
		return err
	}
	if _, err := d.git(ctx, "push", "origin", d.branch); err != nil {
		return err
	}
	return nil
}

// Read returns the snapshot at the tip of the branch after pulling.
func (d *GitDestination) Read(ctx context.Context) ([]byte, error) {
	if err := d.sync(ctx); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(d.repo, d.file))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.Name(), err)
	}
	return data, nil
}

// sync checks out the branch and fast-forwards it. A pull failure is
// ignored since the branch may not exist on the remote yet.
func (d *GitDestination) sync(ctx context.Context) error {
	if _, err := d.git(ctx, "checkout", d.branch); err != nil {
		return err
	}
	_, _ = d.git(ctx, "pull", "--ff-only", "origin", d.branch)
	return nil
}

func (d *GitDestination) git(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = d.repo
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("git %s: %w: %s", args[0], err, bytes.TrimSpace(out))
	}
	return out, nil
}
