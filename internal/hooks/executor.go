// Package hooks runs an operator-supplied command after the site document
// changes, e.g. to rebuild a static export or purge a CDN.
package hooks

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
)

const (
	DefaultTimeout = 30 * time.Second
	MaxTimeout     = 5 * time.Minute

	// outputLimit bounds the output kept from one run; the tail is kept.
	outputLimit = 4 << 10
)

// Invocation describes one hook run.
type Invocation struct {
	Command string
	Timeout time.Duration // clamped to (0, MaxTimeout]; zero means DefaultTimeout
	Stdin   []byte
	Env     map[string]string // added to the inherited environment
}

// Result is the outcome of one hook run.
type Result struct {
	Output   string // combined stdout and stderr, trimmed
	ExitCode int    // -1 when the command did not exit normally
	Duration time.Duration
	Err      error
}

// Execute runs inv.Command with "sh -c" and waits for it.
func Execute(ctx context.Context, inv Invocation) Result {
	timeout := inv.Timeout
	switch {
	case timeout <= 0:
		timeout = DefaultTimeout
	case timeout > MaxTimeout:
		timeout = MaxTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var out tailBuffer
	cmd := exec.CommandContext(ctx, "sh", "-c", inv.Command) //nolint:gosec // operator configured
	cmd.Stdin = bytes.NewReader(inv.Stdin)
	cmd.Stdout = &out
	cmd.Stderr = &out
	// Children of sh may keep the pipes open after sh is killed.
	cmd.WaitDelay = time.Second
	cmd.Env = os.Environ()
	for k, v := range inv.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Output:   strings.TrimSpace(out.String()),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: time.Since(start),
		Err:      err,
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.Err = errors.Join(context.DeadlineExceeded, err)
	}
	return res
}

// tailBuffer keeps the last outputLimit bytes written to it.
type tailBuffer struct {
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - outputLimit; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string { return string(t.buf) }
