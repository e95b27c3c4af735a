// Package carousel holds the cyclic state of the testimonial carousel: an
// index into a list of N items that moves forward or backward, wrapping at
// both ends, and optionally advances on a timer.
package carousel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Direction records which way the carousel last moved.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// ErrRunning is returned by Run when the auto-advance loop is already active.
var ErrRunning = errors.New("carousel: already running")

// Carousel is safe for concurrent use. The zero value is not usable; call New.
type Carousel struct {
	mu    sync.Mutex
	n     int
	index int
	dir   Direction

	// kick restarts the auto-advance interval after manual navigation.
	kick   chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

// New returns a carousel over n items positioned at index 0. n <= 0 yields
// an empty carousel on which every move is a no-op.
func New(n int) *Carousel {
	return &Carousel{
		n:    max(n, 0),
		dir:  Forward,
		kick: make(chan struct{}, 1),
	}
}

// Len returns the number of items.
func (c *Carousel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// Index returns the current position.
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Direction returns the direction of the last move.
func (c *Carousel) Direction() Direction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dir
}

// SetLen changes the number of items, for when the testimonial list is
// edited. The index is kept if still in range and reset to 0 otherwise.
func (c *Carousel) SetLen(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = max(n, 0)
	if c.index >= c.n {
		c.index = 0
	}
}

// Next moves forward one item, wrapping from N-1 to 0.
func (c *Carousel) Next() int {
	idx := c.step(Forward)
	c.restartInterval()
	return idx
}

// Prev moves back one item, wrapping from 0 to N-1.
func (c *Carousel) Prev() int {
	idx := c.step(Backward)
	c.restartInterval()
	return idx
}

// JumpTo moves directly to item i. The direction is forward when i is past
// the current index and backward otherwise.
func (c *Carousel) JumpTo(i int) error {
	c.mu.Lock()
	if i < 0 || i >= c.n {
		n := c.n
		c.mu.Unlock()
		return fmt.Errorf("carousel: index %d out of range [0,%d)", i, n)
	}
	if i > c.index {
		c.dir = Forward
	} else {
		c.dir = Backward
	}
	c.index = i
	c.mu.Unlock()

	c.restartInterval()
	return nil
}

func (c *Carousel) step(d Direction) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.n == 0 {
		return 0
	}
	c.index = ((c.index+int(d))%c.n + c.n) % c.n
	c.dir = d
	return c.index
}

func (c *Carousel) restartInterval() {
	select {
	case c.kick <- struct{}{}:
	default:
	}
}

// Run advances the carousel every interval until ctx is cancelled or Stop
// is called. Manual navigation restarts the interval. onChange, if non-nil,
// is called from the Run goroutine after each timed advance. Run returns
// ctx.Err() when ctx ends and nil when stopped.
func (c *Carousel) Run(ctx context.Context, interval time.Duration, onChange func(index int, dir Direction)) error {
	if interval <= 0 {
		return fmt.Errorf("carousel: interval must be positive, got %v", interval)
	}

	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return ErrRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		c.cancel, c.done = nil, nil
		c.mu.Unlock()
		close(done)
	}()

	// Drop navigation that happened before the loop started.
	select {
	case <-c.kick:
	default:
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-runCtx.Done():
			return ctx.Err()
		case <-c.kick:
			ticker.Reset(interval)
		case <-ticker.C:
			if c.Len() == 0 {
				continue
			}
			idx := c.step(Forward)
			if onChange != nil {
				onChange(idx, Forward)
			}
		}
	}
}

// Stop ends a running Run and waits for it to return. It is a no-op when
// nothing is running.
func (c *Carousel) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether Run is active.
func (c *Carousel) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}
