package contact

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is the lifecycle of one contact submission.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSent
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSent:
		return "sent"
	default:
		return "unknown"
	}
}

// Default timings for a simulated submission.
const (
	DefaultDelay      = 1500 * time.Millisecond
	DefaultResetAfter = 5 * time.Second
)

// ErrBusy is returned when Submit is called while a submission is in flight
// or its confirmation is still showing.
var ErrBusy = errors.New("contact: submission already in progress")

// Submission drives idle -> submitting -> sent -> idle. Submit waits a fixed
// delay to simulate delivery; the sent state reverts to idle after
// resetAfter.
type Submission struct {
	delay      time.Duration
	resetAfter time.Duration

	// OnSent, if set, is called with the normalized form once the
	// submission reaches the sent state.
	OnSent func(ctx context.Context, f Form)

	mu    sync.Mutex
	state State
	reset *time.Timer
}

// NewSubmission returns an idle submission. Non-positive durations use the defaults.
func NewSubmission(delay, resetAfter time.Duration) *Submission {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if resetAfter <= 0 {
		resetAfter = DefaultResetAfter
	}
	return &Submission{delay: delay, resetAfter: resetAfter}
}

// State returns the current state.
func (s *Submission) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit validates f and, if valid, runs the simulated submission. It
// returns FieldErrors for an invalid form, ErrBusy when not idle, and
// ctx.Err() if cancelled during the delay (the state returns to idle).
func (s *Submission) Submit(ctx context.Context, f Form) error {
	if errs := Validate(f); errs != nil {
		return errs
	}

	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrBusy
	}
	s.state = StateSubmitting
	s.mu.Unlock()

	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		s.setState(StateIdle)
		return ctx.Err()
	case <-t.C:
	}

	s.mu.Lock()
	s.state = StateSent
	s.reset = time.AfterFunc(s.resetAfter, func() { s.setState(StateIdle) })
	s.mu.Unlock()

	if s.OnSent != nil {
		s.OnSent(ctx, Normalize(f))
	}
	return nil
}

// Close cancels a pending reset and returns the submission to idle.
func (s *Submission) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reset != nil {
		s.reset.Stop()
		s.reset = nil
	}
	s.state = StateIdle
}

func (s *Submission) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
