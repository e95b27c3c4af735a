// Package backup periodically copies the site document to off-box
// destinations.
package backup

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/marketpro/internal/store"
)

// ErrNoSnapshot is returned by Destination.Read when nothing was backed up yet.
var ErrNoSnapshot = errors.New("no snapshot at destination")

// Destination is an off-box copy of the latest snapshot.
type Destination interface {
	// Name identifies the destination in logs and CLI output.
	Name() string
	// Write stores the snapshot, replacing the previous one.
	Write(ctx context.Context, data []byte) error
	// Read returns the stored snapshot.
	Read(ctx context.Context) ([]byte, error)
}

// Scheduler runs periodic backups to one or more destinations.
type Scheduler struct {
	store        store.Store
	destinations []Destination
	interval     time.Duration
	logger       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.Mutex
	last [sha256.Size]byte // document hash of the last complete backup
}

// NewScheduler creates a scheduler that exports from the store to the given
// destinations at the specified interval.
func NewScheduler(s store.Store, destinations []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		store:        s,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
	}
}

// Start begins periodic backups under ctx. It backs up once immediately,
// then on each tick.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current backup (if any) to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("backup failed", "err", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logger.Error("backup failed", "err", err)
			}
		}
	}
}

// RunOnce exports the document and writes it to every destination. A
// document unchanged since the last complete backup is skipped. Destination
// failures are logged; the error reports how many failed.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	doc, err := Document(ctx, s.store)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(doc)

	s.mu.Lock()
	unchanged := sum == s.last
	s.mu.Unlock()
	if unchanged {
		s.logger.Debug("backup skipped, document unchanged")
		return nil
	}

	var buf bytes.Buffer
	if err := writeSnapshot(&buf, doc, time.Now().UTC()); err != nil {
		return err
	}
	data := buf.Bytes()

	failed := 0
	for _, dest := range s.destinations {
		if err := dest.Write(ctx, data); err != nil {
			failed++
			s.logger.Error("backup destination write failed", "destination", dest.Name(), "err", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("backup: %d of %d destinations failed", failed, len(s.destinations))
	}

	s.mu.Lock()
	s.last = sum
	s.mu.Unlock()
	s.logger.Info("backup completed", "destinations", len(s.destinations), "bytes", len(data))
	return nil
}
