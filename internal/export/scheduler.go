package export

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// BuildFunc produces one encoded export.
type BuildFunc func(ctx context.Context) ([]byte, error)

// Scheduler runs periodic exports to one or more destinations.
type Scheduler struct {
	build        BuildFunc
	destinations []Destination
	interval     time.Duration
	logger       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that runs build and writes the result to
// the given destinations at the specified interval.
func NewScheduler(build BuildFunc, destinations []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		build:        build,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
	}
}

// Start begins periodic export. It runs an initial export immediately, then
// on each tick, until ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current export (if any) to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Wait blocks until the scheduler exits.
func (s *Scheduler) Wait() { s.wg.Wait() }

func (s *Scheduler) run(ctx context.Context) {
	// Run once immediately at startup.
	_ = s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.RunOnce(ctx)
		}
	}
}

// RunOnce performs one export. Every destination is attempted; the first
// failure is returned.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	data, err := s.build(ctx)
	if err != nil {
		s.logger.Error("export failed", "err", err)
		return err
	}

	var first error
	for i, dest := range s.destinations {
		if err := dest.Write(ctx, data); err != nil {
			s.logger.Error("export destination write failed", "destination", fmt.Sprintf("%d", i), "err", err)
			if first == nil {
				first = err
			}
		}
	}

	s.logger.Info("export completed", "destinations", len(s.destinations), "bytes", len(data))
	return first
}
