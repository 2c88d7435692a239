package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const pruneSpec = "@daily"

// Scheduler wraps robfig/cron and runs the periodic snapshot flush and the daily
// retention prune of a Service.
type Scheduler struct {
	cron      *cron.Cron
	service   *Service
	flushSpec string
	retention time.Duration
	logger    *slog.Logger
}

// NewScheduler validates the specs and registers both jobs. Nothing runs until Start.
func NewScheduler(service *Service, flushSpec string, retention time.Duration) (*Scheduler, error) {
	if service == nil {
		return nil, fmt.Errorf("analytics service cannot be nil")
	}
	if retention <= 0 {
		return nil, fmt.Errorf("retention must be positive, got %v", retention)
	}

	s := &Scheduler{
		cron:      cron.New(),
		service:   service,
		flushSpec: flushSpec,
		retention: retention,
		logger:    service.logger.With("subsystem", "scheduler"),
	}

	if _, err := s.cron.AddFunc(flushSpec, s.flush); err != nil {
		return nil, fmt.Errorf("cron.AddFunc flush %q: %w", flushSpec, err)
	}
	if _, err := s.cron.AddFunc(pruneSpec, s.prune); err != nil {
		return nil, fmt.Errorf("cron.AddFunc prune: %w", err)
	}
	return s, nil
}

// Start starts the cron loop in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("analytics scheduler started", "flush", s.flushSpec, "prune", pruneSpec, "retention", s.retention)
}

// Stop waits for running jobs (bounded by ctx), then writes a final snapshot.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("analytics scheduler did not stop in time", "error", ctx.Err())
	}

	if err := s.service.Flush(); err != nil {
		return fmt.Errorf("final analytics flush: %w", err)
	}
	s.logger.Info("analytics scheduler stopped")
	return nil
}

func (s *Scheduler) flush() {
	if err := s.service.Flush(); err != nil {
		s.logger.Warn("failed to save analytics data", "error", err)
	}
}

func (s *Scheduler) prune() {
	if removed := s.service.Prune(s.retention); removed > 0 {
		s.logger.Info("pruned analytics events", "removed", removed)
	}
	s.flush()
}
