package search

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/gcbaptista/findmyjob/config"
)

// Service is the stateless query pipeline shared by the public and admin call sites.
// It fulfills services.Evaluator and services.Suggester.
type Service struct {
	settings config.SearchSettings
	now      func() time.Time
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithClock sets the reference time source for the date-posted facet.
// Default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) error {
		if now == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		s.now = now
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "search")
		return nil
	}
}

// WithPoolSize replaces the facet worker pool. A size of 0 disables parallel evaluation.
func WithPoolSize(size int) Option {
	return func(s *Service) error {
		if size < 0 {
			return fmt.Errorf("pool size cannot be negative, got %d", size)
		}
		if s.pool != nil {
			s.pool.Release()
			s.pool = nil
		}
		if size == 0 {
			return nil
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return fmt.Errorf("create worker pool: %w", err)
		}
		s.pool = pool
		return nil
	}
}

// NewService creates a search Service. Missing settings fall back to their defaults.
func NewService(settings config.SearchSettings, opts ...Option) (*Service, error) {
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid search settings: %v", problems)
	}

	s := &Service{
		settings: settings,
		now:      time.Now,
		logger:   slog.Default().With("component", "search"),
	}

	if err := WithPoolSize(settings.Workers)(s); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.Close()
			return nil, err
		}
	}

	return s, nil
}

// Settings returns the effective settings
func (s *Service) Settings() config.SearchSettings {
	return s.settings
}

// Close releases the worker pool. The Service stays usable and evaluates inline afterwards.
func (s *Service) Close() {
	if s.pool != nil {
		s.pool.Release()
		s.pool = nil
	}
}
