// Package service assembles the dashboard views served by the HTTP API.
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/govdash/internal/adapters/gateway"
	"github.com/okian/govdash/pkg/logger"
)

const (
	defaultFetchTimeout   = 10 * time.Second
	defaultSessionIdleTTL = 30 * time.Minute
	defaultMaxSessions    = 10000
	minSweepInterval      = time.Second
)

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	reader   gateway.Reader
	sessions *Sessions

	// Configuration
	fetchTimeout   time.Duration
	sessionIdleTTL time.Duration
	maxSessions    int
	now            func() time.Time

	// State
	started bool
	stopCh  chan struct{}
	done    chan struct{}

	// Counters reported by GetStats.
	renders     atomic.Int64
	unavailable atomic.Int64
	stale       atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFetchTimeout bounds every gateway call made while assembling a view.
// Zero removes the bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.fetchTimeout = d
		}
	}
}

// WithSessionIdleTTL sets how long an untouched shell session is kept.
func WithSessionIdleTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sessionIdleTTL = d
		}
	}
}

// WithMaxSessions caps the number of tracked shell sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithClock replaces time.Now for session bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service reading from reader.
func New(reader gateway.Reader, opts ...Option) *Service {
	s := &Service{
		reader:         reader,
		fetchTimeout:   defaultFetchTimeout,
		sessionIdleTTL: defaultSessionIdleTTL,
		maxSessions:    defaultMaxSessions,
		now:            time.Now,
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sessions = NewSessions(s.sessionIdleTTL, s.maxSessions, s.now)
	return s
}

// Start launches the idle session sweeper.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	go s.sweepLoop(s.stopCh, s.done)

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Duration("fetchTimeout", s.fetchTimeout),
		logger.Duration("sessionIdleTTL", s.sessionIdleTTL),
		logger.Int("maxSessions", s.maxSessions),
	)
	return nil
}

// Stop stops the sweeper and cancels every outstanding activation.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	close(s.stopCh)
	<-s.done
	s.sessions.Clear()

	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// Sessions returns the shell session registry.
func (s *Service) Sessions() *Sessions { return s.sessions }

func (s *Service) sweepLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := s.sessionIdleTTL / 2
	if interval < minSweepInterval {
		interval = minSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if n := s.sessions.Sweep(); n > 0 {
				s.logger.Debug(context.Background(), "evicted idle sessions", logger.Int("count", n))
			}
		}
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"started":           s.started,
		"fetchTimeoutMs":    s.fetchTimeout.Milliseconds(),
		"sessionIdleTTLSec": int64(s.sessionIdleTTL.Seconds()),
		"maxSessions":       s.maxSessions,
		"activeSessions":    s.sessions.Len(),
		"viewsRendered":     s.renders.Load(),
		"viewsUnavailable":  s.unavailable.Load(),
		"staleActivations":  s.stale.Load(),
	}
}
