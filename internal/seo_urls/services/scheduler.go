package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var scheduleParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule validates a refresh schedule. Both 5 and 6 field (with
// seconds) expressions and descriptors like "@hourly" are accepted.
func ParseSchedule(spec string) (cron.Schedule, error) {
	schedule, err := scheduleParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return schedule, nil
}

// RefreshScheduler runs add-only reconciliations on a cron schedule
type RefreshScheduler struct {
	refresher Refresher
	timeout   time.Duration
	cron      *cron.Cron

	mu      sync.Mutex
	running bool
}

// NewRefreshScheduler creates a scheduler for the given schedule
func NewRefreshScheduler(refresher Refresher, spec string, timeout time.Duration) (*RefreshScheduler, error) {
	schedule, err := ParseSchedule(spec)
	if err != nil {
		return nil, err
	}

	s := &RefreshScheduler{
		refresher: refresher,
		timeout:   timeout,
		cron:      cron.New(cron.WithParser(scheduleParser)),
	}
	s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.RunOnce(context.Background())
	}))
	return s, nil
}

// Start starts the cron loop
func (s *RefreshScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
	slog.Info("SEO URL refresh scheduler started", "next_run", s.cron.Entries()[0].Next)
}

// Stop stops the cron loop and waits for a running refresh to finish
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	slog.Info("SEO URL refresh scheduler stopped")
}

// RunOnce runs one add-only reconciliation bounded by the configured timeout.
// A run skipped because another one holds the lock is not an error.
func (s *RefreshScheduler) RunOnce(ctx context.Context) (*ReconcileResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.refresher.Reconcile(ctx, false)
	if errors.Is(err, ErrLocked) {
		slog.InfoContext(ctx, "Skipping scheduled SEO URL refresh, another run holds the lock")
		return nil, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "Scheduled SEO URL refresh failed", "error", err)
		return result, err
	}
	return result, nil
}
