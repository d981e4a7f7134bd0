package storage

import (
	"context"
	"log/slog"
	"time"
)

// CleanupScheduler runs periodic session cleanup in a background goroutine.
// It executes cleanup immediately on Run, then at the configured interval.
type CleanupScheduler struct {
	Cleaner *Cleaner
	// ExcludeID is never removed (normally the current session).
	ExcludeID string
	// Interval between runs. If <= 0, only the initial cleanup runs.
	Interval time.Duration
	Logger   *slog.Logger

	// NewTicker defaults to time.NewTicker. Tests inject a fake.
	NewTicker func(d time.Duration) (tick <-chan time.Time, stop func())
}

// Run executes cleanup immediately, then at intervals until ctx is cancelled.
// Cleanup is best-effort: failures are logged, never returned.
func (s *CleanupScheduler) Run(ctx context.Context) {
	s.runOnce()

	if s.Interval <= 0 {
		<-ctx.Done()
		return
	}

	newTicker := s.NewTicker
	if newTicker == nil {
		newTicker = defaultNewTicker
	}

	ch, stop := newTicker(s.Interval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			s.runOnce()
		}
	}
}

func (s *CleanupScheduler) runOnce() {
	report, err := s.Cleaner.ExecuteCleanup(s.ExcludeID)
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err != nil {
		logger.Debug("session cleanup failed", "error", err)
		return
	}
	if len(report.Removed) > 0 {
		logger.Info("session cleanup removed stale sessions", "removed", report.Removed)
	}
}

func defaultNewTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}
