package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/rugurujane/storefront/internal/config"
	"github.com/rugurujane/storefront/internal/storage"
)

// newCleaner builds a Cleaner from the [sessions] section.
func newCleaner(cfg *config.Config) *storage.Cleaner {
	sc := config.NewConfig().Sessions
	if cfg != nil {
		sc = cfg.Sessions
	}
	return &storage.Cleaner{
		MaxAgeDays: sc.MaxAgeDays,
		MaxCount:   sc.MaxCount,
		MaxSizeMB:  sc.MaxSizeMB,
	}
}

// maybeStartCleanupScheduler starts a background cleanup scheduler if
// automatic cleanup is enabled in the configuration. It returns a stop
// function that cancels the scheduler; callers must defer it.
//
// When cfg is nil, or AutoCleanupEnabled is false, the returned stop
// function is a no-op.
func maybeStartCleanupScheduler(cfg *config.Config, excludeID string, logger *slog.Logger) (stop func()) {
	if cfg == nil || !cfg.Sessions.AutoCleanupEnabled {
		return func() {}
	}

	scheduler := &storage.CleanupScheduler{
		Cleaner:   newCleaner(cfg),
		ExcludeID: excludeID,
		Interval:  time.Duration(cfg.Sessions.CleanupIntervalHours) * time.Hour,
		Logger:    logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		scheduler.Run(ctx)
	}()

	return func() {
		cancel()
		<-done
	}
}
