package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Cleaner enforces retention policies for session files. Carts are a
// convenience tied to a terminal session, so stale session records are
// pruned rather than kept forever.
type Cleaner struct {
	MaxAgeDays int
	MaxCount   int
	MaxSizeMB  int
	// DryRun reports what would be removed without touching the filesystem.
	DryRun bool
	// Purge ignores retention policies and selects every inactive,
	// non-excluded session.
	Purge bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// CleanupReport summarizes what was removed and what was skipped.
type CleanupReport struct {
	Removed []string
	Skipped []string
}

// ExecuteCleanup runs the cleanup process and returns a report.
// excludeID is a session id to never delete (e.g., current session).
func (c *Cleaner) ExecuteCleanup(excludeID string) (*CleanupReport, error) {
	sessionsDir, err := sessionDirectory()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	// One cleaner at a time, across processes.
	globalLock, err := acquireFileLock(filepath.Join(filepath.Dir(sessionsDir), "cleanup.lock"))
	if err != nil {
		return nil, fmt.Errorf("failed to acquire global cleanup lock: %w", err)
	}
	defer func() { _ = releaseFileLock(globalLock) }()

	sessions, err := ScanSessions()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}

	var report CleanupReport
	var candidates []SessionInfo
	for _, s := range sessions {
		if s.ID == excludeID || s.IsActive {
			report.Skipped = append(report.Skipped, s.ID)
			continue
		}
		candidates = append(candidates, s)
	}

	selected := make(map[string]SessionInfo)

	if c.Purge {
		for _, s := range candidates {
			selected[s.ID] = s
		}
	}

	if c.MaxAgeDays > 0 {
		cutoff := now.Add(-time.Duration(c.MaxAgeDays) * 24 * time.Hour)
		for _, s := range candidates {
			if s.UpdatedAt.Before(cutoff) {
				selected[s.ID] = s
			}
		}
	}

	// Newest first: keep MaxCount.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].UpdatedAt.After(candidates[j].UpdatedAt)
	})
	if c.MaxCount > 0 && len(candidates) > c.MaxCount {
		for _, s := range candidates[c.MaxCount:] {
			selected[s.ID] = s
		}
	}

	if c.MaxSizeMB > 0 {
		var total int64
		for _, s := range candidates {
			total += s.Size
		}
		maxBytes := int64(c.MaxSizeMB) * 1024 * 1024
		// Oldest first until under the limit.
		for i := len(candidates) - 1; i >= 0 && total > maxBytes; i-- {
			total -= candidates[i].Size
			selected[candidates[i].ID] = candidates[i]
		}
	}

	ids := make([]string, 0, len(selected))
	for id := range selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		s := selected[id]
		if c.DryRun {
			report.Removed = append(report.Removed, s.ID)
			continue
		}

		// Hold the session lock while deleting so an opening process
		// cannot observe a half-removed session.
		f, ok, err := AcquireLockHandle(s.LockPath)
		if err != nil || !ok {
			report.Skipped = append(report.Skipped, s.ID)
			continue
		}
		if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
			_ = f.Close()
			report.Skipped = append(report.Skipped, s.ID)
			continue
		}
		_ = ReleaseLockHandle(f)
		report.Removed = append(report.Removed, s.ID)
	}

	return &report, nil
}
