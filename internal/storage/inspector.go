package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// SessionInfo describes a stored session record.
type SessionInfo struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	LockPath  string    `json:"lockPath"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsActive  bool      `json:"isActive"`
}

// ScanSessions lists the session records in the sessions directory. A
// record is active when another process holds its lock. A missing directory
// yields an empty list.
func ScanSessions() ([]SessionInfo, error) {
	dir, err := sessionDirectory()
	if err != nil {
		return nil, err
	}
	dirents, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []SessionInfo{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]SessionInfo, 0, len(dirents))
	for _, d := range dirents {
		id, ok := sessionIDFromFile(d.Name())
		if !ok || d.IsDir() {
			continue
		}
		info, err := d.Info()
		if err != nil {
			continue
		}
		lockPath, err := sessionLockFilePath(id)
		if err != nil {
			continue
		}
		out = append(out, SessionInfo{
			ID:        id,
			Path:      filepath.Join(dir, d.Name()),
			LockPath:  lockPath,
			Size:      info.Size(),
			UpdatedAt: info.ModTime(),
			IsActive:  lockHeldElsewhere(lockPath),
		})
	}
	return out, nil
}

// lockHeldElsewhere tries the lock without blocking. The lock file is left
// on disk; removing it would race a process about to open the session.
func lockHeldElsewhere(lockPath string) bool {
	f, acquired, err := AcquireLockHandle(lockPath)
	if err != nil {
		return false
	}
	if acquired {
		_ = f.Close()
	}
	return !acquired
}
