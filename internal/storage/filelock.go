package storage

import (
	"errors"
	"os"
)

// ErrWouldBlock signals that a non-blocking lock attempt failed because the
// lock is held by another process.
var ErrWouldBlock = errors.New("file lock would block")

// AcquireLockHandle attempts to acquire an exclusive lock on path. It
// returns (nil, false, nil) when another process holds the lock.
func AcquireLockHandle(path string) (*os.File, bool, error) {
	f, err := acquireFileLock(path)
	if err != nil {
		if f != nil {
			_ = f.Close()
		}
		if errors.Is(err, ErrWouldBlock) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return f, true, nil
}

// ReleaseLockHandle releases the lock held by f and removes the lock file.
func ReleaseLockHandle(f *os.File) error { return releaseFileLock(f) }
