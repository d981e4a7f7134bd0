package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// FileSystemBackend keeps one session record as a JSON file and holds the
// session's lock file for as long as it is open, so a second process opening
// the same session fails with an error wrapping ErrWouldBlock.
type FileSystemBackend struct {
	sessionID string
	path      string
	lock      *os.File
}

var _ StorageBackend = (*FileSystemBackend)(nil)

// NewFileSystemBackend creates the sessions directory if needed and locks
// sessionID.
func NewFileSystemBackend(sessionID string) (*FileSystemBackend, error) {
	path, err := SessionFilePath(sessionID)
	if err != nil {
		return nil, err
	}
	lockPath, err := SessionLockFilePath(sessionID)
	if err != nil {
		return nil, err
	}
	dir, err := sessionDirectory()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	lock, err := acquireFileLock(lockPath)
	if err != nil {
		return nil, fmt.Errorf("failed to lock session: %w", err)
	}
	return &FileSystemBackend{sessionID: sessionID, path: path, lock: lock}, nil
}

func (b *FileSystemBackend) owns(sessionID string) error {
	if sessionID != b.sessionID {
		return fmt.Errorf("backend holds session %q, not %q", b.sessionID, sessionID)
	}
	return nil
}

// LoadSession reads the record, or returns (nil, nil) before the first save.
func (b *FileSystemBackend) LoadSession(sessionID string) (*Session, error) {
	if err := b.owns(sessionID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	return decodeSession(data)
}

// SaveSession stamps the schema version and timestamps, then replaces the
// file atomically.
func (b *FileSystemBackend) SaveSession(session *Session) error {
	if err := b.owns(session.SessionID); err != nil {
		return err
	}
	session.stamp(time.Now())
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := AtomicWriteFile(b.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Close releases the session lock. Closing twice is a no-op.
func (b *FileSystemBackend) Close() error {
	if b.lock == nil {
		return nil
	}
	lock := b.lock
	b.lock = nil
	if err := releaseFileLock(lock); err != nil {
		return fmt.Errorf("failed to release session lock: %w", err)
	}
	return nil
}
