package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// InMemoryBackend keeps session records in process memory, shared by every
// backend in the process. It serves `storage.backend memory` and tests.
// Records are held encoded, so callers never share state with the store.
type InMemoryBackend struct {
	sessionID string
}

var _ StorageBackend = (*InMemoryBackend)(nil)

var memoryRecords = struct {
	sync.RWMutex
	byID map[string][]byte
}{byID: make(map[string][]byte)}

// NewInMemoryBackend returns a backend for sessionID.
func NewInMemoryBackend(sessionID string) (*InMemoryBackend, error) {
	if sessionID == "" {
		return nil, errors.New("session id is empty")
	}
	return &InMemoryBackend{sessionID: sessionID}, nil
}

// LoadSession returns a fresh copy of the record, or (nil, nil).
func (b *InMemoryBackend) LoadSession(sessionID string) (*Session, error) {
	if sessionID != b.sessionID {
		return nil, fmt.Errorf("backend holds session %q, not %q", b.sessionID, sessionID)
	}
	memoryRecords.RLock()
	data, ok := memoryRecords.byID[sessionID]
	memoryRecords.RUnlock()
	if !ok {
		return nil, nil
	}
	return decodeSession(data)
}

// SaveSession stamps and stores a copy of session.
func (b *InMemoryBackend) SaveSession(session *Session) error {
	if session.SessionID != b.sessionID {
		return fmt.Errorf("backend holds session %q, not %q", b.sessionID, session.SessionID)
	}
	session.stamp(time.Now())
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	memoryRecords.Lock()
	memoryRecords.byID[session.SessionID] = data
	memoryRecords.Unlock()
	return nil
}

// Close is a no-op; records outlive the backend.
func (b *InMemoryBackend) Close() error { return nil }

// ClearAllInMemorySessions drops every in-memory record.
func ClearAllInMemorySessions() {
	memoryRecords.Lock()
	memoryRecords.byID = make(map[string][]byte)
	memoryRecords.Unlock()
}
