package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Entries gives keyed access to the values stored in a single session
// record. Every Put rewrites the whole record through the backend, so each
// write is a complete snapshot of the session.
type Entries struct {
	backend   StorageBackend
	sessionID string
	logger    *slog.Logger
	now       func() time.Time
}

// EntriesOption configures an Entries view.
type EntriesOption func(*Entries)

// WithEntriesLogger sets the logger that reports replaced session records.
func WithEntriesLogger(logger *slog.Logger) EntriesOption {
	return func(e *Entries) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEntries returns a keyed view over the session identified by sessionID.
func NewEntries(backend StorageBackend, sessionID string, opts ...EntriesOption) *Entries {
	e := &Entries{
		backend:   backend,
		sessionID: sessionID,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SessionID returns the session this view reads and writes.
func (e *Entries) SessionID() string {
	return e.sessionID
}

// Get returns the raw value stored under key, or (nil, nil) if either the
// session or the key does not exist.
func (e *Entries) Get(key string) (json.RawMessage, error) {
	session, err := e.backend.LoadSession(e.sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %q: %w", e.sessionID, err)
	}
	if session == nil {
		return nil, nil
	}
	value, ok := session.Entries[key]
	if !ok {
		return nil, nil
	}
	return value, nil
}

// Put stores value under key. A session record that cannot be read is
// replaced by a fresh one rather than blocking the write.
func (e *Entries) Put(key string, value json.RawMessage) error {
	session, err := e.backend.LoadSession(e.sessionID)
	if err != nil {
		e.logger.Warn("storage: discarding unreadable session record", "session", e.sessionID, "error", err)
		session = nil
	}
	if session == nil {
		session = NewSession(e.sessionID, e.now())
	}
	if session.Entries == nil {
		session.Entries = make(map[string]json.RawMessage)
	}
	session.Entries[key] = append(json.RawMessage(nil), value...)
	session.UpdatedAt = e.now()
	if err := e.backend.SaveSession(session); err != nil {
		return fmt.Errorf("failed to save session %q: %w", e.sessionID, err)
	}
	return nil
}

// Delete removes key from the session. Deleting a missing key is a no-op.
func (e *Entries) Delete(key string) error {
	session, err := e.backend.LoadSession(e.sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session %q: %w", e.sessionID, err)
	}
	if session == nil {
		return nil
	}
	if _, ok := session.Entries[key]; !ok {
		return nil
	}
	delete(session.Entries, key)
	if err := e.backend.SaveSession(session); err != nil {
		return fmt.Errorf("failed to save session %q: %w", e.sessionID, err)
	}
	return nil
}
