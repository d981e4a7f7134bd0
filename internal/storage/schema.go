package storage

import (
	"encoding/json"
	"fmt"
	"time"
)

// CurrentSchemaVersion is written to every session record on save.
const CurrentSchemaVersion = "1.0.0"

// Session is the complete, persisted state of a single storefront session.
// It is the top-level object serialized to a file. Consumers address their
// state through Entries, each holding an independently encoded value under a
// fixed key (e.g. "cart").
type Session struct {
	Version   string                     `json:"version"`
	SessionID string                     `json:"session_id"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
	Entries   map[string]json.RawMessage `json:"entries"`
}

// NewSession returns an empty session record for sessionID.
func NewSession(sessionID string, now time.Time) *Session {
	return &Session{
		Version:   CurrentSchemaVersion,
		SessionID: sessionID,
		CreatedAt: now,
		UpdatedAt: now,
		Entries:   make(map[string]json.RawMessage),
	}
}

// stamp marks the record as written at now in the current schema.
func (s *Session) stamp(now time.Time) {
	s.Version = CurrentSchemaVersion
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}

func decodeSession(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if s.Entries == nil {
		s.Entries = make(map[string]json.RawMessage)
	}
	return &s, nil
}
