package storage

// StorageBackend persists session records holding the cart and any other
// keyed entries.
type StorageBackend interface {
	// LoadSession returns (nil, nil) when no record exists for sessionID.
	LoadSession(sessionID string) (*Session, error)

	// SaveSession replaces the stored record as a whole.
	SaveSession(session *Session) error

	// Close releases backend resources such as the session lock.
	Close() error
}
