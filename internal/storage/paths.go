package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	recordSuffix = ".session.json"
	lockSuffix   = ".session.lock"
)

// ErrInvalidSessionID is returned for ids that cannot name a file inside the
// sessions directory.
var ErrInvalidSessionID = errors.New("invalid session id")

// sessionRoot yields the sessions directory. Tests point it elsewhere with
// SetTestPaths.
var sessionRoot = SessionDirectory

// SetTestPaths keeps every session record and lock under dir until
// ResetPaths is called.
func SetTestPaths(dir string) {
	sessionRoot = func() (string, error) { return dir, nil }
}

// ResetPaths restores the per-user sessions directory.
func ResetPaths() {
	sessionRoot = SessionDirectory
}

// SessionDirectory returns {UserConfigDir}/storefront/sessions.
func SessionDirectory() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(base, "storefront", "sessions"), nil
}

// SessionFilePath returns where the record for sessionID is kept.
func SessionFilePath(sessionID string) (string, error) {
	return sessionPath(sessionID, recordSuffix)
}

// SessionLockFilePath returns the lock file guarding sessionID.
func SessionLockFilePath(sessionID string) (string, error) {
	return sessionPath(sessionID, lockSuffix)
}

// Dir returns the sessions directory in effect, honoring SetTestPaths.
func Dir() (string, error) { return sessionRoot() }

func sessionDirectory() (string, error) { return sessionRoot() }

func sessionFilePath(sessionID string) (string, error) { return SessionFilePath(sessionID) }

func sessionLockFilePath(sessionID string) (string, error) { return SessionLockFilePath(sessionID) }

func sessionPath(sessionID, suffix string) (string, error) {
	if sessionID == "" || sessionID == "." || sessionID == ".." || strings.ContainsAny(sessionID, `/\`+"\x00") {
		return "", fmt.Errorf("%w: %q", ErrInvalidSessionID, sessionID)
	}
	dir, err := sessionRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionID+suffix), nil
}

// sessionIDFromFile reports the session id a directory entry belongs to, and
// whether the entry is a session record.
func sessionIDFromFile(name string) (string, bool) {
	id, ok := strings.CutSuffix(name, recordSuffix)
	return id, ok && id != ""
}
