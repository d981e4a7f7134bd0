package storage

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestPaths(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		ResetPaths()
		dir, err := SessionDirectory()
		if err != nil {
			t.Skipf("no user config dir: %v", err)
		}
		if !strings.HasSuffix(dir, filepath.Join("storefront", "sessions")) {
			t.Errorf("SessionDirectory() = %q", dir)
		}
		file, err := SessionFilePath("abc")
		if err != nil {
			t.Fatal(err)
		}
		if file != filepath.Join(dir, "abc.session.json") {
			t.Errorf("SessionFilePath() = %q", file)
		}
		lock, err := SessionLockFilePath("abc")
		if err != nil {
			t.Fatal(err)
		}
		if lock != filepath.Join(dir, "abc.session.lock") {
			t.Errorf("SessionLockFilePath() = %q", lock)
		}
	})

	t.Run("overridden", func(t *testing.T) {
		dir := setupTest(t)
		if got, _ := Dir(); got != dir {
			t.Errorf("Dir() = %q, want %q", got, dir)
		}
		got, _ := sessionFilePath("x")
		if got != filepath.Join(dir, "x.session.json") {
			t.Errorf("sessionFilePath() = %q", got)
		}
		got, _ = sessionLockFilePath("x")
		if got != filepath.Join(dir, "x.session.lock") {
			t.Errorf("sessionLockFilePath() = %q", got)
		}
	})
}

func TestSessionPath_RejectsEscapingIDs(t *testing.T) {
	setupTest(t)
	for _, id := range []string{"", ".", "..", "../x", `a\b`, "a/b", "nul\x00"} {
		if _, err := SessionFilePath(id); !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("SessionFilePath(%q) error = %v, want ErrInvalidSessionID", id, err)
		}
		if _, err := SessionLockFilePath(id); !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("SessionLockFilePath(%q) error = %v, want ErrInvalidSessionID", id, err)
		}
	}
	if _, err := NewFileSystemBackend("../escape"); !errors.Is(err, ErrInvalidSessionID) {
		t.Errorf("NewFileSystemBackend() error = %v, want ErrInvalidSessionID", err)
	}
}

func TestSessionIDFromFile(t *testing.T) {
	tests := []struct {
		name string
		id   string
		ok   bool
	}{
		{"ex--a.session.json", "ex--a", true},
		{"ex--a.session.lock", "", false},
		{".session.json", "", false},
		{"notes.txt", "", false},
	}
	for _, tt := range tests {
		id, ok := sessionIDFromFile(tt.name)
		if ok != tt.ok || (ok && id != tt.id) {
			t.Errorf("sessionIDFromFile(%q) = %q, %v; want %q, %v", tt.name, id, ok, tt.id, tt.ok)
		}
	}
}
