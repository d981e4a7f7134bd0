package storage

import (
	"strings"
	"testing"
)

func TestGetBackend(t *testing.T) {
	setupTest(t)
	t.Cleanup(ClearAllInMemorySessions)

	if names := BackendNames(); len(names) != 2 || names[0] != "fs" || names[1] != "memory" {
		t.Errorf("BackendNames() = %v", names)
	}

	for _, name := range []string{"fs", "memory"} {
		backend, err := GetBackend(name, "registry-"+name)
		if err != nil {
			t.Fatalf("GetBackend(%q) error = %v", name, err)
		}
		_ = backend.Close()
	}

	_, err := GetBackend("nope", "x")
	if err == nil || !strings.Contains(err.Error(), "unknown storage backend") {
		t.Errorf("GetBackend(nope) error = %v", err)
	}
}
