package storage

import (
	"fmt"
	"sort"
)

// BackendFactory is a function that creates a new StorageBackend instance.
type BackendFactory func(sessionID string) (StorageBackend, error)

// BackendRegistry maps backend names to their factory functions.
var BackendRegistry = make(map[string]BackendFactory)

func init() {
	BackendRegistry["fs"] = func(sessionID string) (StorageBackend, error) {
		return NewFileSystemBackend(sessionID)
	}
	BackendRegistry["memory"] = func(sessionID string) (StorageBackend, error) {
		return NewInMemoryBackend(sessionID)
	}
}

// GetBackend retrieves a backend by name and creates an instance.
func GetBackend(name, sessionID string) (StorageBackend, error) {
	factory, ok := BackendRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown storage backend: %s (available: %v)", name, BackendNames())
	}
	return factory(sessionID)
}

// BackendNames returns the registered backend names, sorted.
func BackendNames() []string {
	names := make([]string, 0, len(BackendRegistry))
	for name := range BackendRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
