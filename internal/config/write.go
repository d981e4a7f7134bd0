package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rugurujane/storefront/internal/storage"
)

// SetKeyInFile sets a global option in the config file at path, creating
// the file if needed. An existing global line for key is rewritten in
// place; otherwise the line is inserted before the first section header,
// or appended. Comments, blank lines and sections are preserved.
func SetKeyInFile(path, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config file: %w", err)
	}

	entry := strings.TrimSpace(key + " " + value)

	var lines []string
	if len(data) > 0 {
		lines = strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	}

	firstSection := -1
	replaced := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			firstSection = i
			break
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if name, _, _ := strings.Cut(trimmed, " "); name == key {
			lines[i] = entry
			replaced = true
			break
		}
	}

	if !replaced {
		if firstSection < 0 {
			lines = append(lines, entry)
		} else {
			lines = append(lines[:firstSection], append([]string{entry}, lines[firstSection:]...)...)
		}
	}

	return storage.AtomicWriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

// WriteTemplate writes DefaultSchema().Template() to path unless a file
// already exists there (or force is set).
func WriteTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}
	return storage.AtomicWriteFile(path, []byte(DefaultSchema().Template()), 0644)
}
