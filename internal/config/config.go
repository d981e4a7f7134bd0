// Package config loads the storefront configuration file: a dnsmasq-style
// list of "optionName value" lines, optional [command] sections, and a
// [sessions] section governing session retention.
package config

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config is a parsed configuration file.
type Config struct {
	// Global holds options outside any section.
	Global map[string]string
	// Commands holds options from [command] sections.
	Commands map[string]map[string]string
	// Sessions holds the [sessions] section.
	Sessions SessionConfig
	// Warnings lists schema violations found while loading.
	Warnings []string
}

// SessionConfig controls retention of stored sessions (and their carts).
type SessionConfig struct {
	MaxAgeDays           int
	MaxCount             int
	MaxSizeMB            int
	AutoCleanupEnabled   bool
	CleanupIntervalHours int
}

// NewConfig returns an empty configuration with default session retention.
func NewConfig() *Config {
	return &Config{
		Global:   make(map[string]string),
		Commands: make(map[string]map[string]string),
		Sessions: SessionConfig{
			MaxAgeDays:           30,
			MaxCount:             50,
			MaxSizeMB:            50,
			AutoCleanupEnabled:   true,
			CleanupIntervalHours: 24,
		},
	}
}

// Load reads the file at Path(). A missing file yields an empty config.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the config at path. Symlinks are refused.
func LoadFromPath(path string) (*Config, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfig(), nil
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("symlink not allowed in config path: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return LoadFromReader(f)
}

// LoadFromReader parses a config from r and validates it against
// DefaultSchema, recording (and logging) any issues as warnings.
func LoadFromReader(r io.Reader) (*Config, error) {
	c := NewConfig()
	scanner := bufio.NewScanner(r)

	section := ""
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(strings.Trim(line, "[]"))
			if section != sessionsSection && c.Commands[section] == nil {
				c.Commands[section] = make(map[string]string)
			}
			continue
		}

		name, value, _ := strings.Cut(line, " ")
		value = strings.TrimSpace(value)

		switch section {
		case "":
			c.Global[name] = value
		case sessionsSection:
			if err := c.Sessions.set(name, value); err != nil {
				return nil, fmt.Errorf("line %d: invalid [sessions] option %q: %w", lineNo, name, err)
			}
		default:
			c.Commands[section][name] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	for _, issue := range ValidateConfig(c, DefaultSchema()) {
		c.warn(issue)
	}
	return c, nil
}

const sessionsSection = "sessions"

func (c *Config) warn(msg string) {
	c.Warnings = append(c.Warnings, msg)
	slog.Warn("[Config] " + msg)
}

func (sc *SessionConfig) set(name, value string) error {
	nonNegative := func(dst *int) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value %q", value)
		}
		if n < 0 {
			return fmt.Errorf("%s cannot be negative: %d", name, n)
		}
		*dst = n
		return nil
	}

	switch name {
	case "maxAgeDays":
		return nonNegative(&sc.MaxAgeDays)
	case "maxCount":
		return nonNegative(&sc.MaxCount)
	case "maxSizeMB":
		return nonNegative(&sc.MaxSizeMB)
	case "cleanupIntervalHours":
		if err := nonNegative(&sc.CleanupIntervalHours); err != nil {
			return err
		}
		if sc.CleanupIntervalHours < 1 {
			return fmt.Errorf("cleanupIntervalHours must be at least 1")
		}
		return nil
	case "autoCleanupEnabled":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		sc.AutoCleanupEnabled = b
		return nil
	default:
		return fmt.Errorf("unknown session option: %s", name)
	}
}

// parseBool accepts true/false, 1/0, yes/no and on/off, case-insensitively.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value: %s", s)
}

// GetGlobalOption returns a global option.
func (c *Config) GetGlobalOption(name string) (string, bool) {
	v, ok := c.Global[name]
	return v, ok
}

// GetCommandOption returns the option from command's section, falling back
// to the global value.
func (c *Config) GetCommandOption(command, name string) (string, bool) {
	if opts, ok := c.Commands[command]; ok {
		if v, ok := opts[name]; ok {
			return v, true
		}
	}
	return c.GetGlobalOption(name)
}

// SetGlobalOption sets a global option in memory.
func (c *Config) SetGlobalOption(name, value string) {
	c.Global[name] = value
}

// HasWarnings reports whether loading produced warnings.
func (c *Config) HasWarnings() bool {
	return len(c.Warnings) > 0
}
