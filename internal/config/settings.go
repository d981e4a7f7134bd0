package config

import (
	"strconv"
	"time"
)

// Settings are the effective global options after env overrides and
// defaults are applied.
type Settings struct {
	APIEndpoint    string
	APITimeout     time.Duration
	SessionID      string
	StorageBackend string
	CurrencyLocale string
	Verbose        bool
	LogFile        string
	LogLevel       string
	LogMaxSizeMB   int
	LogMaxFiles    int
}

// Settings resolves the global options of c against DefaultSchema. Values
// that fail to parse fall back to their defaults.
func (c *Config) Settings() Settings {
	s := DefaultSchema()
	get := func(key string) string { return s.Resolve(c, key) }
	def := func(key string) string { return s.Lookup("", key).Default }

	return Settings{
		APIEndpoint:    get(KeyAPIEndpoint),
		APITimeout:     durationOr(get(KeyAPITimeout), def(KeyAPITimeout)),
		SessionID:      get(KeySessionID),
		StorageBackend: get(KeyStorageBackend),
		CurrencyLocale: get(KeyCurrencyLocale),
		Verbose:        boolOr(get(KeyVerbose), false),
		LogFile:        get(KeyLogFile),
		LogLevel:       get(KeyLogLevel),
		LogMaxSizeMB:   intOr(get(KeyLogMaxSizeMB), def(KeyLogMaxSizeMB)),
		LogMaxFiles:    intOr(get(KeyLogMaxFiles), def(KeyLogMaxFiles)),
	}
}

func durationOr(v, fallback string) time.Duration {
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	d, _ := time.ParseDuration(fallback)
	return d
}

func intOr(v, fallback string) int {
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	n, _ := strconv.Atoi(fallback)
	return n
}

func boolOr(v string, fallback bool) bool {
	if b, err := parseBool(v); err == nil {
		return b
	}
	return fallback
}
