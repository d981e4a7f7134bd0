package config

import (
	"os"
	"path/filepath"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "STOREFRONT_CONFIG"

// Path returns the config file path: $STOREFRONT_CONFIG when set, otherwise
// ~/.storefront/config.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".storefront", "config"), nil
}
