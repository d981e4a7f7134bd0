package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromReader(t *testing.T) {
	input := `# comment
api.endpoint https://example.test/graphql
currency.locale de

[catalog]
category tech

[sessions]
maxAgeDays 7
autoCleanupEnabled no
`
	c, err := LoadFromReader(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/graphql", c.Global["api.endpoint"])
	assert.Equal(t, "de", c.Global["currency.locale"])
	v, ok := c.GetCommandOption("catalog", "category")
	assert.True(t, ok)
	assert.Equal(t, "tech", v)
	v, ok = c.GetCommandOption("catalog", "currency.locale")
	assert.True(t, ok, "falls back to global")
	assert.Equal(t, "de", v)

	assert.Equal(t, 7, c.Sessions.MaxAgeDays)
	assert.False(t, c.Sessions.AutoCleanupEnabled)
	assert.Equal(t, 50, c.Sessions.MaxCount, "default kept")
	assert.False(t, c.HasWarnings())
}

func TestLoadFromReader_Warnings(t *testing.T) {
	input := `bogus 1
api.timeout soon
storage.backend s3
[catalog]
nope x
`
	c, err := LoadFromReader(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, c.Warnings, 4)
	joined := strings.Join(c.Warnings, "\n")
	assert.Contains(t, joined, `unknown global option: "bogus"`)
	assert.Contains(t, joined, `expected duration`)
	assert.Contains(t, joined, `expected one of fs, memory`)
	assert.Contains(t, joined, `unknown option for command "catalog"`)
}

func TestLoadFromReader_InvalidSessionOption(t *testing.T) {
	for _, input := range []string{
		"[sessions]\nmaxAgeDays -1\n",
		"[sessions]\nmaxCount lots\n",
		"[sessions]\ncleanupIntervalHours 0\n",
		"[sessions]\nautoCleanupEnabled maybe\n",
		"[sessions]\nunknown 1\n",
	} {
		_, err := LoadFromReader(strings.NewReader(input))
		assert.Error(t, err, input)
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()

	c, err := LoadFromPath(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, c.Global)

	path := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(path, []byte("verbose true\n"), 0644))
	c, err = LoadFromPath(path)
	require.NoError(t, err)
	assert.True(t, c.Settings().Verbose)

	link := filepath.Join(dir, "link")
	if err := os.Symlink(path, link); err == nil {
		_, err = LoadFromPath(link)
		assert.ErrorContains(t, err, "symlink")
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/storefront-test-config")
	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/storefront-test-config", p)

	t.Setenv(EnvConfigPath, "")
	p, err = Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(".storefront", "config"), filepath.Join(filepath.Base(filepath.Dir(p)), filepath.Base(p)))
}

func TestSettings(t *testing.T) {
	for _, k := range []string{"STOREFRONT_API_URL", "STOREFRONT_API_TIMEOUT", "STOREFRONT_SESSION_ID", "STOREFRONT_STORAGE_BACKEND", "STOREFRONT_LOCALE", "STOREFRONT_LOG_FILE", "STOREFRONT_LOG_LEVEL"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	s := NewConfig().Settings()
	assert.Equal(t, "https://rugurujane.xyz/backend/", s.APIEndpoint)
	assert.Equal(t, 30*time.Second, s.APITimeout)
	assert.Equal(t, "fs", s.StorageBackend)
	assert.Equal(t, "en", s.CurrencyLocale)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, 10, s.LogMaxSizeMB)
	assert.Equal(t, 5, s.LogMaxFiles)

	c := NewConfig()
	c.SetGlobalOption(KeyAPITimeout, "5s")
	c.SetGlobalOption(KeyLogMaxFiles, "many")
	c.SetGlobalOption(KeyStorageBackend, "memory")
	s = c.Settings()
	assert.Equal(t, 5*time.Second, s.APITimeout)
	assert.Equal(t, 5, s.LogMaxFiles, "unparseable value falls back to default")
	assert.Equal(t, "memory", s.StorageBackend)

	t.Setenv("STOREFRONT_API_URL", "http://localhost:4000/")
	t.Setenv("STOREFRONT_STORAGE_BACKEND", "fs")
	s = c.Settings()
	assert.Equal(t, "http://localhost:4000/", s.APIEndpoint)
	assert.Equal(t, "fs", s.StorageBackend, "env beats file")
}
