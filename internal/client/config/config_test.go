package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8000", c.APIBaseURL)
	assert.Equal(t, "penaltybox.db", c.StatePath)
	assert.Equal(t, "info", c.LogLevel)
	assert.Zero(t, c.RequestTimeout)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"penaltybox"}
	t.Setenv(envAPIBaseURL, "")
	chdir(t, t.TempDir())

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, "penaltybox.db", cfg.StatePath)
}

func TestLoadConfig_DotEnvThenFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("PENALTYBOX_API_BASE_URL=http://dotenv:8000/\nPENALTYBOX_LOG_LEVEL=debug\n"), 0o600))
	chdir(t, dir)
	t.Setenv(envAPIBaseURL, "")
	t.Setenv(envLogLevel, "")
	os.Unsetenv(envAPIBaseURL)
	os.Unsetenv(envLogLevel)

	os.Args = []string{"penaltybox", "-s", "/tmp/state.db"}
	cfg := LoadConfig()

	assert.Equal(t, "http://dotenv:8000", cfg.APIBaseURL, "trailing slash is trimmed")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/state.db", cfg.StatePath)
}

func TestParseEnv(t *testing.T) {
	env := map[string]string{
		envAPIBaseURL: "https://api.example.com",
		envStatePath:  "",
		envLogLevel:   "warn",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, lookup)

	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, "penaltybox.db", cfg.StatePath, "empty value keeps the default")
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestNormalize(t *testing.T) {
	cfg := &Config{APIBaseURL: "  http://h:1/// "}
	cfg.normalize()
	assert.Equal(t, "http://h:1", cfg.APIBaseURL)

	cfg = &Config{APIBaseURL: "/"}
	cfg.normalize()
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)

}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
