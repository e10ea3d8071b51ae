package platform

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config dir at an empty temp dir and clears overrides.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, key := range []string{"BASE_URL", "STATE_DIR", "VAULT_DIR", "LOG_LEVEL", "TIMEOUT"} {
		t.Setenv(EnvPrefix+key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Empty(t, cfg.Source)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))

	yaml := "base_url: https://notes.example.com/api/v1\n" +
		"timeout: 15s\n" +
		"state_dir: state\n" +
		"vault_dir: /srv/vault\n" +
		"log_level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte(yaml), 0644))

	cfg, err := LoadConfig(sub)
	require.NoError(t, err)
	assert.Equal(t, "https://notes.example.com/api/v1", cfg.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, filepath.Join(root, "state"), cfg.StateDir, "relative dirs resolve against the file")
	assert.Equal(t, "/srv/vault", cfg.VaultDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, filepath.Join(root, ConfigFile), cfg.Source)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte("timeout: [nope"), 0644))

	_, err := LoadConfig(root)
	assert.Error(t, err)
}

func TestLoadConfig_EnvPrecedence(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte("log_level: warn\n"), 0644))
	dotenv := "STUDYNOTES_LOG_LEVEL=error\n" +
		"STUDYNOTES_BASE_URL=http://dotenv.local/api\n" +
		"STUDYNOTES_TIMEOUT=5s\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte(dotenv), 0644))

	t.Setenv(EnvPrefix+"BASE_URL", "http://env.local/api")

	cfg, err := LoadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel, ".env overrides the file")
	assert.Equal(t, "http://env.local/api", cfg.BaseURL, "real environment overrides .env")
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoadConfig_BadTimeout(t *testing.T) {
	isolate(t)
	t.Setenv(EnvPrefix+"TIMEOUT", "soon")

	_, err := LoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "TIMEOUT")
}

func TestConfig_Validate(t *testing.T) {
	base := Config{BaseURL: "https://x", Timeout: time.Second, StateDir: "s"}
	require.NoError(t, base.Validate())

	bad := base
	bad.BaseURL = "ftp://x"
	assert.Error(t, bad.Validate())

	bad = base
	bad.Timeout = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.StateDir = ""
	assert.Error(t, bad.Validate())
}
