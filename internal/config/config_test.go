package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"VOXTYPE_API_KEY", "VOXTYPE_ENDPOINT", "VOXTYPE_MODEL", "VOXTYPE_LANGUAGE",
		"VOXTYPE_REQUEST_TIMEOUT", "VOXTYPE_ENABLE_PASTE", "VOXTYPE_RESTORE_CLIPBOARD",
		"VOXTYPE_NOTIFICATIONS", "VOXTYPE_TEMP_DIR", "VOXTYPE_SOCKET", "LOG_LEVEL",
		"OPENAI_API_KEY", "XDG_RUNTIME_DIR",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Overrides{EnvFile: filepath.Join(t.TempDir(), "absent.env")})
	require.NoError(t, err)

	assert.Equal(t, "https://api.openai.com/v1/audio/transcriptions", cfg.Endpoint)
	assert.Equal(t, "whisper-1", cfg.Model)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.EnablePaste)
	assert.True(t, cfg.RestoreClipboard)
	assert.True(t, cfg.Notifications)
	assert.Equal(t, os.TempDir(), cfg.TempDir)
	assert.Equal(t, filepath.Join(os.TempDir(), "voxtype.sock"), cfg.SocketPath)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("VOXTYPE_API_KEY", "env-key")
	t.Setenv("VOXTYPE_ENDPOINT", "https://stt.example.com/transcribe")
	t.Setenv("VOXTYPE_MODEL", "whisper-large-v3")
	t.Setenv("VOXTYPE_LANGUAGE", "de")
	t.Setenv("VOXTYPE_ENABLE_PASTE", "false")
	t.Setenv("VOXTYPE_REQUEST_TIMEOUT", "30s")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")

	cfg, err := Load(Overrides{EnvFile: filepath.Join(t.TempDir(), "absent.env")})
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "https://stt.example.com/transcribe", cfg.Endpoint)
	assert.Equal(t, "whisper-large-v3", cfg.Model)
	assert.Equal(t, "de", cfg.Language)
	assert.False(t, cfg.EnablePaste)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "/run/user/1000/voxtype.sock", cfg.SocketPath)
}

func TestLoadOpenAIKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "fallback-key")

	cfg, err := Load(Overrides{EnvFile: filepath.Join(t.TempDir(), "absent.env")})
	require.NoError(t, err)
	assert.Equal(t, "fallback-key", cfg.APIKey)
}

func TestLoadOverridesWin(t *testing.T) {
	clearEnv(t)
	t.Setenv("VOXTYPE_MODEL", "from-env")
	t.Setenv("VOXTYPE_SOCKET", "/tmp/from-env.sock")

	cfg, err := Load(Overrides{
		EnvFile:    filepath.Join(t.TempDir(), "absent.env"),
		Model:      "from-flag",
		SocketPath: "/tmp/from-flag.sock",
		LogLevel:   "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.Model)
	assert.Equal(t, "/tmp/from-flag.sock", cfg.SocketPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadReadsEnvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), "voxtype.env")
	require.NoError(t, os.WriteFile(envFile, []byte("VOXTYPE_MODEL=from-file\n"), 0o600))

	cfg, err := Load(Overrides{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Model)
}
