package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxtype/internal/config"
)

func TestBuildSuccess(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("VOXTYPE_API_KEY", "test-key")
	t.Setenv("VOXTYPE_TEMP_DIR", tempDir)
	t.Setenv("VOXTYPE_SOCKET", filepath.Join(tempDir, "voxtype.sock"))

	services, err := Build(config.Overrides{EnvFile: filepath.Join(tempDir, "absent.env")})
	require.NoError(t, err)
	require.NotNil(t, services.Coordinator)
	require.NotNil(t, services.Server)
	assert.Equal(t, "test-key", services.Config.APIKey)
}

func TestSweepStaleTempFiles(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	stale := filepath.Join(tempDir, "voxtype_deadbeef.wav")
	fresh := filepath.Join(tempDir, "voxtype_cafebabe.wav")
	unrelated := filepath.Join(tempDir, "keep.txt")

	for _, path := range []string{stale, fresh, unrelated} {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	}
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	sweepStaleTempFiles(tempDir, zerolog.Nop())

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, unrelated)
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	t.Parallel()

	log := NewLogger("not-a-level")
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}
