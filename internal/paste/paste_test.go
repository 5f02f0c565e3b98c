package paste

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewServiceDefaults(t *testing.T) {
	t.Parallel()

	s := NewService(Config{RestoreClipboard: true}, zerolog.Nop())
	assert.Equal(t, defaultRestoreDelay, s.cfg.RestoreDelay)
}

func TestNewServiceKeepsExplicitDelay(t *testing.T) {
	t.Parallel()

	s := NewService(Config{RestoreDelay: 50 * time.Millisecond}, zerolog.Nop())
	assert.Equal(t, 50*time.Millisecond, s.cfg.RestoreDelay)
}

func TestPasteChordPerPlatform(t *testing.T) {
	t.Parallel()

	cases := []struct {
		goos  string
		super bool
	}{
		{"darwin", true},
		{"linux", false},
		{"windows", false},
		{"freebsd", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.super, useSuperChord(tc.goos), tc.goos)
	}
}
