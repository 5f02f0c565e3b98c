package paste

import (
	"context"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
	"github.com/rs/zerolog"
)

const (
	// settleDelay gives the clipboard owner time to register the new
	// contents before the gesture fires.
	settleDelay = 80 * time.Millisecond

	defaultRestoreDelay = 300 * time.Millisecond
)

// Config controls clipboard behavior around the paste gesture.
type Config struct {
	// RestoreClipboard snapshots the previous clipboard text and puts it
	// back after the gesture completes.
	RestoreClipboard bool

	// RestoreDelay is how long after the gesture the snapshot is restored.
	RestoreDelay time.Duration
}

// Service writes text to the system clipboard and synthesizes the platform
// paste keystroke into the focused application.
type Service struct {
	cfg Config
	log zerolog.Logger
}

func NewService(cfg Config, log zerolog.Logger) *Service {
	if cfg.RestoreDelay <= 0 {
		cfg.RestoreDelay = defaultRestoreDelay
	}
	return &Service{cfg: cfg, log: log.With().Str("component", "paste").Logger()}
}

// CheckPermission probes whether keystroke synthesis is available. Binding a
// virtual keyboard is the probe itself; it never prompts the user.
func (s *Service) CheckPermission() bool {
	_, err := keybd_event.NewKeyBonding()
	return err == nil
}

// RequestPermission re-runs the probe. Keystroke access is granted out of
// band (input group membership, accessibility trust), so there is nothing to
// prompt from here; the coordinator treats a false return as denial.
func (s *Service) RequestPermission() bool {
	granted := s.CheckPermission()
	if !granted {
		s.log.Warn().Msg("input synthesis unavailable; grant input access and retry")
	}
	return granted
}

// Paste writes text to the clipboard and fires the paste gesture. When
// clipboard restore is enabled the prior contents are put back once the
// gesture has had time to complete.
func (s *Service) Paste(_ context.Context, text string) bool {
	var original string
	restore := false
	if s.cfg.RestoreClipboard {
		if prev, err := clipboard.ReadAll(); err == nil {
			original = prev
			restore = true
		}
	}

	if err := clipboard.WriteAll(text); err != nil {
		s.log.Error().Err(err).Msg("clipboard write failed")
		return false
	}
	time.Sleep(settleDelay)

	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		s.log.Error().Err(err).Msg("keyboard binding failed")
		return false
	}
	if useSuperChord(runtime.GOOS) {
		kb.HasSuper(true)
	} else {
		kb.HasCTRL(true)
	}
	kb.SetKeys(keybd_event.VK_V)
	if err := kb.Launching(); err != nil {
		s.log.Error().Err(err).Msg("paste gesture failed")
		return false
	}

	if restore {
		time.Sleep(s.cfg.RestoreDelay)
		if err := clipboard.WriteAll(original); err != nil {
			s.log.Warn().Err(err).Msg("clipboard restore failed")
		}
	}
	return true
}

// useSuperChord selects the platform paste chord: Cmd+V on macOS, Ctrl+V
// everywhere else.
func useSuperChord(goos string) bool {
	return goos == "darwin"
}
