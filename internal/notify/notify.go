package notify

import (
	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"
)

const title = "voxtype"

// Beeper surfaces session milestones as desktop notifications. Cues are
// best-effort; a failing notification daemon never affects the session.
type Beeper struct {
	enabled bool
	log     zerolog.Logger
}

func New(enabled bool, log zerolog.Logger) *Beeper {
	return &Beeper{enabled: enabled, log: log.With().Str("component", "notify").Logger()}
}

func (b *Beeper) RecordingStarted() { b.send("Recording started") }

func (b *Beeper) RecordingStopped() { b.send("Transcribing...") }

func (b *Beeper) TranscriptInserted() { b.send("Transcript inserted") }

func (b *Beeper) SessionFailed(message string) {
	if !b.enabled {
		return
	}
	if err := beeep.Alert(title, message, ""); err != nil {
		b.log.Debug().Err(err).Msg("alert failed")
	}
}

func (b *Beeper) send(message string) {
	if !b.enabled {
		return
	}
	if err := beeep.Notify(title, message, ""); err != nil {
		b.log.Debug().Err(err).Msg("notification failed")
	}
}
