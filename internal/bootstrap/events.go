package bootstrap

import (
	"github.com/rs/zerolog"

	"voxtype/internal/domain"
)

// logSink publishes coordinator transitions to the process log. The daemon
// has no UI surface of its own; observers poll status over the socket.
type logSink struct {
	log zerolog.Logger
}

func newLogSink(log zerolog.Logger) *logSink {
	return &logSink{log: log.With().Str("component", "session").Logger()}
}

func (s *logSink) SessionStateChanged(status domain.Status, reason domain.SessionStateReason) {
	s.log.Info().
		Str("state", string(status.State)).
		Str("mode", string(status.Mode)).
		Str("reason", string(reason)).
		Msg("state changed")
}

func (s *logSink) SessionError(code domain.ErrorCode, detail string) {
	s.log.Warn().Str("code", string(code)).Msg(detail)
}
