package ports

import (
	"context"

	"voxtype/internal/domain"
)

// CaptureDevice records microphone audio to a file on local storage.
//
// The audio format contract is fixed: mono, 16 kHz, 16-bit linear PCM WAV.
// The transcription endpoint depends on it; any backend must honor it exactly.
type CaptureDevice interface {
	// RequestPermission may prompt the user and must be safe to call
	// repeatedly once granted.
	RequestPermission(ctx context.Context) (bool, error)

	// Start begins capturing to destination. Implementations return an error
	// matching ErrAlreadyRecording when a previous capture is still live,
	// which the coordinator recovers from with a single retry.
	Start(ctx context.Context, destination string) error

	// Stop finishes the capture and returns the path of the completed file,
	// or "" when no capture was running.
	Stop() (string, error)

	// Cancel stops and discards the capture, deleting any partial file.
	// Idempotent even when not recording.
	Cancel()

	// InputDeviceName reports the name of the active input device.
	InputDeviceName() string
}

// Transcriber uploads a finished audio file and returns the transcription.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*domain.Transcription, error)
}

// Paster writes text to the system clipboard and synthesizes a paste
// keystroke into the focused application.
type Paster interface {
	// CheckPermission reports whether keystroke synthesis is allowed. It must
	// never itself prompt the user.
	CheckPermission() bool

	// RequestPermission may prompt; returns the resulting grant.
	RequestPermission() bool

	// Paste performs the clipboard write plus paste gesture. Returns false on
	// synthesis failure.
	Paste(ctx context.Context, text string) bool
}

// EventSink receives coordinator state changes and errors. Implementations
// must never call back into the coordinator synchronously.
type EventSink interface {
	SessionStateChanged(status domain.Status, reason domain.SessionStateReason)
	SessionError(code domain.ErrorCode, detail string)
}

// Notifier plays user-facing cues for session milestones.
type Notifier interface {
	RecordingStarted()
	RecordingStopped()
	TranscriptInserted()
	SessionFailed(message string)
}
