package domain

// SessionState models the dictation session lifecycle.
type SessionState string

const (
	SessionStateIdle             SessionState = "idle"
	SessionStateInitiating       SessionState = "initiating"
	SessionStateRecording        SessionState = "recording"
	SessionStateProcessing       SessionState = "processing"
	SessionStateInserted         SessionState = "inserted"
	SessionStateCancelled        SessionState = "cancelled"
	SessionStateConfirmingCancel SessionState = "confirming_cancel"
	SessionStateError            SessionState = "error"
)

// Active reports whether a session currently holds the microphone or has a
// transcription in flight.
func (s SessionState) Active() bool {
	switch s {
	case SessionStateInitiating, SessionStateRecording, SessionStateProcessing, SessionStateConfirmingCancel:
		return true
	}
	return false
}

// RecordingMode selects which cancellation protocol applies to a session.
type RecordingMode string

const (
	RecordingModeNone       RecordingMode = "none"
	RecordingModeToggle     RecordingMode = "toggle"
	RecordingModePushToTalk RecordingMode = "push_to_talk"
)

// SessionStateReason provides a structured reason for state transitions.
type SessionStateReason string

const (
	SessionReasonStartup             SessionStateReason = "startup"
	SessionReasonStarting            SessionStateReason = "starting"
	SessionReasonRecordingStarted    SessionStateReason = "recording_started"
	SessionReasonTranscribing        SessionStateReason = "transcribing"
	SessionReasonTextInserted        SessionStateReason = "text_inserted"
	SessionReasonEmptyTranscript     SessionStateReason = "empty_transcript"
	SessionReasonCancelled           SessionStateReason = "cancelled"
	SessionReasonConfirmingCancel    SessionStateReason = "confirming_cancel"
	SessionReasonConfirmExpired      SessionStateReason = "confirm_expired"
	SessionReasonReverted            SessionStateReason = "reverted"
	SessionReasonMissingCredential   SessionStateReason = "missing_credential"
	SessionReasonMicPermission       SessionStateReason = "mic_permission_denied"
	SessionReasonRecordingFailed     SessionStateReason = "recording_failed"
	SessionReasonTranscriptionFailed SessionStateReason = "transcription_failed"
)

// ErrorCode identifies non-fatal and fatal backend errors.
type ErrorCode string

const (
	ErrorCodeStartup       ErrorCode = "startup"
	ErrorCodeCredential    ErrorCode = "credential"
	ErrorCodePermission    ErrorCode = "permission"
	ErrorCodeCapture       ErrorCode = "capture"
	ErrorCodeTranscription ErrorCode = "transcription"
	ErrorCodePaste         ErrorCode = "paste"
)

// Segment is one timestamped span of transcribed speech. The coordinator only
// consumes the top-level text; segments are retained for history consumers.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcription is the full result of one remote transcription call.
type Transcription struct {
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	Duration float64   `json:"duration,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
}

// Status summarizes the current coordinator state for external observers.
type Status struct {
	State       SessionState  `json:"state"`
	Mode        RecordingMode `json:"mode"`
	Active      bool          `json:"active"`
	InputDevice string        `json:"inputDevice,omitempty"`
	Message     string        `json:"message,omitempty"`
	LastText    string        `json:"lastText,omitempty"`
}
