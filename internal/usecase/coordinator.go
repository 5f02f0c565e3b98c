package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"voxtype/internal/domain"
	"voxtype/internal/ports"
)

const (
	defaultRevertDelay  = 2 * time.Second
	defaultConfirmDelay = 5 * time.Second
)

// Config controls coordinator behavior.
type Config struct {
	// Credential is the API credential for the transcription endpoint. A
	// session cannot start without one.
	Credential string

	// TempDir receives per-session audio files.
	TempDir string

	// EnablePaste gates the paste gesture after a successful transcription.
	EnablePaste bool

	// RevertDelay is how long inserted/cancelled persist before reverting to
	// idle. ConfirmDelay is the two-phase cancel confirmation window. Both
	// exist as knobs so tests can shorten them.
	RevertDelay  time.Duration
	ConfirmDelay time.Duration
}

// Coordinator is the single authority for the recording session lifecycle.
//
// All state lives on one goroutine: triggers, timer expirations, and worker
// completions are posted as commands into a queue and processed in arrival
// order against the state current at processing time. Leaf I/O that can block
// for long (the transcription upload, the paste gesture) runs on worker
// goroutines that post their results back rather than mutating state.
type Coordinator struct {
	capture     ports.CaptureDevice
	transcriber ports.Transcriber
	paster      ports.Paster
	events      ports.EventSink
	notifier    ports.Notifier
	cfg         Config
	log         zerolog.Logger

	commands chan func()
	quit     chan struct{}
	stopOnce sync.Once

	ctx context.Context

	// Owned by the command loop.
	state       domain.SessionState
	mode        domain.RecordingMode
	errMsg      string
	inputDevice string
	lastResult  *domain.Transcription
	session     *recordingSession
	confirmFrom domain.SessionState
	gen         uint64

	statusMu  sync.Mutex
	status    domain.Status
	published *domain.Transcription
}

func NewCoordinator(
	capture ports.CaptureDevice,
	transcriber ports.Transcriber,
	paster ports.Paster,
	events ports.EventSink,
	notifier ports.Notifier,
	cfg Config,
	log zerolog.Logger,
) *Coordinator {
	if cfg.RevertDelay <= 0 {
		cfg.RevertDelay = defaultRevertDelay
	}
	if cfg.ConfirmDelay <= 0 {
		cfg.ConfirmDelay = defaultConfirmDelay
	}
	c := &Coordinator{
		capture:     capture,
		transcriber: transcriber,
		paster:      paster,
		events:      events,
		notifier:    notifier,
		cfg:         cfg,
		log:         log,
		commands:    make(chan func(), 64),
		quit:        make(chan struct{}),
		state:       domain.SessionStateIdle,
		mode:        domain.RecordingModeNone,
	}
	c.status = domain.Status{State: domain.SessionStateIdle, Mode: domain.RecordingModeNone}
	return c
}

// Start launches the command loop. ctx bounds all leaf I/O issued by the
// coordinator; cancelling it does not abort an upload in flight, it only
// prevents new ones.
func (c *Coordinator) Start(ctx context.Context) {
	c.ctx = ctx
	go c.loop()
}

// Stop shuts the command loop down. Pending commands are dropped.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() { close(c.quit) })
}

func (c *Coordinator) loop() {
	for {
		select {
		case <-c.quit:
			return
		case fn := <-c.commands:
			fn()
		}
	}
}

// post queues fn for the command loop, blocking until accepted so that no
// trigger is ever dropped between operations.
func (c *Coordinator) post(fn func()) {
	select {
	case c.commands <- fn:
	case <-c.quit:
	}
}

// Toggle handles the toggle hotkey: start in idle/error, stop in recording,
// no-op everywhere else.
func (c *Coordinator) Toggle() {
	c.post(func() {
		switch c.state {
		case domain.SessionStateIdle, domain.SessionStateError:
			c.beginSession(domain.RecordingModeToggle)
		case domain.SessionStateRecording:
			c.stopAndTranscribe()
		default:
			c.log.Debug().Str("state", string(c.state)).Msg("toggle ignored")
		}
	})
}

// StartOnly handles a push-to-talk press.
func (c *Coordinator) StartOnly() {
	c.post(func() {
		if c.state != domain.SessionStateIdle && c.state != domain.SessionStateError {
			c.log.Debug().Str("state", string(c.state)).Msg("start ignored")
			return
		}
		c.beginSession(domain.RecordingModePushToTalk)
	})
}

// StopOnly handles a push-to-talk release.
func (c *Coordinator) StopOnly() {
	c.post(func() {
		if c.state != domain.SessionStateRecording {
			c.log.Debug().Str("state", string(c.state)).Msg("stop ignored")
			return
		}
		c.stopAndTranscribe()
	})
}

// CancelRequested handles the cancel key. In toggle mode the first press only
// arms a confirmation window; the second press cancels. In push-to-talk mode
// cancellation is immediate.
func (c *Coordinator) CancelRequested() {
	c.post(func() {
		if c.mode != domain.RecordingModeToggle {
			c.cancel()
			return
		}
		switch c.state {
		case domain.SessionStateRecording, domain.SessionStateProcessing:
			c.confirmFrom = c.state
			c.setState(domain.SessionStateConfirmingCancel, domain.SessionReasonConfirmingCancel)
			c.afterTransition(c.cfg.ConfirmDelay, c.confirmExpired)
		case domain.SessionStateConfirmingCancel:
			c.cancel()
		default:
			c.log.Warn().
				Str("state", string(c.state)).
				Str("mode", string(c.mode)).
				Msg("cancel requested in unhandled state")
		}
	})
}

// Status returns the last published coordinator snapshot.
func (c *Coordinator) Status() domain.Status {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	return c.status
}

// LastTranscription returns the retained result of the most recent completed
// session, for history consumers. Nil until a session completes.
func (c *Coordinator) LastTranscription() *domain.Transcription {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	return c.published
}

func (c *Coordinator) beginSession(mode domain.RecordingMode) {
	if c.cfg.Credential == "" {
		c.toError(domain.ErrorCodeCredential, domain.SessionReasonMissingCredential,
			"no API credential configured")
		return
	}

	granted, err := c.capture.RequestPermission(c.ctx)
	if err != nil || !granted {
		detail := "microphone permission denied"
		if err != nil {
			detail = "microphone permission check failed: " + err.Error()
		}
		c.toError(domain.ErrorCodePermission, domain.SessionReasonMicPermission, detail)
		return
	}

	c.mode = mode
	c.lastResult = nil
	c.setState(domain.SessionStateInitiating, domain.SessionReasonStarting)

	sess := newRecordingSession(c.cfg.TempDir)
	if err := c.capture.Start(c.ctx, sess.audioPath); err != nil {
		if errors.Is(err, ports.ErrAlreadyRecording) {
			// Known device-level race: a stale capture survived a previous
			// session. Force-cancel it and retry exactly once.
			c.log.Warn().Msg("stale capture detected, cancelling and retrying")
			c.capture.Cancel()
			err = c.capture.Start(c.ctx, sess.audioPath)
		}
		if err != nil {
			sess.cleanup()
			c.toError(domain.ErrorCodeCapture, domain.SessionReasonRecordingFailed,
				"failed to start recording: "+err.Error())
			return
		}
	}

	c.session = sess
	c.inputDevice = c.capture.InputDeviceName()
	c.setState(domain.SessionStateRecording, domain.SessionReasonRecordingStarted)
	c.notifier.RecordingStarted()
	c.log.Info().
		Str("mode", string(mode)).
		Str("device", c.inputDevice).
		Msg("recording started")
}

func (c *Coordinator) stopAndTranscribe() {
	sess := c.session
	if sess == nil {
		c.toError(domain.ErrorCodeCapture, domain.SessionReasonRecordingFailed,
			"no active recording session")
		return
	}

	path, err := c.capture.Stop()
	c.notifier.RecordingStopped()
	if err != nil || path == "" {
		sess.cleanup()
		c.session = nil
		detail := "no audio captured"
		if err != nil {
			detail = "failed to stop recording: " + err.Error()
		}
		c.toError(domain.ErrorCodeCapture, domain.SessionReasonRecordingFailed, detail)
		return
	}

	c.setState(domain.SessionStateProcessing, domain.SessionReasonTranscribing)
	go c.transcribeWorker(sess, path)
}

// transcribeWorker runs the upload and paste off the command loop. Each
// checkpoint consults the session's cancellation flag; once it is set the
// result is discarded silently and state stays whatever the cancellation path
// already made it.
func (c *Coordinator) transcribeWorker(sess *recordingSession, path string) {
	defer sess.cleanup()

	result, err := c.transcriber.Transcribe(c.ctx, path)
	if sess.cancelled.Load() {
		c.log.Debug().Msg("transcription result discarded after cancel")
		return
	}
	if err != nil {
		c.post(func() { c.transcriptionFailed(sess, err) })
		return
	}

	text := strings.TrimSpace(result.Text)
	pasted := false
	if text != "" && c.cfg.EnablePaste {
		if sess.cancelled.Load() {
			return
		}
		pasted = c.pasteText(text)
	}

	if sess.cancelled.Load() {
		return
	}
	c.post(func() { c.finishInserted(sess, result, text, pasted) })
}

func (c *Coordinator) pasteText(text string) bool {
	if !c.paster.CheckPermission() {
		if !c.paster.RequestPermission() {
			c.events.SessionError(domain.ErrorCodePermission,
				"input synthesis permission not granted")
			return false
		}
	}
	return c.paster.Paste(c.ctx, text)
}

func (c *Coordinator) finishInserted(sess *recordingSession, result *domain.Transcription, text string, pasted bool) {
	if c.session != sess || sess.cancelled.Load() {
		return
	}
	c.session = nil
	c.lastResult = result

	reason := domain.SessionReasonTextInserted
	if text == "" {
		reason = domain.SessionReasonEmptyTranscript
	}
	if text != "" && c.cfg.EnablePaste && !pasted {
		c.events.SessionError(domain.ErrorCodePaste, "paste gesture failed; text left on clipboard")
	}

	c.setState(domain.SessionStateInserted, reason)
	c.notifier.TranscriptInserted()
	c.afterTransition(c.cfg.RevertDelay, c.revertToIdle)
	c.log.Info().Int("chars", len(text)).Bool("pasted", pasted).Msg("session completed")
}

func (c *Coordinator) transcriptionFailed(sess *recordingSession, err error) {
	if c.session != sess || sess.cancelled.Load() {
		return
	}
	c.session = nil
	c.toError(domain.ErrorCodeTranscription, domain.SessionReasonTranscriptionFailed,
		"transcription failed: "+err.Error())
}

// cancel performs the actual cancellation for whatever phase the session is
// in. The in-flight upload cannot be aborted; setting the flag makes its late
// result a no-op at the worker checkpoints.
func (c *Coordinator) cancel() {
	switch c.state {
	case domain.SessionStateRecording:
		if c.session != nil {
			c.session.cancelled.Store(true)
		}
		c.capture.Cancel()
		c.finishCancelled(false)
	case domain.SessionStateProcessing:
		if c.session != nil {
			c.session.cancelled.Store(true)
		}
		c.finishCancelled(true)
	case domain.SessionStateConfirmingCancel:
		prior := c.confirmFrom
		c.confirmFrom = ""
		if c.session != nil {
			c.session.cancelled.Store(true)
		}
		if prior == domain.SessionStateRecording {
			c.capture.Cancel()
		}
		c.finishCancelled(prior == domain.SessionStateProcessing)
	default:
		c.log.Debug().Str("state", string(c.state)).Msg("cancel ignored")
	}
}

// finishCancelled tears the session down. When the transcription worker is
// still running it holds the deferred cleanup of the temp file; otherwise the
// cancel path deletes it here.
func (c *Coordinator) finishCancelled(workerOwnsFile bool) {
	if sess := c.session; sess != nil && !workerOwnsFile {
		sess.cleanup()
	}
	c.session = nil
	c.setState(domain.SessionStateCancelled, domain.SessionReasonCancelled)
	c.afterTransition(c.cfg.RevertDelay, c.revertToIdle)
	c.log.Info().Msg("session cancelled")
}

// confirmExpired fires when the confirmation window lapses with no second
// press: the session resumes in the state it was interrupted in.
func (c *Coordinator) confirmExpired() {
	if c.state != domain.SessionStateConfirmingCancel {
		return
	}
	prior := c.confirmFrom
	c.confirmFrom = ""
	if prior != domain.SessionStateRecording && prior != domain.SessionStateProcessing {
		prior = domain.SessionStateIdle
	}
	c.setState(prior, domain.SessionReasonConfirmExpired)
}

func (c *Coordinator) revertToIdle() {
	if c.state != domain.SessionStateInserted && c.state != domain.SessionStateCancelled {
		return
	}
	c.setState(domain.SessionStateIdle, domain.SessionReasonReverted)
}

func (c *Coordinator) toError(code domain.ErrorCode, reason domain.SessionStateReason, detail string) {
	c.errMsg = detail
	c.events.SessionError(code, detail)
	c.notifier.SessionFailed(detail)
	c.setState(domain.SessionStateError, reason)
	c.log.Error().Str("code", string(code)).Msg(detail)
}

// setState is the only place session state changes. It bumps the timer
// generation so that every pending delayed transition scheduled against the
// previous state becomes a detectable no-op.
func (c *Coordinator) setState(state domain.SessionState, reason domain.SessionStateReason) {
	if c.state == domain.SessionStateCancelled && state != domain.SessionStateIdle {
		// cancelled is sticky: only the automatic revert may leave it.
		c.log.Debug().Str("to", string(state)).Msg("transition suppressed while cancelled")
		return
	}
	if state != domain.SessionStateConfirmingCancel {
		c.confirmFrom = ""
	}
	if state != domain.SessionStateError {
		c.errMsg = ""
	}
	if state == domain.SessionStateIdle {
		c.mode = domain.RecordingModeNone
	}
	c.state = state
	c.gen++

	status := c.snapshot()
	c.statusMu.Lock()
	c.status = status
	c.published = c.lastResult
	c.statusMu.Unlock()

	c.events.SessionStateChanged(status, reason)
}

func (c *Coordinator) snapshot() domain.Status {
	status := domain.Status{
		State:       c.state,
		Mode:        c.mode,
		Active:      c.state.Active(),
		InputDevice: c.inputDevice,
		Message:     c.errMsg,
	}
	if c.lastResult != nil {
		status.LastText = strings.TrimSpace(c.lastResult.Text)
	}
	return status
}

// afterTransition schedules fn on the command loop after d, tied to the
// generation of the state just entered. A transition in between invalidates
// the callback.
func (c *Coordinator) afterTransition(d time.Duration, fn func()) {
	gen := c.gen
	time.AfterFunc(d, func() {
		c.post(func() {
			if c.gen != gen {
				return
			}
			fn()
		})
	})
}
