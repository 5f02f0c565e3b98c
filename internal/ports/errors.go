package ports

import "errors"

// ErrAlreadyRecording is returned by CaptureDevice.Start when a previous
// capture is still holding the device. The coordinator force-cancels the
// stale capture and retries once.
var ErrAlreadyRecording = errors.New("capture already recording")
