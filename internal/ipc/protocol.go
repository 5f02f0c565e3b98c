package ipc

import (
	"time"

	"voxtype/internal/domain"
)

// Actions a control client may request from the daemon. Hotkey daemons and
// desktop keybindings map their events onto these: a toggle hotkey sends
// toggle, a push-to-talk binding sends start on press and stop on release,
// the cancel key sends cancel.
const (
	ActionToggle = "toggle"
	ActionStart  = "start"
	ActionStop   = "stop"
	ActionCancel = "cancel"
	ActionStatus = "status"
)

// Request is one control command sent over the daemon socket.
type Request struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// Response is the daemon's reply. Status carries the coordinator snapshot
// current at the time the request was accepted; triggers are asynchronous,
// so the resulting transition shows up in a later status query.
type Response struct {
	ID      string         `json:"id"`
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Status  *domain.Status `json:"status,omitempty"`
}
