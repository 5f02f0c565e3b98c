package cli

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxtype/internal/domain"
	"voxtype/internal/ipc"
)

type stubController struct {
	mu      sync.Mutex
	actions []string
	status  domain.Status
}

func (s *stubController) record(action string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
}

func (s *stubController) Toggle()          { s.record("toggle") }
func (s *stubController) StartOnly()       { s.record("start") }
func (s *stubController) StopOnly()        { s.record("stop") }
func (s *stubController) CancelRequested() { s.record("cancel") }

func (s *stubController) Status() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *stubController) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.actions))
	copy(out, s.actions)
	return out
}

func startStubDaemon(t *testing.T, ctrl *stubController) string {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "voxtype.sock")
	server := ipc.NewServer(socket, ctrl, zerolog.Nop())
	require.NoError(t, server.Start())
	t.Cleanup(func() { _ = server.Close() })
	return socket
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestStatusCommand(t *testing.T) {
	ctrl := &stubController{status: domain.Status{
		State:       domain.SessionStateRecording,
		Mode:        domain.RecordingModeToggle,
		Active:      true,
		InputDevice: "USB Mic",
	}}
	socket := startStubDaemon(t, ctrl)

	out, err := runCommand(t, "status", "--socket", socket)
	require.NoError(t, err)
	assert.Contains(t, out, "recording (toggle)")
	assert.Contains(t, out, "USB Mic")
	assert.Empty(t, ctrl.recorded())
}

func TestToggleCommandTriggersDaemon(t *testing.T) {
	ctrl := &stubController{status: domain.Status{State: domain.SessionStateInitiating}}
	socket := startStubDaemon(t, ctrl)

	out, err := runCommand(t, "toggle", "--socket", socket)
	require.NoError(t, err)
	assert.Contains(t, out, string(domain.SessionStateInitiating))
	assert.Equal(t, []string{"toggle"}, ctrl.recorded())
}

func TestTriggerWithoutDaemon(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "absent.sock")

	_, err := runCommand(t, "cancel", "--socket", socket)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not reachable")
}

func TestFormatStatusErrorMessage(t *testing.T) {
	t.Parallel()

	line := formatStatus(domain.Status{
		State:   domain.SessionStateError,
		Message: "transcription endpoint returned 503",
	})
	assert.Equal(t, "error: transcription endpoint returned 503", line)
}
