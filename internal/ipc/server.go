package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"voxtype/internal/domain"
)

const connDeadline = 5 * time.Second

// Controller is the coordinator surface the control server drives. Trigger
// methods are fire-and-forget; Status is a synchronous snapshot.
type Controller interface {
	Toggle()
	StartOnly()
	StopOnly()
	CancelRequested()
	Status() domain.Status
}

// Server accepts control connections on a unix socket, one JSON request and
// response per connection.
type Server struct {
	path string
	ctrl Controller
	log  zerolog.Logger

	mu sync.Mutex
	ln net.Listener
	wg sync.WaitGroup
}

func NewServer(path string, ctrl Controller, log zerolog.Logger) *Server {
	return &Server{
		path: path,
		ctrl: ctrl,
		log:  log.With().Str("component", "ipc").Logger(),
	}
}

// Start binds the socket and begins accepting connections. A stale socket
// file from a crashed daemon is removed first.
func (s *Server) Start() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale socket: %w", err)
	}

	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.wg.Add(1)
	go s.acceptLoop(ln)
	s.log.Info().Str("socket", s.path).Msg("control server listening")
	return nil
}

// Close stops accepting, waits for in-flight connections, and removes the
// socket file.
func (s *Server) Close() error {
	s.mu.Lock()
	ln := s.ln
	s.ln = nil
	s.mu.Unlock()

	if ln == nil {
		return nil
	}
	err := ln.Close()
	s.wg.Wait()
	_ = os.Remove(s.path)
	return err
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				s.log.Error().Err(err).Msg("accept failed")
			}
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(connDeadline))

	var req Request
	if err := json.NewDecoder(conn).Decode(&req); err != nil {
		s.log.Warn().Err(err).Msg("bad control request")
		return
	}

	resp := s.dispatch(req)
	if err := json.NewEncoder(conn).Encode(resp); err != nil {
		s.log.Warn().Err(err).Msg("control reply failed")
	}
}

func (s *Server) dispatch(req Request) Response {
	resp := Response{ID: req.ID, Success: true}

	switch req.Action {
	case ActionToggle:
		s.ctrl.Toggle()
	case ActionStart:
		s.ctrl.StartOnly()
	case ActionStop:
		s.ctrl.StopOnly()
	case ActionCancel:
		s.ctrl.CancelRequested()
	case ActionStatus:
		// Snapshot only; no trigger.
	default:
		return Response{ID: req.ID, Success: false, Error: "unknown action: " + req.Action}
	}

	status := s.ctrl.Status()
	resp.Status = &status
	s.log.Debug().Str("action", req.Action).Str("state", string(status.State)).Msg("dispatched")
	return resp
}
