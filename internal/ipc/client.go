package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
)

const dialTimeout = 2 * time.Second

// Send delivers one action to the daemon socket and returns its reply.
func Send(socketPath, action string) (*Response, error) {
	conn, err := net.DialTimeout("unix", socketPath, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("daemon not reachable at %s: %w", socketPath, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(connDeadline))

	req := Request{ID: uuid.NewString(), Action: action, Timestamp: time.Now()}
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, fmt.Errorf("read reply: %w", err)
	}
	if !resp.Success {
		return &resp, fmt.Errorf("daemon rejected %s: %s", action, resp.Error)
	}
	return &resp, nil
}
