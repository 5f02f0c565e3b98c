package usecase

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// recordingSession is one attempt from capture start through insertion,
// cancellation, or error. Owned exclusively by the coordinator loop; the
// cancellation flag is the only field touched from worker goroutines.
type recordingSession struct {
	startedAt time.Time
	audioPath string

	cancelled atomic.Bool

	cleanupOnce sync.Once
}

func newRecordingSession(tempDir string) *recordingSession {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	return &recordingSession{
		startedAt: time.Now(),
		audioPath: filepath.Join(tempDir, "voxtype_"+id+".wav"),
	}
}

// cleanup deletes the session's temporary audio file. Safe to call from any
// exit path; the file is removed exactly once.
func (s *recordingSession) cleanup() {
	s.cleanupOnce.Do(func() {
		if s.audioPath != "" {
			_ = os.Remove(s.audioPath)
		}
	})
}
