package bootstrap

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"voxtype/internal/audio"
	"voxtype/internal/config"
	"voxtype/internal/ipc"
	"voxtype/internal/notify"
	"voxtype/internal/paste"
	"voxtype/internal/transcribe"
	"voxtype/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Coordinator *usecase.Coordinator
	Server      *ipc.Server
	Config      config.Config
	Log         zerolog.Logger
}

// Build wires all daemon dependencies.
func Build(overrides config.Overrides) (*Services, error) {
	cfg, err := config.Load(overrides)
	if err != nil {
		return nil, err
	}

	log := NewLogger(cfg.LogLevel)

	sweepStaleTempFiles(cfg.TempDir, log)

	recorder := audio.NewRecorder(log)
	client := transcribe.New(transcribe.Config{
		Endpoint: cfg.Endpoint,
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
		Language: cfg.Language,
		Timeout:  cfg.RequestTimeout,
	}, log)
	paster := paste.NewService(paste.Config{RestoreClipboard: cfg.RestoreClipboard}, log)
	notifier := notify.New(cfg.Notifications, log)

	coordinator := usecase.NewCoordinator(
		recorder,
		client,
		paster,
		newLogSink(log),
		notifier,
		usecase.Config{
			Credential:  cfg.APIKey,
			TempDir:     cfg.TempDir,
			EnablePaste: cfg.EnablePaste,
		},
		log,
	)

	server := ipc.NewServer(cfg.SocketPath, coordinator, log)

	return &Services{
		Coordinator: coordinator,
		Server:      server,
		Config:      cfg,
		Log:         log,
	}, nil
}

// NewLogger builds the process logger at the configured level.
func NewLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(parsed)
}

// sweepStaleTempFiles removes recordings orphaned by a previous crash. The
// in-flight session deletes its own file; anything still matching the prefix
// at startup is garbage.
func sweepStaleTempFiles(tempDir string, log zerolog.Logger) {
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return
	}
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "voxtype_") || !strings.HasSuffix(name, ".wav") {
			continue
		}
		if info, err := entry.Info(); err == nil && time.Since(info.ModTime()) < time.Hour {
			continue
		}
		if err := os.Remove(filepath.Join(tempDir, name)); err == nil {
			removed++
		}
	}
	if removed > 0 {
		log.Info().Int("files", removed).Msg("swept stale recordings")
	}
}
