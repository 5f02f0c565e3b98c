package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config stores runtime configuration for the daemon.
type Config struct {
	// Transcription endpoint settings.
	APIKey         string        `env:"VOXTYPE_API_KEY"`
	Endpoint       string        `env:"VOXTYPE_ENDPOINT" envDefault:"https://api.openai.com/v1/audio/transcriptions"`
	Model          string        `env:"VOXTYPE_MODEL" envDefault:"whisper-1"`
	Language       string        `env:"VOXTYPE_LANGUAGE"`
	RequestTimeout time.Duration `env:"VOXTYPE_REQUEST_TIMEOUT" envDefault:"60s"`

	// Paste pipeline.
	EnablePaste      bool `env:"VOXTYPE_ENABLE_PASTE" envDefault:"true"`
	RestoreClipboard bool `env:"VOXTYPE_RESTORE_CLIPBOARD" envDefault:"true"`

	// Cues.
	Notifications bool `env:"VOXTYPE_NOTIFICATIONS" envDefault:"true"`

	// Daemon plumbing.
	TempDir    string `env:"VOXTYPE_TEMP_DIR"`
	SocketPath string `env:"VOXTYPE_SOCKET"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
}

// Overrides holds CLI flag values that take priority over env vars.
type Overrides struct {
	EnvFile    string
	SocketPath string
	Endpoint   string
	Model      string
	LogLevel   string
}

// Load reads configuration from .env file, environment variables, and CLI
// overrides. Priority: CLI flags > environment variables > .env file >
// struct defaults.
func Load(overrides Overrides) (Config, error) {
	envFile := overrides.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.APIKey == "" {
		cfg.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if cfg.SocketPath == "" {
		cfg.SocketPath = defaultSocketPath()
	}

	if overrides.SocketPath != "" {
		cfg.SocketPath = overrides.SocketPath
	}
	if overrides.Endpoint != "" {
		cfg.Endpoint = overrides.Endpoint
	}
	if overrides.Model != "" {
		cfg.Model = overrides.Model
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}

	return cfg, nil
}

func defaultSocketPath() string {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return filepath.Join(runtimeDir, "voxtype.sock")
	}
	return filepath.Join(os.TempDir(), "voxtype.sock")
}
