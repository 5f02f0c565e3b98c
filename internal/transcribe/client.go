package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"voxtype/internal/domain"
)

// ErrInvalidConfig marks endpoint/configuration problems detected before any
// network traffic.
var ErrInvalidConfig = errors.New("invalid transcription config")

// StatusError is a non-2xx response from the transcription endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("transcription API error (status %d): %s", e.Code, e.Body)
}

// Config holds the remote endpoint settings.
type Config struct {
	// Endpoint is an OpenAI-compatible /audio/transcriptions URL.
	Endpoint string
	APIKey   string
	Model    string
	Language string
	Timeout  time.Duration
}

// Client uploads finished WAV files to the transcription endpoint.
type Client struct {
	cfg    Config
	client *http.Client
	log    zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log.With().Str("component", "transcribe").Logger(),
	}
}

// Transcribe uploads the audio file as multipart/form-data and decodes the
// verbose JSON response. The full payload (segments, language) is preserved
// for downstream consumers; callers that only want the text read .Text.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (*domain.Transcription, error) {
	if c.cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint is empty", ErrInvalidConfig)
	}
	if _, err := url.ParseRequestURI(c.cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copy audio data: %w", err)
	}

	if c.cfg.Model != "" {
		w.WriteField("model", c.cfg.Model)
	}
	if c.cfg.Language != "" {
		w.WriteField("language", c.cfg.Language)
	}
	w.WriteField("response_format", "verbose_json")
	w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var result domain.Transcription
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.log.Debug().
		Dur("took", time.Since(start)).
		Int("segments", len(result.Segments)).
		Msg("transcription completed")
	return &result, nil
}
