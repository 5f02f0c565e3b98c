package transcribe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestWav(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF....WAVEfmt "), 0o600))
	return path
}

func TestTranscribeSuccess(t *testing.T) {
	t.Parallel()

	var gotAuth, gotModel, gotFormat string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotAuth = r.Header.Get("Authorization")
		gotModel = r.FormValue("model")
		gotFormat = r.FormValue("response_format")

		_, _, err := r.FormFile("file")
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"text": "hello there",
			"language": "en",
			"duration": 1.5,
			"segments": [{"id": 0, "start": 0, "end": 1.5, "text": "hello there"}]
		}`))
	}))
	defer server.Close()

	client := New(Config{Endpoint: server.URL, APIKey: "secret", Model: "whisper-1"}, zerolog.Nop())
	result, err := client.Transcribe(context.Background(), writeTestWav(t))
	require.NoError(t, err)

	assert.Equal(t, "hello there", result.Text)
	assert.Equal(t, "en", result.Language)
	require.Len(t, result.Segments, 1)
	assert.InDelta(t, 1.5, result.Segments[0].End, 0.001)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "whisper-1", gotModel)
	assert.Equal(t, "verbose_json", gotFormat)
}

func TestTranscribeServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(Config{Endpoint: server.URL}, zerolog.Nop())
	_, err := client.Transcribe(context.Background(), writeTestWav(t))

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	assert.Contains(t, statusErr.Body, "model overloaded")
}

func TestTranscribeDecodeFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := New(Config{Endpoint: server.URL}, zerolog.Nop())
	_, err := client.Transcribe(context.Background(), writeTestWav(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestTranscribeMissingEndpoint(t *testing.T) {
	t.Parallel()

	client := New(Config{}, zerolog.Nop())
	_, err := client.Transcribe(context.Background(), writeTestWav(t))
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestTranscribeMissingFile(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	client := New(Config{Endpoint: server.URL}, zerolog.Nop())
	_, err := client.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open audio file")
}
