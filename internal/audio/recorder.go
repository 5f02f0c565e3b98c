package audio

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog"

	"voxtype/internal/ports"
)

// Fixed capture format. The transcription endpoint depends on it exactly.
const (
	sampleRate  = 16000
	numChannels = 1
	bitDepth    = 16
	frameCount  = 1024
)

// Recorder captures microphone PCM through PortAudio and writes it to a WAV
// file as it arrives. One capture at a time; a second Start while the device
// is held returns ports.ErrAlreadyRecording.
type Recorder struct {
	log zerolog.Logger

	mu        sync.Mutex
	recording bool
	stop      chan struct{}
	done      chan error
	path      string
	device    string
}

func NewRecorder(log zerolog.Logger) *Recorder {
	return &Recorder{log: log.With().Str("component", "audio").Logger()}
}

// RequestPermission probes for a usable default input device. On platforms
// that gate microphone access, opening the device is what raises the OS
// prompt; once granted this is a cheap repeated check.
func (r *Recorder) RequestPermission(_ context.Context) (bool, error) {
	if err := portaudio.Initialize(); err != nil {
		return false, fmt.Errorf("portaudio init failed: %w", err)
	}
	defer portaudio.Terminate()

	dev, err := portaudio.DefaultInputDevice()
	if err != nil {
		return false, nil
	}

	r.mu.Lock()
	r.device = dev.Name
	r.mu.Unlock()
	return true, nil
}

func (r *Recorder) Start(_ context.Context, destination string) error {
	r.mu.Lock()
	if r.recording {
		r.mu.Unlock()
		return ports.ErrAlreadyRecording
	}
	r.recording = true
	r.path = destination
	r.stop = make(chan struct{})
	r.done = make(chan error, 1)
	stop, done := r.stop, r.done
	r.mu.Unlock()

	ready := make(chan error, 1)
	go r.recordLoop(destination, stop, done, ready)

	if err := <-ready; err != nil {
		r.mu.Lock()
		r.recording = false
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *Recorder) Stop() (string, error) {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return "", nil
	}
	r.recording = false
	stop, done, path := r.stop, r.done, r.path
	r.mu.Unlock()

	close(stop)
	if err := <-done; err != nil {
		return "", err
	}
	return path, nil
}

// Cancel stops the capture and discards its file. Idempotent.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return
	}
	r.recording = false
	stop, done, path := r.stop, r.done, r.path
	r.mu.Unlock()

	close(stop)
	<-done
	_ = os.Remove(path)
	r.log.Debug().Str("path", path).Msg("capture cancelled")
}

func (r *Recorder) InputDeviceName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.device == "" {
		return "default input"
	}
	return r.device
}

func (r *Recorder) recordLoop(destination string, stop <-chan struct{}, done chan<- error, ready chan<- error) {
	if err := portaudio.Initialize(); err != nil {
		err = fmt.Errorf("portaudio init failed: %w", err)
		ready <- err
		done <- err
		return
	}
	defer portaudio.Terminate()

	in := make([]int16, frameCount)
	stream, err := portaudio.OpenDefaultStream(numChannels, 0, float64(sampleRate), len(in), in)
	if err != nil {
		err = fmt.Errorf("open input stream failed: %w", err)
		ready <- err
		done <- err
		return
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		err = fmt.Errorf("start input stream failed: %w", err)
		ready <- err
		done <- err
		return
	}
	defer stream.Stop()

	file, err := os.Create(destination)
	if err != nil {
		err = fmt.Errorf("create wav failed: %w", err)
		ready <- err
		done <- err
		return
	}

	if dev, err := portaudio.DefaultInputDevice(); err == nil {
		r.mu.Lock()
		r.device = dev.Name
		r.mu.Unlock()
	}

	ready <- nil

	enc := wav.NewEncoder(file, sampleRate, bitDepth, numChannels, 1)
	format := &goaudio.Format{NumChannels: numChannels, SampleRate: sampleRate}
	intBuf := make([]int, len(in))

	var loopErr error
	for loopErr == nil {
		select {
		case <-stop:
			loopErr = r.finalize(enc, file)
			done <- loopErr
			return
		default:
		}

		if err := stream.Read(); err != nil {
			// Transient overflows happen when the scheduler stalls; keep going.
			r.log.Debug().Err(err).Msg("stream read error")
			time.Sleep(10 * time.Millisecond)
			continue
		}
		for i, v := range in {
			intBuf[i] = int(v)
		}
		buf := &goaudio.IntBuffer{Format: format, Data: intBuf[:len(in)], SourceBitDepth: bitDepth}
		if err := enc.Write(buf); err != nil {
			loopErr = fmt.Errorf("wav write failed: %w", err)
		}
	}

	_ = enc.Close()
	_ = file.Close()
	_ = os.Remove(destination)
	done <- loopErr
}

func (r *Recorder) finalize(enc *wav.Encoder, file *os.File) error {
	if err := enc.Close(); err != nil {
		_ = file.Close()
		return fmt.Errorf("wav close failed: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("file close failed: %w", err)
	}
	return nil
}
