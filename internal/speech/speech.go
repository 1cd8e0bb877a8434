// Package speech describes the input side of the assistant: a microphone
// that yields raw PCM and a transcriber that turns it into text.
package speech

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMicrophone marks failures to acquire or read the input device.
	ErrMicrophone = errors.New("microphone unavailable")

	// ErrWaitTimeout is returned by Capture.Record when no speech started
	// within the wait timeout.
	ErrWaitTimeout = errors.New("listening timed out")

	// ErrRecognition marks failures of the speech-to-text engine.
	ErrRecognition = errors.New("recognition failed")

	// ErrExhausted is returned by Microphone.Open when the source has no
	// more input to offer (replay sources).
	ErrExhausted = errors.New("no more input")
)

// Microphone hands out one capture session per listening cycle.
type Microphone interface {
	Open() (Capture, error)
}

// Capture is a single open input session.
type Capture interface {
	// Calibrate measures ambient noise for d and adjusts the speech threshold.
	Calibrate(d time.Duration) error

	// Record blocks until a phrase was captured. It waits at most wait for
	// speech to begin and records at most phraseLimit of it.
	Record(wait, phraseLimit time.Duration) ([]float32, error)

	Close() error
}

// Transcriber converts mono 16 kHz PCM into text.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm []float32) (string, error)
}
