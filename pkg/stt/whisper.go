package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

type Options struct {
	Language      string // "auto", "en", "ru", ...
	TranslateToEn bool
	Threads       int    // <=0 => NumCPU()
	InitialPrompt string // biases recognition towards command words
}

type Transcriber struct {
	model whisper.Model
	opt   Options
}

func NewTranscriber(modelPath string, opt Options) (*Transcriber, error) {
	if modelPath == "" {
		return nil, errors.New("empty model path")
	}
	m, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if opt.Language == "" {
		opt.Language = "auto"
	}
	if opt.Threads <= 0 {
		opt.Threads = runtime.NumCPU()
	}
	return &Transcriber{model: m, opt: opt}, nil
}

func (t *Transcriber) Close() error {
	if t.model == nil {
		return nil
	}
	return t.model.Close()
}

// Transcribe runs the model over pcm16k (mono, 16 kHz, float32 in [-1, 1])
// and joins the recognised segments with single spaces.
func (t *Transcriber) Transcribe(ctx context.Context, pcm16k []float32) (string, error) {
	if t.model == nil {
		return "", errors.New("nil model")
	}
	if len(pcm16k) == 0 {
		return "", errors.New("no audio samples provided")
	}

	wctx, err := t.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("new context: %w", err)
	}

	if err := wctx.SetLanguage(t.opt.Language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	wctx.SetTranslate(t.opt.TranslateToEn)
	wctx.SetThreads(uint(t.opt.Threads))
	if t.opt.InitialPrompt != "" {
		wctx.SetInitialPrompt(t.opt.InitialPrompt)
	}

	if err := wctx.Process(pcm16k, nil, nil, nil); err != nil {
		return "", fmt.Errorf("process: %w", err)
	}

	var words []string
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		s, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("next segment: %w", err)
		}

		text := strings.TrimSpace(s.Text)
		if text == "" || isAnnotation(text) {
			continue
		}
		words = append(words, text)
	}

	return strings.Join(words, " "), nil
}

// isAnnotation reports whisper's non-speech markers like [BLANK_AUDIO] or (music).
func isAnnotation(s string) bool {
	return (strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")) ||
		(strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"))
}
