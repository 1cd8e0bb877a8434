package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"net/http"
	"time"
)

const (
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel    = "gemini-2.0-flash"
	DefaultTimeout        = 10 * time.Second

	maxResponseBytes = 4 << 20
)

type GeminiConfig struct {
	Endpoint   string
	Model      string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Gemini asks the Generative Language API. One request per question, no retries.
type Gemini struct {
	url     string
	apiKey  string
	timeout time.Duration
	client  *http.Client
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

func NewGemini(cfg GeminiConfig) *Gemini {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultGeminiEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Gemini{
		url:     fmt.Sprintf("%s/models/%s:generateContent", cfg.Endpoint, cfg.Model),
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout,
		client:  cfg.HTTPClient,
	}
}

func (g *Gemini) Ask(ctx context.Context, question string) string {
	data, err := g.generate(ctx, question)
	if err != nil {
		log.Warn("Gemini request failed", "err", err)
		return Failed(err)
	}

	log.Debug("Gemini response", "data", string(data))
	return ExtractText(data)
}

func (g *Gemini) generate(ctx context.Context, question string) ([]byte, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: question}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s for url: %s", resp.Status, g.url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if !json.Valid(data) {
		return nil, errors.New("malformed JSON in response")
	}

	return data, nil
}
