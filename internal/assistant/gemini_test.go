package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGemini_Ask(t *testing.T) {
	var gotPath, gotKey, gotType string
	var gotBody generateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-goog-api-key")
		gotType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Paris"}],"role":"model"}}]}`))
	}))
	defer srv.Close()

	g := NewGemini(GeminiConfig{Endpoint: srv.URL, APIKey: "test-key"})

	assert.Equal(t, "Paris", g.Ask(context.Background(), "what is the capital of france"))
	assert.Equal(t, "/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "application/json", gotType)
	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Equal(t, "what is the capital of france", gotBody.Contents[0].Parts[0].Text)
}

func TestGemini_Ask_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "quota", http.StatusTooManyRequests)
			},
			want: "429 Too Many Requests",
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"candidates":[`))
			},
			want: "malformed JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			got := NewGemini(GeminiConfig{Endpoint: srv.URL, APIKey: "k"}).Ask(context.Background(), "hi")
			assert.True(t, strings.HasPrefix(got, "AI query failed: "), got)
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestGemini_Ask_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	got := NewGemini(GeminiConfig{Endpoint: srv.URL}).Ask(context.Background(), "hi")
	assert.Equal(t, NoResponse, got)
}

func TestGemini_Ask_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	g := NewGemini(GeminiConfig{Endpoint: srv.URL, Timeout: 50 * time.Millisecond})

	start := time.Now()
	got := g.Ask(context.Background(), "hi")
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, strings.HasPrefix(got, "AI query failed: "), got)
}

func TestGemini_Ask_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	got := NewGemini(GeminiConfig{Endpoint: url}).Ask(context.Background(), "hi")
	assert.True(t, strings.HasPrefix(got, "AI query failed: "), got)
}
