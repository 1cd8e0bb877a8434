package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voxassist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ModeDevelopment, cfg.Mode)
	assert.Equal(t, ":5001", cfg.Health.Addr)
	assert.Equal(t, 10*time.Second, cfg.Listen.WaitTimeout)
	assert.Equal(t, 15*time.Second, cfg.Listen.PhraseLimit)
	assert.Equal(t, time.Second, cfg.Listen.Calibration)
	assert.False(t, cfg.Whisper.Translate)
	assert.Equal(t, BackendGemini, cfg.AI.Backend)
	assert.Equal(t, 10*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.Gemini.Model)
	assert.Equal(t, "from-env", cfg.AI.Gemini.APIKey)
	assert.Equal(t, DefaultApps(), cfg.Apps)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("VOXASSIST_TEST_KEY", "secret")

	path := writeConfig(t, `
mode: production
logging:
  level: debug
  format: json
listen:
  wait_timeout: 3s
  phrase_limit: 5s
whisper:
  translate: true
ai:
  gemini:
    api_key: ${VOXASSIST_TEST_KEY}
apps:
  Notepad: [my-editor]
  terminal: [alacritty, xterm]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ModeProduction, cfg.Mode)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 3*time.Second, cfg.Listen.WaitTimeout)
	assert.Equal(t, 5*time.Second, cfg.Listen.PhraseLimit)
	assert.True(t, cfg.Whisper.Translate)
	assert.Equal(t, "secret", cfg.AI.Gemini.APIKey)
	assert.Equal(t, []string{"my-editor"}, cfg.Apps["notepad"])
	assert.Equal(t, []string{"alacritty", "xterm"}, cfg.Apps["terminal"])
	assert.Contains(t, cfg.Apps, "calculator")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("VOXASSIST_AI_BACKEND", "openai")
	t.Setenv("VOXASSIST_HEALTH_ADDR", "127.0.0.1:9000")

	cfg, err := Load(writeConfig(t, "mode: development\n"))
	require.NoError(t, err)

	assert.Equal(t, BackendOpenAI, cfg.AI.Backend)
	assert.Equal(t, "sk-test", cfg.AI.OpenAI.APIKey)
	assert.Equal(t, "127.0.0.1:9000", cfg.Health.Addr)
}

func TestLoad_APIKeyPolicy(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load(writeConfig(t, "mode: production\n"))
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.ErrorContains(t, err, "GEMINI_API_KEY")

	cfg, err := Load(writeConfig(t, "mode: development\n"))
	require.NoError(t, err)
	assert.Equal(t, PlaceholderGeminiKey, cfg.AI.Gemini.APIKey)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k")

	tests := map[string]string{
		"mode":    "mode: staging\n",
		"backend": "ai:\n  backend: llama\n",
		"timeout": "ai:\n  timeout: 0s\n",
		"listen":  "listen:\n  wait_timeout: -1s\n",
		"yaml":    "mode: [\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	NewLogger(&buf, LoggingConfig{Level: "warn", Format: "json"}).Info("hidden")
	assert.Empty(t, buf.String())

	NewLogger(&buf, LoggingConfig{Level: "debug", Format: "json"}).Debug("shown", "app", "vlc")
	assert.Contains(t, buf.String(), `"app":"vlc"`)

	buf.Reset()
	NewLogger(&buf, LoggingConfig{Level: "info", Format: "text"}).Info("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestOutput(t *testing.T) {
	var buf bytes.Buffer
	assert.Same(t, &buf, Output(LoggingConfig{}, &buf))

	path := filepath.Join(t.TempDir(), "voxassist.log")
	w := Output(LoggingConfig{File: path}, &buf)
	if c, ok := w.(io.Closer); ok {
		defer c.Close()
	}
	NewLogger(w, LoggingConfig{Level: "info", Format: "json", File: path}).Info("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, ParseLevel("DEBUG"), logLevelMap["debug"])
	assert.Equal(t, ParseLevel("nonsense"), logLevelMap["info"])
}
