// Package config loads the assistant configuration from file, environment
// variables and defaults. The result is immutable and passed by reference.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ModeProduction  = "production"
	ModeDevelopment = "development"

	BackendGemini = "gemini"
	BackendOpenAI = "openai"

	PlaceholderGeminiKey = "YOUR_GEMINI_API_KEY"
	PlaceholderOpenAIKey = "YOUR_OPENAI_API_KEY"
)

var ErrMissingAPIKey = errors.New("API key not set")

type Config struct {
	Mode    string              `mapstructure:"mode"`
	Logging LoggingConfig       `mapstructure:"logging"`
	Health  HealthConfig        `mapstructure:"health"`
	Listen  ListenConfig        `mapstructure:"listen"`
	Whisper WhisperConfig       `mapstructure:"whisper"`
	TTS     TTSConfig           `mapstructure:"tts"`
	Cue     CueConfig           `mapstructure:"cue"`
	AI      AIConfig            `mapstructure:"ai"`
	Bus     BusConfig           `mapstructure:"bus"`
	Control ControlConfig       `mapstructure:"control"`
	Metrics MetricsConfig       `mapstructure:"metrics"`
	Apps    map[string][]string `mapstructure:"apps"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
	File   string `mapstructure:"file"`   // rotated log file instead of stdout
}

type HealthConfig struct {
	Addr string `mapstructure:"addr"`
}

// ListenConfig bounds one listening cycle.
type ListenConfig struct {
	WaitTimeout time.Duration `mapstructure:"wait_timeout"`
	PhraseLimit time.Duration `mapstructure:"phrase_limit"`
	Calibration time.Duration `mapstructure:"calibration"`
	Language    string        `mapstructure:"language"`
}

type WhisperConfig struct {
	Model     string `mapstructure:"model"`
	Threads   int    `mapstructure:"threads"`
	Prompt    string `mapstructure:"prompt"`
	Translate bool   `mapstructure:"translate"` // transcribe any language into English
}

type TTSConfig struct {
	Voice string `mapstructure:"voice"`
	Rate  int    `mapstructure:"rate"`
}

type CueConfig struct {
	File string `mapstructure:"file"`
}

// AIConfig selects the backend used for unmatched utterances.
type AIConfig struct {
	Backend string        `mapstructure:"backend"` // "gemini" or "openai"
	Timeout time.Duration `mapstructure:"timeout"`
	Proxy   string        `mapstructure:"proxy"` // SOCKS5 host:port
	Gemini  GeminiConfig  `mapstructure:"gemini"`
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Endpoint string `mapstructure:"endpoint"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type BusConfig struct {
	URL string `mapstructure:"url"`
}

type ControlConfig struct {
	Socket string `mapstructure:"socket"`
}

// MetricsConfig enables the Prometheus listener when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads the configuration. If configFile is empty the search order is
// ./voxassist.yaml, ./configs/voxassist.yaml, /etc/voxassist/voxassist.yaml.
// A missing file is not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("mode", ModeDevelopment)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")
	v.SetDefault("health.addr", ":5001")
	v.SetDefault("listen.wait_timeout", "10s")
	v.SetDefault("listen.phrase_limit", "15s")
	v.SetDefault("listen.calibration", "1s")
	v.SetDefault("listen.language", "en")
	v.SetDefault("whisper.model", "models/ggml-base.en.bin")
	v.SetDefault("whisper.threads", 0)
	v.SetDefault("whisper.prompt", "")
	v.SetDefault("whisper.translate", false)
	v.SetDefault("tts.voice", "en")
	v.SetDefault("tts.rate", 170)
	v.SetDefault("cue.file", "")
	v.SetDefault("ai.backend", BackendGemini)
	v.SetDefault("ai.timeout", "10s")
	v.SetDefault("ai.proxy", "")
	v.SetDefault("ai.gemini.api_key", "${GEMINI_API_KEY}")
	v.SetDefault("ai.gemini.model", "gemini-2.0-flash")
	v.SetDefault("ai.gemini.endpoint", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("ai.openai.api_key", "${OPENAI_API_KEY}")
	v.SetDefault("ai.openai.model", "gpt-5-nano")
	v.SetDefault("ai.openai.base_url", "")
	v.SetDefault("bus.url", "")
	v.SetDefault("control.socket", "")
	v.SetDefault("metrics.addr", "")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("voxassist")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/voxassist")
	}

	// VOXASSIST_AI_BACKEND, VOXASSIST_LISTEN_WAIT_TIMEOUT, ...
	v.SetEnvPrefix("VOXASSIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Debug("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.AI.Gemini.APIKey = resolveEnvRef(cfg.AI.Gemini.APIKey)
	cfg.AI.OpenAI.APIKey = resolveEnvRef(cfg.AI.OpenAI.APIKey)
	cfg.Bus.URL = resolveEnvRef(cfg.Bus.URL)
	cfg.Apps = mergeApps(DefaultApps(), cfg.Apps)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveEnvRef replaces a whole-value "${VAR_NAME}" with the variable's
// value, which may be empty.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		return os.Getenv(val[2 : len(val)-1])
	}
	return val
}

// mergeApps lays configured entries over the platform defaults.
func mergeApps(defaults, configured map[string][]string) map[string][]string {
	out := make(map[string][]string, len(defaults)+len(configured))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range configured {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeProduction, ModeDevelopment:
	default:
		return fmt.Errorf("mode: unknown value %q", c.Mode)
	}

	switch c.AI.Backend {
	case BackendGemini:
		key, err := c.apiKey(c.AI.Gemini.APIKey, "GEMINI_API_KEY", PlaceholderGeminiKey)
		if err != nil {
			return err
		}
		c.AI.Gemini.APIKey = key
	case BackendOpenAI:
		key, err := c.apiKey(c.AI.OpenAI.APIKey, "OPENAI_API_KEY", PlaceholderOpenAIKey)
		if err != nil {
			return err
		}
		c.AI.OpenAI.APIKey = key
	default:
		return fmt.Errorf("ai.backend: unknown value %q", c.AI.Backend)
	}

	if c.Listen.WaitTimeout < 0 || c.Listen.PhraseLimit < 0 || c.Listen.Calibration < 0 {
		return errors.New("listen: durations must not be negative")
	}
	if c.AI.Timeout <= 0 {
		return errors.New("ai.timeout must be positive")
	}
	return nil
}

// apiKey enforces the key policy of the running mode: production refuses to
// start without one, development falls back to a placeholder.
func (c *Config) apiKey(key, env, placeholder string) (string, error) {
	if key != "" {
		return key, nil
	}
	if c.Mode == ModeProduction {
		return "", fmt.Errorf("%w: set %s", ErrMissingAPIKey, env)
	}
	slog.Warn("API key not set, using placeholder; AI queries will fail", "env", env)
	return placeholder, nil
}
