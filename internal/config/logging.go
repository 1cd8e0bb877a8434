package config

import (
	"io"
	"log/slog"
	"strings"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logLevelMap = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(name string) slog.Level {
	if l, ok := logLevelMap[strings.ToLower(name)]; ok {
		return l
	}
	return slog.LevelInfo
}

// NewLogger builds the logger described by cfg: tint for "text", the slog
// JSON handler for "json".
func NewLogger(w io.Writer, cfg LoggingConfig) *slog.Logger {
	level := ParseLevel(cfg.Level)

	if strings.ToLower(cfg.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    cfg.File != "",
	}))
}

// Output returns where logs go: a size-rotated file when cfg.File is set,
// otherwise fallback.
func Output(cfg LoggingConfig, fallback io.Writer) io.Writer {
	if cfg.File == "" {
		return fallback
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
}
