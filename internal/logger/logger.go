package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ekisa-team/lookup-model/internal/env"
)

const (
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
	defaultMaxAgeDays = 7
)

// Options configures the logger.
type Options struct {
	Level     slog.Level
	LogToFile bool
	LogFile   string
	Output    io.Writer
}

// Option applies a configuration to Options.
type Option func(*Options)

// WithLevel sets the minimum log level.
func WithLevel(level slog.Level) Option {
	return func(o *Options) {
		o.Level = level
	}
}

// WithLogToFile enables or disables the rotated file sink.
func WithLogToFile(enabled bool) Option {
	return func(o *Options) {
		o.LogToFile = enabled
	}
}

// WithLogFile sets the path of the rotated log file.
func WithLogFile(path string) Option {
	return func(o *Options) {
		o.LogFile = path
	}
}

// WithOutput replaces stderr as the console writer.
func WithOutput(w io.Writer) Option {
	return func(o *Options) {
		o.Output = w
	}
}

// New creates a logger for the given environment.
// Development gets a coloured tint handler, production a JSON handler.
func New(environment env.Environment, opts ...Option) *slog.Logger {
	options := Options{
		Level:  slog.LevelInfo,
		Output: os.Stderr,
	}
	for _, opt := range opts {
		opt(&options)
	}

	out := options.Output
	if options.LogToFile && options.LogFile != "" {
		out = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   options.LogFile,
			MaxSize:    defaultMaxSizeMB,
			MaxBackups: defaultMaxBackups,
			MaxAge:     defaultMaxAgeDays,
			Compress:   true,
		})
	}

	var handler slog.Handler
	if environment.IsDevelopment() {
		handler = tint.NewHandler(out, &tint.Options{
			Level:      options.Level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:       options.Level,
			ReplaceAttr: cloudLoggingAttrs,
		})
	}

	return slog.New(handler)
}

// ParseLevel converts a level name into a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// cloudLoggingAttrs renames top-level keys to the names Cloud Logging
// recognises in structured payloads.
func cloudLoggingAttrs(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch a.Key {
	case slog.LevelKey:
		a.Key = "severity"
		if level, ok := a.Value.Any().(slog.Level); ok && level == slog.LevelWarn {
			a.Value = slog.StringValue("WARNING")
		}
	case slog.MessageKey:
		a.Key = "message"
	}

	return a
}
