// Package logging wraps log/slog with the service's component loggers and
// subsystem helpers.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Config holds logging configuration
type Config struct {
	Level  string `env:"LOG_LEVEL" default:"info"`
	Format string `env:"LOG_FORMAT" default:"json"`
	Output string `env:"LOG_OUTPUT" default:"stdout"`
}

// DefaultConfig returns the default logging configuration
func DefaultConfig() *Config {
	return &Config{Level: "info", Format: "json", Output: "stdout"}
}

// Logger wraps slog.Logger with component, request and subsystem helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a structured logger writing to stdout, or stderr when
// cfg.Output is "stderr".
func NewLogger(cfg *Config) *Logger {
	var writer io.Writer = os.Stdout
	if strings.EqualFold(cfg.Output, "stderr") {
		writer = os.Stderr
	}
	return newLogger(writer, cfg)
}

func newLogger(writer io.Writer, cfg *Config) *Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String("timestamp", a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text", "console":
		handler = slog.NewTextHandler(writer, opts)
	default:
		handler = slog.NewJSONHandler(writer, opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

// parseLevel maps LOG_LEVEL values onto slog levels; unknown values are info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// WithComponent tags every record with the emitting component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With("component", component)}
}

// WithContext tags records with the chi request ID when ctx carries one.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if requestID := middleware.GetReqID(ctx); requestID != "" {
		return &Logger{Logger: l.Logger.With("request_id", requestID)}
	}
	return l
}

func attrArgs(prefix []any, attrs []slog.Attr) []any {
	for _, attr := range attrs {
		prefix = append(prefix, attr.Key, attr.Value)
	}
	return prefix
}

// Analysis logs a pipeline step of one run.
func (l *Logger) Analysis(msg string, runID string, attrs ...slog.Attr) {
	l.Logger.Info(msg, attrArgs([]any{"run_id", runID}, attrs)...)
}

// AnalysisError logs a pipeline failure of one run.
func (l *Logger) AnalysisError(msg string, err error, runID string, attrs ...slog.Attr) {
	l.Logger.Error(msg, attrArgs([]any{"run_id", runID, "error", err.Error()}, attrs)...)
}

// Performance logs how long an operation took.
func (l *Logger) Performance(operation string, duration time.Duration, attrs ...slog.Attr) {
	l.Logger.Info("performance", attrArgs([]any{"operation", operation, "duration_ms", duration.Milliseconds()}, attrs)...)
}

// LLM logs model backend events.
func (l *Logger) LLM(msg string, args ...any) {
	l.Logger.Info(msg, append([]any{"subsystem", "llm"}, args...)...)
}

// Database logs storage events at debug level.
func (l *Logger) Database(msg string, args ...any) {
	l.Logger.Debug(msg, append([]any{"subsystem", "database"}, args...)...)
}

// Security logs findings about the analyzed traffic.
func (l *Logger) Security(msg string, args ...any) {
	l.Logger.Info(msg, append([]any{"subsystem", "security"}, args...)...)
}

var defaultLogger *Logger

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// Default returns the default logger, creating a JSON stdout logger on
// first use.
func Default() *Logger {
	if defaultLogger == nil {
		defaultLogger = NewLogger(DefaultConfig())
	}
	return defaultLogger
}
