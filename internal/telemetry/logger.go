package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// InitLogger installs the default logger. Logs go to stderr so stdout
// stays reserved for the benchmark report. The returned func closes the
// log file.
func InitLogger(debug bool, logFile string) func() error {
	logger, closeLog := NewLogger(os.Stderr, debug, logFile)
	slog.SetDefault(logger)
	return closeLog
}

func noClose() error { return nil }

// NewLogger builds a JSON logger writing to w and, when logFile is set,
// appending to that file as well. Call the returned func once the logger
// is no longer used.
func NewLogger(w io.Writer, debug bool, logFile string) (*slog.Logger, func() error) {
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	if debug {
		opts.Level = slog.LevelDebug
	}

	closeLog := noClose
	var handlers []slog.Handler
	if w != nil {
		handlers = append(handlers, slog.NewJSONHandler(w, opts))
	}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			fileOpts := &slog.HandlerOptions{Level: slog.LevelDebug}
			handlers = append(handlers, slog.NewJSONHandler(f, fileOpts))
			closeLog = f.Close
		} else {
			slog.Error("Failed to open log file", "path", logFile, "error", err)
		}
	}

	switch len(handlers) {
	case 0:
		return slog.New(slog.NewJSONHandler(io.Discard, opts)), closeLog
	case 1:
		return slog.New(handlers[0]), closeLog
	default:
		return slog.New(&multiHandler{handlers: handlers}), closeLog
	}
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: next}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: next}
}

// LogDebug logs a debug message.
func LogDebug(msg string, args ...any) {
	slog.Debug(msg, args...)
}

// LogInfo logs an info message.
func LogInfo(msg string, args ...any) {
	slog.Info(msg, args...)
}

// LogError logs an error message.
func LogError(msg string, err error, args ...any) {
	slog.Error(msg, append(args, "error", err)...)
}
