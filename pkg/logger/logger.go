package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger writes one JSON object per event, tagged with the service and host
// so counter logs can be merged with the backend's.
type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

func New(service string) *Logger {
	return NewWithWriter(service, os.Stdout)
}

func NewWithWriter(service string, w io.Writer) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *Logger {
	return NewWithWriter("test", io.Discard)
}

func (l *Logger) Debug(action, requestID, message string) {
	l.log(slog.LevelDebug, action, requestID, message)
}

func (l *Logger) Info(action, requestID, message string) {
	l.log(slog.LevelInfo, action, requestID, message)
}

func (l *Logger) Warn(action, requestID, message string, err error) {
	if err == nil {
		l.log(slog.LevelWarn, action, requestID, message)
		return
	}
	l.log(slog.LevelWarn, action, requestID, message, slog.String("error", err.Error()))
}

func (l *Logger) Error(action, requestID, message string, err error) {
	attrs := []slog.Attr{}
	if err != nil {
		attrs = append(attrs, slog.Group("error", slog.String("msg", err.Error())))
	}
	l.log(slog.LevelError, action, requestID, message, attrs...)
}

func (l *Logger) log(level slog.Level, action, requestID, message string, extra ...slog.Attr) {
	attrs := []slog.Attr{
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
	}
	if requestID != "" {
		attrs = append(attrs, slog.String("request_id", requestID))
	}
	attrs = append(attrs, extra...)
	l.handler.LogAttrs(context.Background(), level, message, attrs...)
}

type requestIDKey struct{}

// WithRequestID stores the request id so services deeper in the call can tag
// their log lines with it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
