package logging

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// Response headers handlers use to hand per-request details to the logger.
const (
	HeaderCache    = "X-Genome-Cache"
	HeaderRenderMs = "X-Genome-Render-Ms"
)

// Setup initializes the default slog logger with JSON output to w.
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

type contextKey string

const loggerKey contextKey = "logger"

// WithLogger returns a context with the given logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from the context, falling back to slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// RequestFields holds all fields logged per request.
type RequestFields struct {
	Method    string
	Path      string
	Route     string
	RequestID string
	Status    int
	Cache     string
	RenderMs  int64
	TotalMs   int64
	Bytes     int64
}

// LogRequest logs a completed request with structured fields.
func LogRequest(logger *slog.Logger, f RequestFields) {
	level := slog.LevelInfo
	if f.Status >= 500 {
		level = slog.LevelError
	} else if f.Status >= 400 {
		level = slog.LevelWarn
	}

	logger.Log(context.Background(), level, "request",
		"method", f.Method,
		"path", f.Path,
		"route", f.Route,
		"request_id", f.RequestID,
		"status", f.Status,
		"cache", f.Cache,
		"render_ms", f.RenderMs,
		"total_ms", f.TotalMs,
		"bytes", f.Bytes,
	)
}

// ByteCountingWriter wraps http.ResponseWriter to capture status code and bytes written.
type ByteCountingWriter struct {
	http.ResponseWriter
	StatusCode int
	Bytes      int64
}

// WriteHeader captures the status code.
func (w *ByteCountingWriter) WriteHeader(code int) {
	w.StatusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Write captures bytes written.
func (w *ByteCountingWriter) Write(b []byte) (int, error) {
	if w.StatusCode == 0 {
		w.StatusCode = 200
	}
	n, err := w.ResponseWriter.Write(b)
	w.Bytes += int64(n)
	return n, err
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *ByteCountingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Middleware returns an HTTP middleware that logs requests with timing.
// route resolves the matched route pattern and runs after the handler;
// requestID may be nil.
func Middleware(logger *slog.Logger, route, requestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &ByteCountingWriter{ResponseWriter: w}
			next.ServeHTTP(wrapped, r.WithContext(WithLogger(r.Context(), logger)))

			if wrapped.StatusCode == 0 {
				wrapped.StatusCode = 200
			}

			f := RequestFields{
				Method:   r.Method,
				Path:     r.URL.Path,
				Status:   wrapped.StatusCode,
				Cache:    wrapped.Header().Get(HeaderCache),
				RenderMs: parseHeaderInt64(wrapped.Header().Get(HeaderRenderMs)),
				TotalMs:  time.Since(start).Milliseconds(),
				Bytes:    wrapped.Bytes,
			}
			if route != nil {
				f.Route = route(r)
			}
			if requestID != nil {
				f.RequestID = requestID(r)
			}
			LogRequest(logger, f)
		})
	}
}

func parseHeaderInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}
