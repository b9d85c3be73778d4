package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger}
}

type wrappedResponseWriter struct {
	http.ResponseWriter
	code int
}

func (wrw *wrappedResponseWriter) Flush() {
	if flusher, ok := wrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (wrw *wrappedResponseWriter) Unwrap() http.ResponseWriter {
	return wrw.ResponseWriter
}

func (wrw *wrappedResponseWriter) WriteHeader(code int) {
	wrw.code = code
	wrw.ResponseWriter.WriteHeader(code)
}

// Handle logs every request except the long-lived event stream, at a level
// chosen by the response code.
func (l *Logger) Handle(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/sse" {
			next.ServeHTTP(w, r)
			return
		}
		wrw := &wrappedResponseWriter{
			ResponseWriter: w,
			code:           http.StatusOK,
		}
		t0 := time.Now()
		next.ServeHTTP(wrw, r)
		l.logger.Log(r.Context(), levelFor(wrw.code), fmt.Sprintf("%s %s %s", r.Method, r.RequestURI, r.Proto),
			"remote_addr", r.RemoteAddr, "code", wrw.code, "took", time.Since(t0))
	}
}

func levelFor(code int) slog.Level {
	switch {
	case code < 400:
		return slog.LevelInfo
	case code < 500:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
