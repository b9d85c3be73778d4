package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rl := NewRateLimit(ctx, 2, time.Minute, time.Minute, nil)
	h := rl.Handle(ok)

	do := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/bs", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:4321"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1234"))
}

func TestRateLimit_WindowReset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rl := NewRateLimit(ctx, 1, 50*time.Millisecond, time.Hour, func(*http.Request) string { return "key" })
	h := rl.Handle(ok)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	time.Sleep(60 * time.Millisecond)
	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", ClientIP()(req))

	// forwarded headers from anyone else are ignored
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "192.0.2.1", ClientIP()(req))
	assert.Equal(t, "192.0.2.1", ClientIP("10.0.0.1")(req))

	behindProxy := ClientIP("192.0.2.1", "10.0.0.1")
	assert.Equal(t, "203.0.113.7", behindProxy(req))
	req.Header.Set("X-Forwarded-For", "198.51.100.9, 203.0.113.7")
	assert.Equal(t, "203.0.113.7", behindProxy(req))
	req.Header.Del("X-Forwarded-For")
	assert.Equal(t, "192.0.2.1", behindProxy(req))
}

func TestRateLimit_SpoofedForwardedFor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewRateLimit(ctx, 1, time.Minute, time.Minute, nil).Handle(ok)

	codes := make([]int, 0, 3)
	for _, fwd := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		req := httptest.NewRequest(http.MethodGet, "/api/bs", nil)
		req.RemoteAddr = "198.51.100.1:1234"
		req.Header.Set("X-Forwarded-For", fwd)
		rec := httptest.NewRecorder()
		h(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	h := l.Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/ad?year=1999", nil))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "code=400")
	assert.Contains(t, buf.String(), "/api/ad?year=1999")
}
