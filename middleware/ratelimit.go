package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/thansetan/patro/helper"
)

// RateLimit allows maxVisitCount requests per key in every fixed window of
// the given duration.
type RateLimit struct {
	store                     *sync.Map
	keyGetter                 func(r *http.Request) string
	maxVisitCount             uint64
	duration, cleanupDuration time.Duration
}

type visitor struct {
	mu          *sync.RWMutex
	windowStart time.Time
	count       uint64
}

// NewRateLimit expires idle keys every cleanupDuration until ctx is done.
func NewRateLimit(ctx context.Context, maxVisitCount uint64, duration, cleanupDuration time.Duration, keyGetter func(*http.Request) string) *RateLimit {
	rl := new(RateLimit)
	rl.maxVisitCount = maxVisitCount
	rl.duration = duration
	rl.cleanupDuration = cleanupDuration
	rl.keyGetter = keyGetter
	if rl.keyGetter == nil {
		rl.keyGetter = ClientIP()
	}
	rl.store = new(sync.Map)
	go rl.cleanup(ctx)

	return rl
}

func (rl *RateLimit) Handle(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := rl.keyGetter(r)
		valAny, _ := rl.store.LoadOrStore(key, &visitor{
			windowStart: time.Now(),
			mu:          new(sync.RWMutex),
		})
		val := valAny.(*visitor)

		val.mu.Lock()
		if time.Since(val.windowStart) > rl.duration {
			val.count = 0
			val.windowStart = time.Now()
		}

		if val.count >= rl.maxVisitCount {
			retryAfter := time.Until(val.windowStart.Add(rl.duration))
			val.mu.Unlock()
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			helper.WriteMessage(w, http.StatusTooManyRequests, "too many requests, slow down!")
			return
		}
		val.count++
		val.mu.Unlock()

		next.ServeHTTP(w, r)
	}
}

func (rl *RateLimit) cleanup(ctx context.Context) {
	ticker := time.NewTicker(rl.cleanupDuration)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		rl.store.Range(func(key, value any) bool {
			v := value.(*visitor)
			v.mu.RLock()
			windowPassed := time.Since(v.windowStart) > rl.duration
			v.mu.RUnlock()
			if windowPassed {
				rl.store.Delete(key)
			}

			return true
		})
	}
}

// ClientIP returns a key getter for the client address. X-Forwarded-For is
// only read on requests coming from one of trustedProxies, and then its
// last hop that isn't a trusted proxy is the key.
func ClientIP(trustedProxies ...string) func(*http.Request) string {
	trusted := make(map[string]bool, len(trustedProxies))
	for _, p := range trustedProxies {
		if p = strings.TrimSpace(p); p != "" {
			trusted[p] = true
		}
	}
	return func(r *http.Request) string {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !trusted[host] {
			return host
		}
		hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop != "" && !trusted[hop] {
				return hop
			}
		}
		return host
	}
}
