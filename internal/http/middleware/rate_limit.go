package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go-flag-graph-service/internal/http/response"
)

type fixedWindow struct {
	count       int
	windowStart time.Time
}

// MutationRateLimiter throttles flag writes per team with an in-process
// fixed window. Graph validation re-reads the team's whole flag set on
// every write, so the limiter keeps a hot client from turning that into a
// scan storm.
type MutationRateLimiter struct {
	mu      sync.Mutex
	store   map[string]*fixedWindow
	limit   int
	window  time.Duration
	cleanup time.Time
}

func NewMutationRateLimiter(limitPerMin int) *MutationRateLimiter {
	return &MutationRateLimiter{
		store:   make(map[string]*fixedWindow),
		limit:   limitPerMin,
		window:  time.Minute,
		cleanup: time.Now().Add(time.Minute),
	}
}

func (l *MutationRateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "anon"
		if claims, ok := ClaimsFromContext(r.Context()); ok {
			key = fmt.Sprintf("team:%d", claims.TeamID)
		}
		allowed, retryAfter := l.allow(key, time.Now())
		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			response.Error(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many flag mutations, slow down", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *MutationRateLimiter) allow(key string, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.cleanup) {
		for k, win := range l.store {
			if now.Sub(win.windowStart) > l.window {
				delete(l.store, k)
			}
		}
		l.cleanup = now.Add(l.window)
	}

	win, ok := l.store[key]
	if !ok || now.Sub(win.windowStart) >= l.window {
		l.store[key] = &fixedWindow{count: 1, windowStart: now}
		return true, 0
	}
	if win.count >= l.limit {
		return false, l.window - now.Sub(win.windowStart)
	}
	win.count++
	return true, 0
}
