package server

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/WillyGrv/Wedding-M-W/internal/shared"
	"github.com/charmbracelet/log"
)

// Rate-limited route groups.
const (
	RouteSearch = "search"
	RouteSubmit = "add-track"
)

type windowKey struct {
	client string
	route  string
	window int64
}

// RateLimiter keeps a fixed-window request counter per client and route.
//
// Each route has its own budget; a route with no budget is not limited.
type RateLimiter struct {
	window time.Duration
	limits map[string]int
	logger *log.Logger
	now    func() time.Time

	mu       sync.Mutex
	counters map[windowKey]int
}

// NewRateLimiter creates a limiter from the configured window and per-route budgets.
func NewRateLimiter(cfg shared.LimitsConfig, logger *log.Logger) *RateLimiter {
	window := cfg.Window.Duration
	if window <= 0 {
		window = time.Hour
	}
	return &RateLimiter{
		window: window,
		limits: map[string]int{
			RouteSearch: cfg.Search,
			RouteSubmit: cfg.Mutation,
		},
		logger:   logger,
		now:      time.Now,
		counters: make(map[windowKey]int),
	}
}

// Allow counts one request from client on route and reports whether it fits the current window's budget.
func (l *RateLimiter) Allow(client, route string) bool {
	ok, _ := l.take(client, route)
	return ok
}

// take also returns the time left in the current window.
func (l *RateLimiter) take(client, route string) (bool, time.Duration) {
	budget, limited := l.limits[route]
	if !limited || budget <= 0 {
		return true, 0
	}

	now := l.now()
	window := now.UnixNano() / int64(l.window)
	remaining := time.Duration((window+1)*int64(l.window) - now.UnixNano())

	key := windowKey{client: client, route: route, window: window}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.counters[key] >= budget {
		return false, remaining
	}
	l.counters[key]++
	return true, remaining
}

// Sweep drops counters of windows that have ended and returns how many were removed.
func (l *RateLimiter) Sweep() int {
	current := l.now().UnixNano() / int64(l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key := range l.counters {
		if key.window < current {
			delete(l.counters, key)
			removed++
		}
	}
	return removed
}

// Run sweeps stale counters every interval until ctx is done.
func (l *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = l.window
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Sweep(); n > 0 && l.logger != nil {
				l.logger.Debug("swept rate limit counters", "removed", n)
			}
		}
	}
}

// Middleware rejects requests over route's budget with 429 before the handler runs.
func (l *RateLimiter) Middleware(route string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := ClientIP(r)
			ok, retry := l.take(client, route)
			if !ok {
				if l.logger != nil {
					l.logger.Warn("rate limit exceeded", "ip", client, "route", route)
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
				writeJSON(w, http.StatusTooManyRequests, errorBody{
					Error:   codeRateLimited,
					Message: "too many requests, try again later",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
