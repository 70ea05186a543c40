package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/fake-soccer-service/internal/http/requestutil"
	"github.com/preston-bernstein/fake-soccer-service/internal/logging"
	"github.com/preston-bernstein/fake-soccer-service/internal/metrics"
)

const clientIdleTTL = 3 * time.Minute

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	rps      rate.Limit
	burst    int
	logger   *slog.Logger
	recorder *metrics.Recorder
	now      func() time.Time

	mu      sync.Mutex
	clients map[string]*client
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows rps requests per second per client with the given burst.
func NewRateLimiter(rps float64, burst int, logger *slog.Logger, recorder *metrics.Recorder) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		logger:   logger,
		recorder: recorder,
		now:      time.Now,
		clients:  make(map[string]*client),
	}
}

// Middleware rejects requests over the client's budget with 429 and Retry-After.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := requestutil.ClientIP(r)
		res, now := l.reserve(ip)
		if delay := res.DelayFrom(now); delay > 0 {
			res.CancelAt(now)
			l.recorder.RecordRateLimit("http", delay)
			logging.Warn(logging.FromContext(r.Context(), l.logger), "rate limit exceeded",
				slog.String("client_ip", ip),
			)
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// reserve takes a token for ip and returns the instant it was taken at.
func (l *RateLimiter) reserve(ip string) (*rate.Reservation, time.Time) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.ReserveN(now, 1), now
}

// Sweep forgets clients idle for longer than the TTL.
func (l *RateLimiter) Sweep() int {
	cutoff := l.now().Add(-clientIdleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for ip, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
			removed++
		}
	}
	return removed
}

// Clients reports how many clients are tracked.
func (l *RateLimiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Name identifies the idle-client sweep in poller logs.
func (l *RateLimiter) Name() string {
	return "rate-limit-sweep"
}

// Run sweeps idle clients; it lets a poller drive the limiter's housekeeping.
func (l *RateLimiter) Run(ctx context.Context) error {
	if removed := l.Sweep(); removed > 0 {
		logging.Info(logging.FromContext(ctx, l.logger), "rate limit clients pruned", logging.FieldCount, removed)
	}
	return nil
}
