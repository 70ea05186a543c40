package metrics

import (
	"sync"
	"time"
)

type noticeStats struct {
	sent           int
	errors         int
	rateLimitHits  int
	lastRetryAfter time.Duration
	lastLatency    time.Duration
}

// Recorder captures lightweight, in-memory metrics about game transitions and
// outbound notices, and mirrors them into OpenTelemetry when configured.
type Recorder struct {
	mu          sync.Mutex
	notices     map[string]*noticeStats
	transitions map[string]int
	outcomes    map[string]int
	otel        *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		notices:     make(map[string]*noticeStats),
		transitions: make(map[string]int),
		outcomes:    make(map[string]int),
		otel:        otel,
	}
}

// RecordNotification counts an outbound notice attempt of the given kind and stores its latency.
func (r *Recorder) RecordNotification(kind string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(kind)
	stats.sent++
	stats.lastLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordNotification(kind, duration, err)
	}
}

// RecordRateLimit tracks a throttled request or notice for scope and stores the last wait.
func (r *Recorder) RecordRateLimit(scope string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(scope)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimit(scope, retryAfter)
	}
}

// RecordTransition counts a game command by operation and result (see Result* constants).
func (r *Recorder) RecordTransition(op, result string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.transitions[op+"|"+result]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordTransition(op, result)
	}
}

// RecordOutcome counts a resolved play.
func (r *Recorder) RecordOutcome(state, outcome string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.outcomes[state+"|"+outcome]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordOutcome(state, outcome)
	}
}

// Transitions returns how many times op finished with result.
func (r *Recorder) Transitions(op, result string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transitions[op+"|"+result]
}

// Outcomes returns how many plays in state resolved to outcome.
func (r *Recorder) Outcomes(state, outcome string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcomes[state+"|"+outcome]
}

// NotificationsSent returns the total attempts recorded for a notice kind.
func (r *Recorder) NotificationsSent(kind string) int {
	return r.Snapshot(kind).Sent
}

// NotificationErrors returns the failed attempts recorded for a notice kind.
func (r *Recorder) NotificationErrors(kind string) int {
	return r.Snapshot(kind).Errors
}

// RateLimitHits returns the number of throttling events seen for scope.
func (r *Recorder) RateLimitHits(scope string) int {
	return r.Snapshot(scope).RateLimitHits
}

// LastRetryAfter returns the most recent wait recorded for scope.
func (r *Recorder) LastRetryAfter(scope string) time.Duration {
	return r.Snapshot(scope).LastRetryAfter
}

// Snapshot returns a copy of the current stats for a notice kind or rate limit scope.
type Snapshot struct {
	Sent           int
	Errors         int
	RateLimitHits  int
	LastRetryAfter time.Duration
	LastLatency    time.Duration
}

func (r *Recorder) Snapshot(name string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.notices[name]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Sent:           stats.sent,
		Errors:         stats.errors,
		RateLimitHits:  stats.rateLimitHits,
		LastRetryAfter: stats.lastRetryAfter,
		LastLatency:    stats.lastLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordTaskCycle tracks cycles and errors of a periodic task.
func (r *Recorder) RecordTaskCycle(task string, duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordTaskCycle(task, duration, err)
}

// ensureStats must be called with r.mu held.
func (r *Recorder) ensureStats(name string) *noticeStats {
	stats, ok := r.notices[name]
	if !ok {
		stats = &noticeStats{}
		r.notices[name] = stats
	}
	return stats
}
