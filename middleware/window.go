package middleware

import (
	"encoding/json"
	"math"
	"net/http"
	"sync"
	"time"

	"portfolio-backend/enrich"

	"github.com/rs/zerolog/log"
)

// CounterStore is the storage capability behind WindowLimiter: it counts hits
// per key within a fixed window that resets on the first request after
// expiry. The in-memory implementation suits a single instance; a shared
// cache can stand in for horizontal scaling without touching the policy.
type CounterStore interface {
	// Hit records one request for key and returns the count within the
	// current window and when that window resets.
	Hit(key string, now time.Time, window time.Duration) (int, time.Time)
}

type windowRecord struct {
	count   int
	resetAt time.Time
}

// MemoryCounterStore keeps per-key counters in process memory. State is not
// shared across instances and resets on restart.
type MemoryCounterStore struct {
	mu      sync.Mutex
	records map[string]*windowRecord
}

// NewMemoryCounterStore creates an empty in-memory counter store
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{records: make(map[string]*windowRecord)}
}

func (s *MemoryCounterStore) Hit(key string, now time.Time, window time.Duration) (int, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || now.After(rec.resetAt) {
		rec = &windowRecord{count: 1, resetAt: now.Add(window)}
		s.records[key] = rec
		return rec.count, rec.resetAt
	}

	rec.count++
	return rec.count, rec.resetAt
}

// WindowLimiter rejects a client IP once it exceeds max requests within a
// fixed window, answering 429 with an advisory retryAfter in seconds. The
// window is not sliding: it resets on the first request after expiry.
type WindowLimiter struct {
	store  CounterStore
	max    int
	window time.Duration
	now    func() time.Time
}

// NewWindowLimiter creates a limiter over the given counter store
func NewWindowLimiter(store CounterStore, max int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{
		store:  store,
		max:    max,
		window: window,
		now:    time.Now,
	}
}

// Limit is the middleware enforcing the window
func (wl *WindowLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := enrich.ClientIP(r)
		now := wl.now()

		count, resetAt := wl.store.Hit(ip, now, wl.window)
		if count > wl.max {
			retryAfter := int64(math.Ceil(resetAt.Sub(now).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}

			log.Warn().
				Str("ip", ip).
				Int("count", count).
				Int("max", wl.max).
				Msg("Rate limit window exceeded")

			writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
				"success":    false,
				"message":    "Too many requests. Please try again later.",
				"retryAfter": retryAfter,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
