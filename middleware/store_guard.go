package middleware

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// StoreGuard tracks store connectivity in the background and short-circuits
// data-dependent requests with 503 while the store is unreachable, so the
// server degrades instead of surfacing driver errors on every endpoint.
type StoreGuard struct {
	rdb       *redis.Client
	connected atomic.Bool
	stop      chan struct{}
}

// NewStoreGuard probes the store once immediately and then on the given
// interval. Call Close on shutdown.
func NewStoreGuard(rdb *redis.Client, interval time.Duration) *StoreGuard {
	g := &StoreGuard{rdb: rdb, stop: make(chan struct{})}
	g.probe()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				g.probe()
			case <-g.stop:
				return
			}
		}
	}()

	return g
}

func (g *StoreGuard) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := g.rdb.Ping(ctx).Err()
	was := g.connected.Swap(err == nil)

	if err != nil && was {
		log.Error().Err(err).Msg("Store connection lost - data endpoints returning 503")
	} else if err == nil && !was {
		log.Info().Msg("Store connection established")
	}
}

// Connected reports the last observed store state
func (g *StoreGuard) Connected() bool {
	return g.connected.Load()
}

// Require rejects requests with 503 while the store is down, independent of
// the operation being attempted.
func (g *StoreGuard) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Connected() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"success": false,
				"message": "Database not available. Please try again later.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Close stops the background probe
func (g *StoreGuard) Close() {
	close(g.stop)
}
