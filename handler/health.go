package handler

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"portfolio-backend/middleware"
)

// HealthHandler reports liveness and store connectivity. Health endpoints
// stay up even when the store is down: that is the whole point of them.
type HealthHandler struct {
	guard       *middleware.StoreGuard
	environment string
	port        string
	startedAt   time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(guard *middleware.StoreGuard, environment, port string) *HealthHandler {
	return &HealthHandler{
		guard:       guard,
		environment: environment,
		port:        port,
		startedAt:   time.Now(),
	}
}

// Check handles GET /health: 200 when the store is connected, 503 otherwise,
// with server/store/memory detail either way.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	connected := h.guard.Connected()

	storeStatus := "disconnected"
	statusCode := http.StatusServiceUnavailable
	if connected {
		storeStatus = "connected"
		statusCode = http.StatusOK
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	SendJSON(w, statusCode, map[string]interface{}{
		"success":     true,
		"message":     "Server is running",
		"timestamp":   time.Now().Format(time.RFC3339),
		"uptime":      time.Since(h.startedAt).Seconds(),
		"environment": h.environment,
		"server": map[string]interface{}{
			"status": "healthy",
			"port":   h.port,
		},
		"database": map[string]interface{}{
			"status":    storeStatus,
			"connected": connected,
		},
		"memory": map[string]interface{}{
			"usage": fmt.Sprintf("%d MB", mem.HeapAlloc/1024/1024),
			"total": fmt.Sprintf("%d MB", mem.HeapSys/1024/1024),
		},
	})
}

// Ping handles GET /health/ping
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	SendJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "pong",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
