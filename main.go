package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/config"
	"portfolio-backend/email"
	"portfolio-backend/enrich"
	"portfolio-backend/handler"
	appLogger "portfolio-backend/logger"
	"portfolio-backend/middleware"
	redisClient "portfolio-backend/redis"
	"portfolio-backend/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize logger
	appLogger.Initialize()

	// Load configuration
	cfg := config.MustLoadConfig()
	log.Info().Msg("Configuration loaded successfully")

	// Initialize Redis client. A connection failure is not fatal: health
	// endpoints keep serving and the store guard turns data endpoints into
	// 503s until the store comes back.
	rdb := redisClient.NewClient(cfg.Redis)
	guard := middleware.NewStoreGuard(rdb, 5*time.Second)

	// Initialize GeoIP resolver
	geo := enrich.NewGeolocator(cfg.GeoIP)

	// Stores
	contacts := store.NewRedisContactStore(rdb)
	visits := store.NewRedisVisitStore(rdb)
	likes := store.NewRedisLikeStore(rdb)

	// Contact notification service (disabled by default)
	notifier := email.NewNotifier(cfg.Email)

	opTimeout := time.Duration(cfg.Redis.OperationTimeout) * time.Second
	sessionTTL := time.Duration(cfg.Analytics.SessionTTLMin) * time.Minute

	// Handlers
	contactHandler := handler.NewContactHandler(contacts, notifier, opTimeout)
	analyticsHandler := handler.NewAnalyticsHandler(visits, geo, cfg.Analytics.RetentionDays, opTimeout)
	likesHandler := handler.NewLikesHandler(likes, opTimeout)
	healthHandler := handler.NewHealthHandler(guard, cfg.WebServer.Environment, cfg.WebServer.Port)

	// Rate limiters: a coarse global token bucket plus fixed 15-minute
	// windows for contact creation and the analytics group
	globalLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	contactLimiter := middleware.NewWindowLimiter(
		middleware.NewMemoryCounterStore(),
		cfg.RateLimit.ContactMax,
		time.Duration(cfg.RateLimit.ContactWindowMin)*time.Minute,
	)
	analyticsLimiter := middleware.NewWindowLimiter(
		middleware.NewMemoryCounterStore(),
		cfg.RateLimit.AnalyticsMax,
		time.Duration(cfg.RateLimit.AnalyticsWindowMin)*time.Minute,
	)

	// Set up router
	r := mux.NewRouter()
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.RequestLogger)
	r.Use(globalLimiter.Limit)

	// Optional server-side page tracking (the frontend normally calls
	// /analytics/track itself)
	if cfg.Analytics.ServerTracking {
		tracker := middleware.NewVisitTracker(visits, geo, sessionTTL, cfg.IsProduction())
		r.Use(tracker.Track)
		log.Info().Msg("Server-side visit tracking enabled")
	}

	// Health endpoints stay reachable regardless of store state
	r.HandleFunc("/health", healthHandler.Check).Methods("GET")
	r.HandleFunc("/health/ping", healthHandler.Ping).Methods("GET")

	// Contact endpoints; creation is additionally rate limited per IP
	r.Handle("/contact", guard.Require(contactLimiter.Limit(http.HandlerFunc(contactHandler.Create)))).Methods("POST")
	r.Handle("/contact", guard.Require(http.HandlerFunc(contactHandler.List))).Methods("GET")
	r.Handle("/contact/stats", guard.Require(http.HandlerFunc(contactHandler.Stats))).Methods("GET")
	r.Handle("/contact/{id}", guard.Require(http.HandlerFunc(contactHandler.GetByID))).Methods("GET")
	r.Handle("/contact/{id}/status", guard.Require(http.HandlerFunc(contactHandler.UpdateStatus))).Methods("PUT")
	r.Handle("/contact/{id}", guard.Require(http.HandlerFunc(contactHandler.Delete))).Methods("DELETE")

	// Analytics endpoints, rate limited as a group
	analytics := r.PathPrefix("/analytics").Subrouter()
	analytics.Use(guard.Require)
	analytics.Use(analyticsLimiter.Limit)
	analytics.HandleFunc("/track", analyticsHandler.Track).Methods("POST")
	analytics.HandleFunc("/summary", analyticsHandler.Summary).Methods("GET")
	analytics.HandleFunc("/popular-pages", analyticsHandler.PopularPages).Methods("GET")
	analytics.HandleFunc("/visits", analyticsHandler.Visits).Methods("GET")
	analytics.HandleFunc("/active", analyticsHandler.Active).Methods("GET")
	analytics.HandleFunc("/visitors", analyticsHandler.VisitorsCount).Methods("GET")
	analytics.HandleFunc("/cleanup", analyticsHandler.Cleanup).Methods("DELETE")

	// Likes endpoints
	r.Handle("/likes", guard.Require(http.HandlerFunc(likesHandler.Get))).Methods("GET")
	r.Handle("/likes", guard.Require(http.HandlerFunc(likesHandler.Increment))).Methods("POST")

	// Root endpoint
	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		handler.SendJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Portfolio API",
			"status":  "running",
			"endpoints": map[string]interface{}{
				"health":  "/health",
				"contact": "/contact",
				"analytics": map[string]string{
					"track":        "/analytics/track",
					"summary":      "/analytics/summary",
					"popularPages": "/analytics/popular-pages",
					"active":       "/analytics/active",
				},
				"likes": "/likes",
			},
		})
	}).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		handler.SendError(w, http.StatusNotFound, "Route not found")
	})

	// Configure HTTP server
	serverAddress := fmt.Sprintf("%s:%s", cfg.WebServer.IP, cfg.WebServer.Port)
	server := &http.Server{
		Addr:         serverAddress,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.WebServer.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WebServer.WriteTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("address", serverAddress).
			Str("environment", cfg.WebServer.Environment).
			Msg("Starting server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.WebServer.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	guard.Close()
	geo.Close()

	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Redis connection")
	}

	log.Info().Msg("Server stopped gracefully")
}
