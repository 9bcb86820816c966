package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"portfolio-backend/enrich"
	"portfolio-backend/model"
	"portfolio-backend/store"

	"github.com/rs/zerolog/log"
)

// Paths and suffixes the server-side tracker ignores: API routes, health
// checks and static assets.
var skipPrefixes = []string{"/contact", "/analytics", "/likes", "/health", "/favicon.ico", "/robots.txt", "/sitemap.xml"}
var skipSuffixes = []string{".css", ".js", ".jpg", ".png", ".svg", ".ico", ".woff", ".woff2"}

// Crawler markers; automated page loads would skew the visit statistics
var botMarkers = []string{
	"bot", "crawler", "spider", "curl", "wget", "python-requests",
	"googlebot", "bingbot", "facebookexternalhit", "slackbot",
}

func isBotUA(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, marker := range botMarkers {
		if strings.Contains(ua, marker) {
			return true
		}
	}
	return false
}

// VisitTracker auto-records every non-API, non-asset page load through the
// same pipeline as the explicit /analytics/track call. Recording happens in
// the background; a failed write never blocks or fails the page load.
type VisitTracker struct {
	visits     store.VisitStore
	geo        *enrich.Geolocator
	sessionTTL time.Duration
	secure     bool
}

// NewVisitTracker creates the tracking middleware
func NewVisitTracker(visits store.VisitStore, geo *enrich.Geolocator, sessionTTL time.Duration, secure bool) *VisitTracker {
	return &VisitTracker{visits: visits, geo: geo, sessionTTL: sessionTTL, secure: secure}
}

// Track is the middleware recording page loads
func (t *VisitTracker) Track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || t.shouldSkip(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		userAgent := r.UserAgent()
		if isBotUA(userAgent) {
			next.ServeHTTP(w, r)
			return
		}

		sessionID := enrich.SessionID(w, r, t.sessionTTL, t.secure)
		ip := enrich.ClientIP(r)
		page := r.URL.RequestURI()

		browser, os, device := enrich.ParseUserAgent(userAgent)
		loc := t.geo.Lookup(ip)

		visit := &model.Visit{
			IPAddress:   ip,
			UserAgent:   userAgent,
			PageVisited: page,
			SessionID:   sessionID,
			Country:     loc.Country,
			City:        loc.City,
			Region:      loc.Region,
			Browser:     browser,
			OS:          os,
			Device:      device,
		}
		if referrer := r.Referer(); referrer != "" {
			visit.Referrer = &referrer
		}
		if lang := r.Header.Get("Accept-Language"); lang != "" {
			first := strings.TrimSpace(strings.Split(lang, ",")[0])
			visit.Language = &first
		}

		// Fire and forget
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := t.visits.Create(ctx, visit); err != nil {
				log.Error().Err(err).Str("page", page).Msg("Failed to track page visit")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (t *VisitTracker) shouldSkip(path string) bool {
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, suffix := range skipSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
