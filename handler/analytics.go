package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"portfolio-backend/enrich"
	"portfolio-backend/model"
	"portfolio-backend/store"

	"github.com/rs/zerolog/log"
)

// AnalyticsHandler handles visit tracking and reporting endpoints
type AnalyticsHandler struct {
	visits        store.VisitStore
	geo           *enrich.Geolocator
	retentionDays int
	opTimeout     time.Duration
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(visits store.VisitStore, geo *enrich.Geolocator, retentionDays int, opTimeout time.Duration) *AnalyticsHandler {
	return &AnalyticsHandler{visits: visits, geo: geo, retentionDays: retentionDays, opTimeout: opTimeout}
}

// Track handles POST /analytics/track. Every call creates a new visit row;
// there is no deduplication.
func (h *AnalyticsHandler) Track(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opTimeout)
	defer cancel()

	var input struct {
		PageVisited      string `json:"pageVisited"`
		SessionID        string `json:"sessionId"`
		Referrer         string `json:"referrer"`
		ScreenResolution string `json:"screenResolution"`
		Language         string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		SendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.PageVisited == "" || input.SessionID == "" {
		SendError(w, http.StatusBadRequest, "pageVisited and sessionId are required")
		return
	}

	ip := enrich.ClientIP(r)
	userAgent := r.UserAgent()
	if userAgent == "" {
		userAgent = "Unknown"
	}
	browser, os, device := enrich.ParseUserAgent(userAgent)
	loc := h.geo.Lookup(ip)

	visit := &model.Visit{
		IPAddress:   ip,
		UserAgent:   userAgent,
		PageVisited: input.PageVisited,
		SessionID:   input.SessionID,
		Country:     loc.Country,
		City:        loc.City,
		Region:      loc.Region,
		Browser:     browser,
		OS:          os,
		Device:      device,
	}
	if input.Referrer != "" {
		visit.Referrer = &input.Referrer
	}
	if input.ScreenResolution != "" {
		visit.ScreenResolution = &input.ScreenResolution
	}
	if input.Language != "" {
		visit.Language = &input.Language
	}

	if err := h.visits.Create(ctx, visit); err != nil {
		log.Error().Err(err).Msg("Failed to track visit")
		SendError(w, http.StatusInternalServerError, "Failed to track visit")
		return
	}

	SendJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Visit tracked successfully",
		"data": map[string]interface{}{
			"id":        visit.ID,
			"timestamp": visit.Timestamp,
		},
	})
}

// Summary handles GET /analytics/summary. With no date bounds the window is
// the trailing `days` days; with one bound the other defaults to now. The
// country/device/browser breakdowns and the daily series are computed over
// all time / the trailing days, independent of the window.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opTimeout)
	defer cancel()

	days := queryInt(r, "days", 30)
	if days < 1 {
		days = 30
	}
	start := queryDate(r, "startDate")
	end := queryDate(r, "endDate")
	now := time.Now()
	if start.IsZero() && end.IsZero() {
		start = now.AddDate(0, 0, -days)
		end = now
	} else {
		if start.IsZero() {
			start = now
		}
		if end.IsZero() {
			end = now
		}
	}

	total, err := h.visits.TotalVisits(ctx, start, end)
	if err != nil {
		h.summaryError(w, err)
		return
	}
	uniqueVisitors, err := h.visits.UniqueVisitors(ctx, start, end)
	if err != nil {
		h.summaryError(w, err)
		return
	}
	uniqueSessions, err := h.visits.UniqueSessions(ctx, start, end)
	if err != nil {
		h.summaryError(w, err)
		return
	}
	bounces, err := h.visits.BounceSessions(ctx, start, end)
	if err != nil {
		h.summaryError(w, err)
		return
	}
	popularPages, err := h.visits.PopularPages(ctx, 5, start, end)
	if err != nil {
		h.summaryError(w, err)
		return
	}
	byCountry, err := h.visits.VisitsByCountry(ctx, 10)
	if err != nil {
		h.summaryError(w, err)
		return
	}
	byDevice, err := h.visits.VisitsByDevice(ctx)
	if err != nil {
		h.summaryError(w, err)
		return
	}
	byBrowser, err := h.visits.VisitsByBrowser(ctx)
	if err != nil {
		h.summaryError(w, err)
		return
	}
	daily, err := h.visits.DailyVisits(ctx, days)
	if err != nil {
		h.summaryError(w, err)
		return
	}

	daySpan := int64(math.Ceil(end.Sub(start).Hours() / 24))
	if daySpan < 1 {
		daySpan = 1
	}
	avgPerDay := int64(math.Round(float64(total) / float64(daySpan)))

	var bounceRate int64
	if uniqueSessions > 0 {
		bounceRate = int64(math.Round(float64(bounces) / float64(uniqueSessions) * 100))
	}

	summary := model.AnalyticsSummary{
		Summary: model.SummaryTotals{
			TotalVisits:     total,
			UniqueVisitors:  uniqueVisitors,
			UniqueSessions:  uniqueSessions,
			AvgVisitsPerDay: avgPerDay,
			BounceRate:      fmt.Sprintf("%d%%", bounceRate),
			DateRange:       model.DateRange{Start: start, End: end},
		},
		PopularPages:    popularPages,
		VisitsByCountry: byCountry,
		VisitsByDevice:  byDevice,
		VisitsByBrowser: byBrowser,
		DailyVisits:     daily,
	}

	SendJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": summary})
}

func (h *AnalyticsHandler) summaryError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("Failed to compute analytics summary")
	SendError(w, http.StatusInternalServerError, "Failed to retrieve analytics summary")
}

// PopularPages handles GET /analytics/popular-pages
func (h *AnalyticsHandler) PopularPages(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opTimeout)
	defer cancel()

	limit := queryInt(r, "limit", 10)
	pages, err := h.visits.PopularPages(ctx, limit, queryDate(r, "startDate"), queryDate(r, "endDate"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute popular pages")
		SendError(w, http.StatusInternalServerError, "Failed to retrieve popular pages")
		return
	}

	SendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(pages),
		"data":    pages,
	})
}

// Visits handles GET /analytics/visits
func (h *AnalyticsHandler) Visits(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opTimeout)
	defer cancel()

	filter := store.VisitFilter{
		Page:        queryInt(r, "page", 1),
		Limit:       queryInt(r, "limit", 50),
		Start:       queryDate(r, "startDate"),
		End:         queryDate(r, "endDate"),
		PageVisited: r.URL.Query().Get("pageVisited"),
		Country:     r.URL.Query().Get("country"),
	}

	visits, total, err := h.visits.List(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list visits")
		SendError(w, http.StatusInternalServerError, "Failed to retrieve visits")
		return
	}

	SendJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"count":      len(visits),
		"total":      total,
		"page":       filter.Page,
		"totalPages": totalPages(total, filter.Limit),
		"data":       visits,
	})
}

// Active handles GET /analytics/active: sessions with activity in the
// trailing five minutes.
func (h *AnalyticsHandler) Active(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opTimeout)
	defer cancel()

	active, err := h.visits.ActiveVisitors(ctx, time.Now().Add(-5*time.Minute))
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute active visitors")
		SendError(w, http.StatusInternalServerError, "Failed to retrieve active visitors")
		return
	}

	SendJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"activeCount": len(active),
		"data":        active,
	})
}

// Cleanup handles DELETE /analytics/cleanup: purges visits older than the
// given number of days (default: the configured retention).
func (h *AnalyticsHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opTimeout)
	defer cancel()

	days := queryInt(r, "days", h.retentionDays)
	if days < 0 {
		days = h.retentionDays
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	deleted, err := h.visits.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Failed to cleanup old visits")
		SendError(w, http.StatusInternalServerError, "Failed to cleanup old visits")
		return
	}

	log.Info().Int64("deleted", deleted).Int("days", days).Msg("Old visits cleaned up")

	SendJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      fmt.Sprintf("Deleted %d visit records older than %d days", deleted, days),
		"deletedCount": deleted,
	})
}

// VisitorsCount handles GET /analytics/visitors: distinct sessions across all
// time, for the simple visitor-count display.
func (h *AnalyticsHandler) VisitorsCount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opTimeout)
	defer cancel()

	count, err := h.visits.DistinctSessionCount(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to count distinct sessions")
		SendError(w, http.StatusInternalServerError, "Failed to get visitors count")
		return
	}

	SendJSON(w, http.StatusOK, map[string]interface{}{"success": true, "count": count})
}
