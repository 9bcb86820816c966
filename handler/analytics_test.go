package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio-backend/config"
	"portfolio-backend/enrich"
	"portfolio-backend/model"
	"portfolio-backend/store"

	"github.com/gorilla/mux"
)

func newAnalyticsTestServer(t *testing.T) (*mux.Router, *store.RedisVisitStore) {
	t.Helper()

	visits := store.NewRedisVisitStore(setupTestRedis(t))
	geo := enrich.NewGeolocator(config.GeoIPConfig{})
	t.Cleanup(geo.Close)

	h := NewAnalyticsHandler(visits, geo, 90, testOpTimeout)

	r := mux.NewRouter()
	a := r.PathPrefix("/analytics").Subrouter()
	a.HandleFunc("/track", h.Track).Methods("POST")
	a.HandleFunc("/summary", h.Summary).Methods("GET")
	a.HandleFunc("/popular-pages", h.PopularPages).Methods("GET")
	a.HandleFunc("/visits", h.Visits).Methods("GET")
	a.HandleFunc("/active", h.Active).Methods("GET")
	a.HandleFunc("/visitors", h.VisitorsCount).Methods("GET")
	a.HandleFunc("/cleanup", h.Cleanup).Methods("DELETE")
	return r, visits
}

func seedVisits(t *testing.T, visits *store.RedisVisitStore, n int, page, session string, at time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		v := &model.Visit{
			IPAddress:   "203.0.113.9",
			UserAgent:   "Mozilla/5.0 test",
			PageVisited: page,
			SessionID:   session,
			Timestamp:   at.Add(time.Duration(i) * time.Second),
			Browser:     model.BrowserInfo{Name: "Chrome"},
			Device:      model.DeviceDesktop,
		}
		if err := visits.Create(context.Background(), v); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
}

func TestAnalyticsTrack(t *testing.T) {
	r, visits := newAnalyticsTestServer(t)

	req := jsonRequest(t, "POST", "/analytics/track", map[string]string{
		"pageVisited": "/projects",
		"sessionId":   "sess-1",
		"referrer":    "https://google.com",
		"language":    "en-US",
	})
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.RemoteAddr = "127.0.0.1:4711"
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	body := decodeBody(t, rr)
	data := body["data"].(map[string]interface{})
	if data["id"] == "" {
		t.Error("expected visit id in response")
	}

	stored, _, err := visits.List(context.Background(), store.VisitFilter{})
	if err != nil || len(stored) != 1 {
		t.Fatalf("stored visits = %d (%v), want 1", len(stored), err)
	}
	v := stored[0]
	if v.Browser.Name != "Chrome" || v.Device != model.DeviceDesktop {
		t.Errorf("agent parsing: browser = %q, device = %q", v.Browser.Name, v.Device)
	}
	// Loopback maps to the development sentinel
	if v.Country == nil || *v.Country != "Local" {
		t.Errorf("country = %v, want Local for loopback", v.Country)
	}
	if v.Referrer == nil || *v.Referrer != "https://google.com" {
		t.Errorf("referrer = %v", v.Referrer)
	}
}

func TestAnalyticsTrackMissingFields(t *testing.T) {
	r, _ := newAnalyticsTestServer(t)

	for _, payload := range []map[string]string{
		{"sessionId": "sess-1"},
		{"pageVisited": "/"},
		{},
	} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, jsonRequest(t, "POST", "/analytics/track", payload))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("payload %v: status = %d, want 400", payload, rr.Code)
		}
		body := decodeBody(t, rr)
		if body["message"] != "pageVisited and sessionId are required" {
			t.Errorf("message = %v", body["message"])
		}
	}
}

func TestAnalyticsSummary(t *testing.T) {
	r, visits := newAnalyticsTestServer(t)
	now := time.Now()

	// Two sessions: one browses two pages, one bounces
	seedVisits(t, visits, 1, "/", "s1", now.Add(-2*time.Hour))
	seedVisits(t, visits, 1, "/projects", "s1", now.Add(-1*time.Hour))
	seedVisits(t, visits, 1, "/", "s2", now.Add(-30*time.Minute))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/analytics/summary?days=30", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	body := decodeBody(t, rr)
	data := body["data"].(map[string]interface{})
	summary := data["summary"].(map[string]interface{})

	if summary["totalVisits"] != float64(3) {
		t.Errorf("totalVisits = %v, want 3", summary["totalVisits"])
	}
	if summary["uniqueSessions"] != float64(2) {
		t.Errorf("uniqueSessions = %v, want 2", summary["uniqueSessions"])
	}
	// One of two sessions bounced
	if summary["bounceRate"] != "50%" {
		t.Errorf("bounceRate = %v, want 50%%", summary["bounceRate"])
	}

	pages := data["popularPages"].([]interface{})
	if len(pages) != 2 {
		t.Fatalf("popularPages len = %d, want 2", len(pages))
	}
	top := pages[0].(map[string]interface{})
	if top["page"] != "/" || top["visits"] != float64(2) {
		t.Errorf("top page = %v, want / with 2 visits", top)
	}

	if len(data["dailyVisits"].([]interface{})) == 0 {
		t.Error("expected a daily series")
	}
}

func TestAnalyticsSummaryEmpty(t *testing.T) {
	r, _ := newAnalyticsTestServer(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/analytics/summary", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	body := decodeBody(t, rr)
	summary := body["data"].(map[string]interface{})["summary"].(map[string]interface{})
	if summary["totalVisits"] != float64(0) {
		t.Errorf("totalVisits = %v, want 0", summary["totalVisits"])
	}
	// No sessions means a zero bounce rate, not a division error
	if summary["bounceRate"] != "0%" {
		t.Errorf("bounceRate = %v, want 0%%", summary["bounceRate"])
	}
}

func TestAnalyticsVisitsPagination(t *testing.T) {
	r, visits := newAnalyticsTestServer(t)
	seedVisits(t, visits, 5, "/", "s1", time.Now().Add(-time.Hour))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/analytics/visits?page=2&limit=2", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["total"] != float64(5) || body["count"] != float64(2) {
		t.Errorf("total = %v, count = %v, want 5/2", body["total"], body["count"])
	}
	if body["page"] != float64(2) || body["totalPages"] != float64(3) {
		t.Errorf("page = %v, totalPages = %v, want 2/3", body["page"], body["totalPages"])
	}
}

func TestAnalyticsActive(t *testing.T) {
	r, visits := newAnalyticsTestServer(t)
	now := time.Now()

	seedVisits(t, visits, 1, "/old", "stale", now.Add(-time.Hour))
	seedVisits(t, visits, 2, "/", "live", now.Add(-2*time.Minute))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/analytics/active", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["activeCount"] != float64(1) {
		t.Errorf("activeCount = %v, want 1", body["activeCount"])
	}
}

func TestAnalyticsVisitorsCount(t *testing.T) {
	r, visits := newAnalyticsTestServer(t)
	now := time.Now()

	seedVisits(t, visits, 2, "/", "s1", now.Add(-time.Hour))
	seedVisits(t, visits, 1, "/", "s2", now.Add(-time.Minute))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/analytics/visitors", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["count"] != float64(2) {
		t.Errorf("count = %v, want 2 distinct sessions", body["count"])
	}
}

func TestAnalyticsCleanup(t *testing.T) {
	r, visits := newAnalyticsTestServer(t)
	now := time.Now()

	seedVisits(t, visits, 1, "/", "old", now.AddDate(0, 0, -100))
	seedVisits(t, visits, 1, "/", "fresh", now.Add(-time.Hour))

	// Default retention removes only the expired visit
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("DELETE", "/analytics/cleanup", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["deletedCount"] != float64(1) {
		t.Errorf("deletedCount = %v, want 1", body["deletedCount"])
	}

	// days=0 purges everything older than now
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("DELETE", "/analytics/cleanup?days=0", nil))
	body = decodeBody(t, rr)
	if body["deletedCount"] != float64(1) {
		t.Errorf("deletedCount = %v, want 1", body["deletedCount"])
	}

	_, total, err := visits.List(context.Background(), store.VisitFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0 after full cleanup", total)
	}
}
