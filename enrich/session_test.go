package enrich

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSessionIDIssuesCookie(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()

	id := SessionID(rr, req, 30*time.Minute, false)
	if id == "" {
		t.Fatal("expected a generated session id")
	}

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != SessionCookieName || c.Value != id {
		t.Errorf("cookie = %s=%s, want %s=%s", c.Name, c.Value, SessionCookieName, id)
	}
	if !c.HttpOnly {
		t.Error("cookie should be httpOnly")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", c.SameSite)
	}
	if c.MaxAge != int((30 * time.Minute).Seconds()) {
		t.Errorf("MaxAge = %d, want 1800", c.MaxAge)
	}
	if c.Secure {
		t.Error("cookie should not be secure when secure=false")
	}
}

func TestSessionIDReusesExistingCookie(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "existing-session"})
	rr := httptest.NewRecorder()

	id := SessionID(rr, req, 30*time.Minute, false)
	if id != "existing-session" {
		t.Errorf("id = %q, want existing-session", id)
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Error("no new cookie should be set when one already exists")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"Remote address only", "203.0.113.9:4711", "", "203.0.113.9"},
		{"Forwarded header wins", "10.0.0.1:80", "198.51.100.7", "198.51.100.7"},
		{"First forwarded entry", "10.0.0.1:80", "198.51.100.7, 10.0.0.2, 10.0.0.3", "198.51.100.7"},
		{"Remote address without port", "203.0.113.9", "", "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
