package enrich

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SessionCookieName is the cookie carrying the visitor's session identifier
const SessionCookieName = "sessionId"

// SessionID returns the visitor's session id from the tracking cookie, or
// issues a fresh one. New cookies are httpOnly with SameSite=Lax and expire
// after ttl; secure should be true in production.
func SessionID(w http.ResponseWriter, r *http.Request, ttl time.Duration, secure bool) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	sessionID := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessionID
}
