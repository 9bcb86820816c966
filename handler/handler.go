// Package handler wires the HTTP endpoints to the store layer: request
// validation, the {success, ...} JSON envelope, and the error taxonomy
// (400 validation, 404 missing entity, 429 rate limited, 503 store down,
// 500 everything else).
package handler

import (
	"net/http"
	"strconv"
	"time"
)

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// queryDate reads a date-bound query parameter. Accepts RFC 3339 and plain
// YYYY-MM-DD. A zero time means the parameter was absent or unparseable.
func queryDate(r *http.Request, name string) time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t
	}
	return time.Time{}
}

func totalPages(total int64, limit int) int64 {
	if limit < 1 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
