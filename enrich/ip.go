package enrich

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts the originating client address: the first X-Forwarded-For
// entry when present (the server sits behind a proxy in production), falling
// back to the connection's remote address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return "Unknown"
	}
	return host
}
