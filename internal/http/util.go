package httpx

import (
	"net"
	"net/http"
	"strings"
)

// clientIP returns the best-effort client address for audit metadata.
// X-Forwarded-For's first hop wins when present; otherwise the connection's
// remote address with the port stripped.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
