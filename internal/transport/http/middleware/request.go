package middleware

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// GetClientIP extracts the client IP from a request, preferring proxy
// headers over the remote address.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// NormalizeURL normalizes a URL for consistent cache keys.
// It removes fragments and trailing slashes.
func NormalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	parsedURL.Fragment = ""
	normalized := parsedURL.String()

	if len(normalized) > 0 && normalized[len(normalized)-1] == '/' && parsedURL.Path != "/" {
		normalized = normalized[:len(normalized)-1]
	}

	return normalized
}
