// Package clientip resolves the identifier used to key rate-limit accounting.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Unknown is the shared bucket for clients with no resolvable address.
const Unknown = "unknown"

// FromRequest returns the client identifier for a request: the first entry of
// X-Forwarded-For if present, else the peer address, else "unknown". Both
// transport adapters must resolve identifiers through here so the same caller
// always lands in the same bucket.
func FromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}

	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}

	return Unknown
}
