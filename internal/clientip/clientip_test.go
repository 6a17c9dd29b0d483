package clientip

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name         string
		forwardedFor string
		remoteAddr   string
		want         string
	}{
		{
			name:         "forwarded-for single value",
			forwardedFor: "1.2.3.4",
			remoteAddr:   "10.0.0.9:54321",
			want:         "1.2.3.4",
		},
		{
			name:         "forwarded-for takes first entry",
			forwardedFor: "1.2.3.4, 5.6.7.8, 9.10.11.12",
			remoteAddr:   "10.0.0.9:54321",
			want:         "1.2.3.4",
		},
		{
			name:         "forwarded-for entries are trimmed",
			forwardedFor: "  1.2.3.4 ,5.6.7.8",
			remoteAddr:   "10.0.0.9:54321",
			want:         "1.2.3.4",
		},
		{
			name:       "falls back to peer address host",
			remoteAddr: "10.0.0.9:54321",
			want:       "10.0.0.9",
		},
		{
			name:       "peer address without port",
			remoteAddr: "10.0.0.9",
			want:       "10.0.0.9",
		},
		{
			name: "unknown when nothing resolvable",
			want: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwardedFor != "" {
				req.Header.Set("X-Forwarded-For", tt.forwardedFor)
			}

			assert.Equal(t, tt.want, FromRequest(req))
		})
	}
}
