package httpkit

import (
	"crypto/subtle"
	"net/http"
	"strings"

	perr "conflux/internal/platform/errors"
	"conflux/internal/platform/net/middleware"
)

// TokenPort implements middleware.AuthPort against one shared bearer token
type TokenPort struct {
	token     []byte
	principal string
}

// NewTokenPort returns a nil port for an empty token so Auth lets everything through
func NewTokenPort(token, principal string) middleware.AuthPort {
	if token == "" {
		return nil
	}
	if principal == "" {
		principal = "api"
	}
	return &TokenPort{token: []byte(token), principal: principal}
}

// Parse checks the Authorization bearer token in constant time
func (p *TokenPort) Parse(r *http.Request) (string, error) {
	raw, ok := bearer(r.Header.Get("Authorization"))
	if !ok {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	if subtle.ConstantTimeCompare([]byte(raw), p.token) != 1 {
		return "", perr.Unauthorizedf("invalid bearer token")
	}
	return p.principal, nil
}

// bearer extracts the token after a case insensitive "Bearer" scheme
func bearer(h string) (string, bool) {
	s := strings.TrimSpace(h)
	const prefix = "bearer"
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	raw := strings.TrimSpace(s[len(prefix):])
	return raw, raw != ""
}
