package auth

import (
	"net/http"
	"strings"
)

// ExtractBearerToken pulls the bearer token out of the Authorization header,
// returning an empty string when none is present.
func ExtractBearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
