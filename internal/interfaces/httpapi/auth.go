package httpapi

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/tournament-engine/internal/usecase"
)

const internalTokenHeader = "X-Internal-Token"

// RequireInternalToken guards state-changing routes. The token comes from
// X-Internal-Token or an Authorization bearer. An unset token rejects every
// request with 503 rather than leaving writes open.
func RequireInternalToken(token string, next http.Handler) http.Handler {
	expected := []byte(strings.TrimSpace(token))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(expected) == 0 {
			writeError(r.Context(), w, fmt.Errorf("%w: internal api token is not configured", usecase.ErrDependencyUnavailable))
			return
		}
		provided := presentedToken(r)
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
			writeError(r.Context(), w, fmt.Errorf("%w: invalid internal api token", usecase.ErrUnauthorized))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func presentedToken(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(internalTokenHeader)); v != "" {
		return v
	}
	scheme, value, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(value)
}
