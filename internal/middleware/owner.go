package middleware

import (
	"context"
	"net/http"
	"strings"
)

const ownerIDKey contextKey = "owner_id"

// Owner extracts the requesting user's id from the X-User-ID header set by
// the authentication layer in front of this service. Authentication itself
// is an external collaborator; this service only consumes its result.
func Owner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := strings.TrimSpace(r.Header.Get("X-User-ID"))
		if owner != "" {
			r = r.WithContext(context.WithValue(r.Context(), ownerIDKey, owner))
		}
		next.ServeHTTP(w, r)
	})
}

// OwnerFromContext returns the requesting user's id, or "" when the
// request carried none.
func OwnerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ownerIDKey).(string); ok {
		return v
	}
	return ""
}
