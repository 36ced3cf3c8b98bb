package httpapi

import (
	"context"
	"net/http"
	"strings"

	"counseld/internal/access"
	"counseld/internal/apperr"
	"counseld/internal/auth"
)

type contextKey int

const actorKey contextKey = iota

// Authenticator verifies the Bearer token and stores the actor in the request
// context. Requests without a valid token are rejected.
func Authenticator(jwt *auth.JWT) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				respondError(w, apperr.New(apperr.Unauthorized, "missing bearer token"))
				return
			}
			actor, err := jwt.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respondError(w, apperr.New(apperr.Unauthorized, "invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// actorFrom returns the authenticated actor attached by Authenticator.
func actorFrom(r *http.Request) (access.Actor, bool) {
	actor, ok := r.Context().Value(actorKey).(access.Actor)
	return actor, ok
}
