package middleware

import (
	"context"
	"net/http"

	"github.com/uzeyirmammadli/catcare-sub001/internal/domain"
)

type ctxKey string

const actorKey ctxKey = "actor"

// Actor resolves the current user from the gateway identity headers and
// stores it on the request context. The gateway owns authentication; this
// API only consumes what it injected.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-User-ID")
		role := domain.Role(r.Header.Get("X-User-Role"))
		if !domain.ValidRole(role) {
			role = domain.RoleReporter
		}

		ctx := context.WithValue(r.Context(), actorKey, domain.Actor{ID: id, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects requests that arrived without an identity. Mounted on
// every mutating route.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok || actor.ID == "" {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"error":"authentication required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}
