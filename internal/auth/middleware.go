package auth

import (
	"context"
	"net/http"

	"github.com/petermazzocco/renovation-portal/internal/access"
	"github.com/petermazzocco/renovation-portal/internal/utils"
)

type ctxKey struct{}

// RequireUser rejects anonymous requests and puts the session's actor in
// the request context.
func RequireUser(s *Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := s.Actor(r)
			if !ok {
				utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Please log in to access this page.", nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func WithActor(ctx context.Context, a access.Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// ActorFrom returns the actor set by RequireUser, or the zero Actor.
func ActorFrom(ctx context.Context) access.Actor {
	a, _ := ctx.Value(ctxKey{}).(access.Actor)
	return a
}
