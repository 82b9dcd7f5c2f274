package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/reedfamily/a2sbot/internal/auth"
)

type userContextKey struct{}

// AuthMiddleware requires a bearer token. Browsers cannot set headers on a
// websocket upgrade, so a token query parameter is accepted as well.
func AuthMiddleware(authSvc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := requestToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			user, err := authSvc.ValidateSession(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return h[7:]
	}
	return r.URL.Query().Get("token")
}

func userFrom(ctx context.Context) *auth.User {
	u, _ := ctx.Value(userContextKey{}).(*auth.User)
	return u
}
