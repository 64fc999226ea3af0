package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/blogplatform/blog-in-go/pkg/config"
	"github.com/blogplatform/blog-in-go/pkg/identity"
	"github.com/blogplatform/blog-in-go/pkg/security"
	"github.com/blogplatform/blog-in-go/pkg/server/store"
)

// TokenAuthenticator is middleware that validates bearer access tokens
type TokenAuthenticator struct {
	cfg   *config.BlogConfig
	users store.UsersStore
}

// NewTokenAuthenticator creates a new access token middleware
func NewTokenAuthenticator(cfg *config.BlogConfig, users store.UsersStore) *TokenAuthenticator {
	return &TokenAuthenticator{cfg: cfg, users: users}
}

// Middleware returns an HTTP middleware that validates access tokens and
// resolves the token subject to an active user.
func (a *TokenAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "Malformed authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := security.ParseAccessToken(a.cfg.SecretKey, tokenStr)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "Could not validate credentials", http.StatusUnauthorized)
			return
		}

		user, err := a.users.UserByUsername(claims.Subject)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "Could not validate credentials", http.StatusUnauthorized)
			return
		}

		if !user.IsActive {
			http.Error(w, "Inactive user", http.StatusBadRequest)
			return
		}

		id := identity.FromUser(user, claims.Scopes)
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			id = id.WithRemoteIP(net.ParseIP(host))
		}

		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}
