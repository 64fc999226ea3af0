package endpoints

import (
	"net/http"
	"time"

	"github.com/blogplatform/blog-in-go/pkg/security"
	"github.com/blogplatform/blog-in-go/pkg/server"
	"github.com/blogplatform/blog-in-go/pkg/server/middleware"
	"github.com/blogplatform/blog-in-go/pkg/server/store"
)

// RegisterAuthEndpoints registers login and logout under /auth
func RegisterAuthEndpoints(s *server.Server) {
	authRouter := s.Router.PathPrefix(s.Config.APIPrefix() + "/auth").Subrouter()

	// POST /auth/login_with_token - Issue an access token from form credentials
	authRouter.HandleFunc("/login_with_token", handleLogin(s)).Methods("POST")

	// GET /auth/logout - Clear the CSRF cookie
	logoutRouter := authRouter.PathPrefix("/logout").Subrouter()
	logoutRouter.Use(s.TokenAuth.Middleware)
	logoutRouter.HandleFunc("", handleLogout()).Methods("GET")
}

func handleLogin(s *server.Server) http.HandlerFunc {
	usersStore := s.UsersStore
	cfg := s.Config

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed form data")
			return
		}

		username := r.PostFormValue("username")
		password := r.PostFormValue("password")
		if username == "" || password == "" {
			respondWithError(w, http.StatusBadRequest, "Username and password are required")
			return
		}

		user, err := usersStore.UserByUsername(username)
		if err != nil {
			if err == store.ErrUserNotFound {
				respondNotFound(w, "user")
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if !security.VerifyPassword(user.HashedPassword, password) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			respondWithError(w, http.StatusUnauthorized, "Incorrect password")
			return
		}

		if !user.IsActive {
			respondWithError(w, http.StatusBadRequest, "Inactive user")
			return
		}

		scopes := security.SplitScopes(r.PostFormValue("scope"))
		token, err := security.CreateAccessToken(cfg.SecretKey, user.Username, scopes, cfg.AccessTokenTTL())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		now := time.Now().UTC()
		if _, err = usersStore.UpdateUser(user.ID, map[string]interface{}{"last_login": now}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.CSRFCookieName,
			Value:    security.GenerateCSRFToken(32),
			Path:     "/",
			Expires:  now.Add(cfg.AccessTokenTTL()),
			SameSite: http.SameSiteLaxMode,
		})

		respondWithJSON(w, http.StatusOK, TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
		})
	}
}

func handleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:    middleware.CSRFCookieName,
			Value:   "",
			Path:    "/",
			MaxAge:  -1,
			Expires: time.Unix(0, 0),
		})
		respondWithJSON(w, http.StatusOK, map[string]string{"success": "Logged out successfully"})
	}
}
