package endpoints

import (
	"net/http"

	"github.com/blogplatform/blog-in-go/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	// Double-submit CSRF check on every mutating request that carries the
	// csrf cookie
	srv.Router.Use(srv.CSRF.Middleware)

	RegisterAuthEndpoints(srv)
	RegisterUsersEndpoints(srv)
	RegisterPostsEndpoints(srv)
	RegisterCommentsEndpoints(srv)
	RegisterStatusEndpoints(srv)

	// Uploaded files (user images)
	RegisterStaticFiles(srv)
}

// RegisterStaticFiles serves uploaded files from the configured static
// directory.
func RegisterStaticFiles(srv *server.Server) {
	srv.Router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir(srv.Config.StaticDir))),
	)

	srv.Router.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
}
