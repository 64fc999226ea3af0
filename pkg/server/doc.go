// Package server provides the HTTP server for the blog API.
//
// This package implements the core HTTP server that handles all blog REST API
// requests. It uses gorilla/mux for routing and provides middleware for
// authentication and request handling.
//
// # Server Setup
//
//	srv := server.NewServer(cfg, db, responseCache, taskClient, "0.0.0.0", "8000")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Config: Runtime configuration
//   - DB: Database connection
//   - Cache: Redis response cache
//   - Tasks: Background task client for email delivery and cache invalidation
//   - Stores: Database access for users, posts, categories and comments
//   - TokenAuth: Bearer access token validation
//   - CSRF: Double-submit cookie verification for mutating requests
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//	endpoints.RegisterAll(srv)
//
// This registers all blog API endpoints under the versioned prefix including:
//
//   - /api/v1/auth/login_with_token - Password login
//   - /api/v1/users - Account registration, activation and management
//   - /api/v1/posts - Post CRUD with category filtering and sorting
//   - /api/v1/postscategories - Category management
//   - /api/v1/comments - Comment CRUD and like/dislike rating
//   - /health - Database connectivity check
package server
