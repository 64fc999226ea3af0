// Package main implements blogctl, the CLI for the blog platform server.
//
// The blog platform is a REST API for publishing posts with categories and
// tags, commenting and rating comments, and managing user accounts with
// email activation.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/server/store: Storage abstractions and GORM implementations
//   - pkg/security: Password hashing, access tokens, activation tokens
//   - pkg/model: Database models
//   - pkg/db: Database connection utilities
//   - pkg/cache: Redis response cache
//   - pkg/tasks: Background tasks (email delivery, cache invalidation)
//   - pkg/mail: Email rendering and SMTP delivery
//   - pkg/config: Configuration management
//
// # Quick Start
//
// The server is run via the blogctl CLI:
//
//	# Run database migrations
//	blogctl db migrate
//
//	# Create the admin user
//	blogctl user create admin --email admin@example.com --admin
//
//	# Start the server and the task worker
//	blogctl server
//	blogctl worker
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - SECRET_KEY: Key for signing access tokens
//   - SECRET_KEY_TOKEN_GENERATOR: Key for activation/reset tokens
//   - REDIS_URL: Redis connection URL for cache and task queue
//   - BLOG_LOG_LEVEL: Log level (debug enables SQL logging)
//   - PORT: Server port (default: 8000)
//
// For more information, see https://github.com/blogplatform/blog-in-go
package main
