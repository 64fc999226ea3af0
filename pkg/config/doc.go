// Package config provides configuration management for the blog platform.
//
// Configuration is loaded from a YAML file (blog.yml) and overridden by
// environment variables, with per-attribute source tracking.
//
// # Key Configuration Options
//
//   - DATABASE_URL: Database connection (read by pkg/db)
//   - SECRET_KEY: Access token signing key
//   - SECRET_KEY_TOKEN_GENERATOR: Activation/reset token key
//   - REDIS_URL: Redis connection for cache and task queue
//   - DOMAIN: Public hostname for absolute URLs
//   - PORT: Server listen port
package config
