// Package identity provides authenticated identity management for API
// requests.
//
// An Identity combines access token claims (user, scopes, expiry) with the
// database user they resolve to. It is stored on the request context by the
// authentication middleware and read back by endpoint handlers.
package identity
