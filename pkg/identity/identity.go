package identity

import (
	"context"
	"net"

	"github.com/blogplatform/blog-in-go/pkg/model"
	"github.com/blogplatform/blog-in-go/pkg/security"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the authenticated identity for a request.
type Identity struct {
	// User is the database user the access token resolved to
	User *model.User

	// Scopes granted to the access token
	Scopes []string

	// RemoteIP is the client IP address
	RemoteIP net.IP
}

// FromUser creates an Identity for a user with granted scopes.
func FromUser(user *model.User, scopes []string) *Identity {
	return &Identity{
		User:   user,
		Scopes: scopes,
	}
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// HasScope reports whether the identity was granted a scope.
func (i *Identity) HasScope(scope string) bool {
	return security.HasScope(i.Scopes, scope)
}

// IsStaff reports whether the identity belongs to an admin or moderator.
func (i *Identity) IsStaff() bool {
	return i.User != nil && i.User.IsStaff()
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
