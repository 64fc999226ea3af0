package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogplatform/blog-in-go/pkg/config"
	"github.com/blogplatform/blog-in-go/pkg/identity"
	"github.com/blogplatform/blog-in-go/pkg/model"
	"github.com/blogplatform/blog-in-go/pkg/security"
	"github.com/blogplatform/blog-in-go/pkg/server/store"
)

type fakeUsersStore struct {
	store.UsersStore
	users map[string]*model.User
}

func (f *fakeUsersStore) UserByUsername(username string) (*model.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func testAuthenticator(users ...*model.User) *TokenAuthenticator {
	byName := make(map[string]*model.User)
	for _, u := range users {
		byName[u.Username] = u
	}
	cfg := &config.BlogConfig{SecretKey: "test-secret"}
	return NewTokenAuthenticator(cfg, &fakeUsersStore{users: byName})
}

func okHandler(captured **identity.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := identity.Get(r.Context()); ok {
			*captured = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestTokenAuthenticatorMissingHeader(t *testing.T) {
	auth := testAuthenticator()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	auth.Middleware(okHandler(new(*identity.Identity))).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
}

func TestTokenAuthenticatorMalformedHeader(t *testing.T) {
	auth := testAuthenticator()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Token abcdef")
	auth.Middleware(okHandler(new(*identity.Identity))).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestTokenAuthenticatorBadToken(t *testing.T) {
	auth := testAuthenticator()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	auth.Middleware(okHandler(new(*identity.Identity))).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestTokenAuthenticatorInactiveUser(t *testing.T) {
	auth := testAuthenticator(&model.User{ID: 1, Username: "dormant", IsActive: false})

	token, err := security.CreateAccessToken("test-secret", "dormant", security.SplitScopes(""), time.Minute)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	auth.Middleware(okHandler(new(*identity.Identity))).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTokenAuthenticatorSetsIdentity(t *testing.T) {
	auth := testAuthenticator(&model.User{ID: 1, Username: "alice", Role: model.RoleAdmin, IsActive: true})

	token, err := security.CreateAccessToken("test-secret", "alice", []string{"me:read", "post:create"}, time.Minute)
	require.NoError(t, err)

	var id *identity.Identity
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	auth.Middleware(okHandler(&id)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, id)
	assert.Equal(t, "alice", id.User.Username)
	assert.True(t, id.HasScope("post:create"))
	assert.False(t, id.HasScope("user:manage"))
	assert.True(t, id.IsStaff())
}

func TestTokenAuthenticatorUnknownUser(t *testing.T) {
	auth := testAuthenticator()

	token, err := security.CreateAccessToken("test-secret", "ghost", nil, time.Minute)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	auth.Middleware(okHandler(new(*identity.Identity))).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
