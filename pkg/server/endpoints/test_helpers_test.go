package endpoints

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/blogplatform/blog-in-go/pkg/cache"
	"github.com/blogplatform/blog-in-go/pkg/config"
	"github.com/blogplatform/blog-in-go/pkg/security"
	"github.com/blogplatform/blog-in-go/pkg/server"
	"github.com/blogplatform/blog-in-go/pkg/server/middleware"
)

const testSecretKey = "test-secret-key"

type testStores struct {
	users      *MockUsersStore
	posts      *MockPostsStore
	categories *MockCategoriesStore
	comments   *MockCommentsStore
	health     *MockHealthStore
}

// newTestServer builds a server backed by mock stores and registers all
// endpoints on it
func newTestServer(t *testing.T) (*server.Server, *testStores) {
	t.Helper()
	return newTestServerWithCache(t, nil)
}

// newTestServerWithCache is newTestServer with a live response cache
func newTestServerWithCache(t *testing.T, responseCache *cache.Cache) (*server.Server, *testStores) {
	t.Helper()

	stores := &testStores{
		users:      &MockUsersStore{},
		posts:      &MockPostsStore{},
		categories: &MockCategoriesStore{},
		comments:   &MockCommentsStore{},
		health:     &MockHealthStore{},
	}

	cfg := &config.BlogConfig{
		Domain:                   "testserver",
		APIVersion:               1,
		SecretKey:                testSecretKey,
		ActivationSecretKey:      "test-activation-secret",
		AccessTokenExpireMinutes: 15,
		AccountTokenTimeout:      120,
		APIListLimitMax:          100,
		StaticDir:                t.TempDir(),
	}

	s := &server.Server{
		Router: mux.NewRouter().UseEncodedPath(),
		Config: cfg,
		Cache:  responseCache,

		UsersStore:      stores.users,
		PostsStore:      stores.posts,
		CategoriesStore: stores.categories,
		CommentsStore:   stores.comments,
		HealthStore:     stores.health,

		TokenAuth: middleware.NewTokenAuthenticator(cfg, stores.users),
		CSRF:      middleware.NewCSRFGuard(),
	}

	RegisterAll(s)
	return s, stores
}

func encodeRaw(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

// issueToken creates a signed access token for tests
func issueToken(t *testing.T, username string, scopes []string) string {
	t.Helper()
	token, err := security.CreateAccessToken(testSecretKey, username, scopes, time.Minute)
	require.NoError(t, err)
	return token
}
