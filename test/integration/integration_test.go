package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogplatform/blog-in-go/pkg/model"
	"github.com/blogplatform/blog-in-go/pkg/security"
)

func TestBlogAPI(t *testing.T) {
	// Skip if not running integration tests
	if os.Getenv("INTEGRATION_TEST") == "" {
		t.Skip("Skipping integration tests. Set INTEGRATION_TEST=1 to run.")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tc, err := NewTestContext(ctx)
	require.NoError(t, err)
	defer tc.Close(ctx)

	t.Run("Health", func(t *testing.T) { testHealth(t, tc) })
	t.Run("SignupAndLogin", func(t *testing.T) { testSignupAndLogin(t, tc) })
	t.Run("PostLifecycle", func(t *testing.T) { testPostLifecycle(t, tc) })
	t.Run("CommentsAndRatings", func(t *testing.T) { testCommentsAndRatings(t, tc) })
	t.Run("Ownership", func(t *testing.T) { testOwnership(t, tc) })
}

func testHealth(t *testing.T, tc *TestContext) {
	status, body := tc.get(t, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func testSignupAndLogin(t *testing.T, tc *TestContext) {
	status, body := tc.postJSON(t, tc.APIPrefix+"/users/create", "", map[string]interface{}{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "wonderland",
	})
	require.Equal(t, http.StatusCreated, status, "create response: %v", body)
	assert.Equal(t, "alice", body["username"])

	// Accounts start inactive and cannot log in
	status, body = tc.login(t, "alice", "wonderland", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Inactive user", body["error"])

	tc.activate(t, "alice")

	status, body = tc.login(t, "alice", "wonderland", "")
	require.Equal(t, http.StatusOK, status, "login response: %v", body)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, "bearer", body["token_type"])

	status, body = tc.get(t, tc.APIPrefix+"/users/me", token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "alice@example.com", body["email"])

	// Wrong password is rejected
	status, body = tc.login(t, "alice", "through-the-looking-glass", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Incorrect password", body["error"])
}

func testPostLifecycle(t *testing.T, tc *TestContext) {
	admin := tc.createActiveUser(t, "admin-poster", model.RoleAdmin)
	adminToken := tc.mustLogin(t, admin, "category:create post:create post:read post:update post:delete")

	status, body := tc.postJSON(t, tc.APIPrefix+"/posts/categories/create", adminToken, map[string]interface{}{
		"name": "golang",
	})
	require.Equal(t, http.StatusCreated, status, "category response: %v", body)
	assert.Equal(t, "golang", body["name"])

	status, body = tc.postJSON(t, tc.APIPrefix+"/posts/create", adminToken, map[string]interface{}{
		"title":    "Testing in production",
		"body":     "Some **bold** advice.",
		"tags":     []string{"testing", "advice"},
		"category": "golang",
	})
	require.Equal(t, http.StatusCreated, status, "post response: %v", body)
	assert.Contains(t, body["body"], "<strong>bold</strong>")
	postID := int(body["id"].(float64))

	// Duplicate titles are rejected
	status, body = tc.postJSON(t, tc.APIPrefix+"/posts/create", adminToken, map[string]interface{}{
		"title":    "Testing in production",
		"body":     "again",
		"category": "golang",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = tc.get(t, fmt.Sprintf("%s/posts/read/%d", tc.APIPrefix, postID), "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Testing in production", body["title"])

	status, _ = tc.putJSON(t, fmt.Sprintf("%s/posts/update/%d", tc.APIPrefix, postID), adminToken, map[string]interface{}{
		"title": "Testing in production, revisited",
		"body":  "Some **bold** advice.",
	})
	require.Equal(t, http.StatusOK, status)

	status, body = tc.get(t, fmt.Sprintf("%s/posts/read/%d", tc.APIPrefix, postID), "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Testing in production, revisited", body["title"])

	resp := tc.do(t, "DELETE", fmt.Sprintf("%s/posts/delete/%d", tc.APIPrefix, postID), adminToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	status, body = tc.get(t, fmt.Sprintf("%s/posts/read/%d", tc.APIPrefix, postID), "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body["error"], "does not exists")
}

func testCommentsAndRatings(t *testing.T, tc *TestContext) {
	author := tc.createActiveUser(t, "comment-author", model.RoleAdmin)
	authorToken := tc.mustLogin(t, author, "category:create post:create comment:create comment:rate comment:read")

	_, _ = tc.postJSON(t, tc.APIPrefix+"/posts/categories/create", authorToken, map[string]interface{}{
		"name": "reviews",
	})
	status, body := tc.postJSON(t, tc.APIPrefix+"/posts/create", authorToken, map[string]interface{}{
		"title":    "A post worth commenting on",
		"body":     "content",
		"category": "reviews",
	})
	require.Equal(t, http.StatusCreated, status, "post response: %v", body)
	postID := int(body["id"].(float64))

	status, body = tc.postJSON(t, fmt.Sprintf("%s/posts/comments/create/%d", tc.APIPrefix, postID), authorToken, map[string]interface{}{
		"body": "first!",
	})
	require.Equal(t, http.StatusCreated, status, "comment response: %v", body)
	commentID := int(body["id"].(float64))

	status, body = tc.postJSON(t, fmt.Sprintf("%s/posts/comments/like/%d", tc.APIPrefix, commentID), authorToken, nil)
	require.Equal(t, http.StatusOK, status, "like response: %v", body)
	likes, _ := body["likes"].([]interface{})
	assert.Len(t, likes, 1)

	// Liking again retracts the rating
	status, body = tc.postJSON(t, fmt.Sprintf("%s/posts/comments/like/%d", tc.APIPrefix, commentID), authorToken, nil)
	require.Equal(t, http.StatusOK, status)
	likes, _ = body["likes"].([]interface{})
	assert.Len(t, likes, 0)

	status, body = tc.postJSON(t, fmt.Sprintf("%s/posts/comments/upvote/%d", tc.APIPrefix, commentID), authorToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "Action is either like or dislike")
}

func testOwnership(t *testing.T, tc *TestContext) {
	owner := tc.createActiveUser(t, "post-owner", model.RoleRegularUser)
	intruder := tc.createActiveUser(t, "post-intruder", model.RoleRegularUser)

	ownerToken := tc.mustLogin(t, owner, "category:create post:create post:update")
	intruderToken := tc.mustLogin(t, intruder, "post:update")

	_, _ = tc.postJSON(t, tc.APIPrefix+"/posts/categories/create", tc.mustLogin(t, tc.createActiveUser(t, "ownership-admin", model.RoleAdmin), "category:create"), map[string]interface{}{
		"name": "territorial",
	})
	status, body := tc.postJSON(t, tc.APIPrefix+"/posts/create", ownerToken, map[string]interface{}{
		"title":    "Hands off",
		"body":     "mine",
		"category": "territorial",
	})
	require.Equal(t, http.StatusCreated, status, "post response: %v", body)
	postID := int(body["id"].(float64))

	status, body = tc.putJSON(t, fmt.Sprintf("%s/posts/update/%d", tc.APIPrefix, postID), intruderToken, map[string]interface{}{
		"title": "Mine now",
		"body":  "mine",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, body["error"], "staff users or by its owner")
}

// ---- helpers ----

// createActiveUser inserts an activated account directly into the database.
// The password is always "password".
func (tc *TestContext) createActiveUser(t *testing.T, username, role string) string {
	t.Helper()

	hash, err := security.HashPassword("password")
	require.NoError(t, err)

	user := &model.User{
		Username:       username,
		Email:          username + "@example.com",
		Role:           role,
		HashedPassword: hash,
		IsActive:       true,
	}
	require.NoError(t, tc.DB.Create(user).Error)
	return username
}

// activate flips the is_active flag directly, standing in for the emailed
// activation link.
func (tc *TestContext) activate(t *testing.T, username string) {
	t.Helper()
	err := tc.DB.Model(&model.User{}).Where("username = ?", username).Update("is_active", true).Error
	require.NoError(t, err)
}

func (tc *TestContext) login(t *testing.T, username, password, scope string) (int, map[string]interface{}) {
	t.Helper()

	form := url.Values{"username": {username}, "password": {password}}
	if scope != "" {
		form.Set("scope", scope)
	}

	resp, err := tc.HTTPClient.PostForm(tc.ServerURL+tc.APIPrefix+"/auth/login_with_token", form)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode, decodeBody(t, resp.Body)
}

func (tc *TestContext) mustLogin(t *testing.T, username, scope string) string {
	t.Helper()

	status, body := tc.login(t, username, "password", scope)
	require.Equal(t, http.StatusOK, status, "login response: %v", body)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (tc *TestContext) do(t *testing.T, method, path, token string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, tc.ServerURL+path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := tc.HTTPClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (tc *TestContext) get(t *testing.T, path, token string) (int, map[string]interface{}) {
	t.Helper()
	resp := tc.do(t, "GET", path, token, nil)
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode, decodeBody(t, resp.Body)
}

func (tc *TestContext) postJSON(t *testing.T, path, token string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()
	resp := tc.do(t, "POST", path, token, payload)
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode, decodeBody(t, resp.Body)
}

func (tc *TestContext) putJSON(t *testing.T, path, token string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()
	resp := tc.do(t, "PUT", path, token, payload)
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode, decodeBody(t, resp.Body)
}

func decodeBody(t *testing.T, r io.Reader) map[string]interface{} {
	t.Helper()

	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		// Non-JSON bodies (e.g. HTML status page) come back under "raw"
		return map[string]interface{}{"raw": string(raw)}
	}
	return body
}
