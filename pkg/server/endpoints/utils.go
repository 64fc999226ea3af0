package endpoints

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/blogplatform/blog-in-go/pkg/identity"
	"github.com/blogplatform/blog-in-go/pkg/tasks"
)

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	// The original app's JSON responses are not HTML-escaped, so keep
	// `<`/`>` literal in the wire format (review finding F8).
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(bytes.TrimRight(buf.Bytes(), "\n"))
}

// respondNotFound is the shared not-found response for a subject ("user",
// "post", "category", "comment")
func respondNotFound(w http.ResponseWriter, sub string) {
	respondWithError(w, http.StatusNotFound,
		fmt.Sprintf("%s with passed id does not exists", capitalize(sub)))
}

// respondOwnership is the shared response for updates attempted by someone
// who is neither the owner nor a staff user
func respondOwnership(w http.ResponseWriter, sub string) {
	respondWithError(w, http.StatusForbidden,
		fmt.Sprintf("%s can be updated only by staff users or by its owner", capitalize(sub)))
}

// respondAlreadyExists is the shared duplicate response for a subject
func respondAlreadyExists(w http.ResponseWriter, sub string) {
	respondWithError(w, http.StatusBadRequest,
		fmt.Sprintf("%s already exists", capitalize(sub)))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// requireScope wraps a handler with a check that the authenticated identity
// was granted the scope
func requireScope(scope string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			http.Error(w, "Not authenticated", http.StatusUnauthorized)
			return
		}
		if !id.HasScope(scope) {
			respondWithError(w, http.StatusUnauthorized, "Not enough permissions")
			return
		}
		next(w, r)
	}
}

// enqueueCacheInvalidate schedules removal of every cached response in a
// namespace. Failures are logged, the write itself already succeeded.
func enqueueCacheInvalidate(client *asynq.Client, namespace string) {
	if client == nil {
		return
	}
	task, err := tasks.NewCacheInvalidateTask(namespace)
	if err != nil {
		log.Printf("failed to build cache invalidation task: %v", err)
		return
	}
	if _, err := client.Enqueue(task); err != nil {
		log.Printf("failed to enqueue cache invalidation for %s: %v", namespace, err)
	}
}
