package cache

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a Redis backed response cache for GET endpoints. Entries are
// keyed by namespace so a write to a table can invalidate every cached
// response derived from it. A nil Cache is valid and disables caching.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and returns a response cache with the given entry
// TTL.
func New(redisURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &Cache{client: redis.NewClient(opts), ttl: ttl}, nil
}

// Key builds a cache key from a namespace and request attributes. Query
// parameters are sorted so equivalent requests share an entry.
//
// Example: posts:get:/api/v1/posts/read_all:limit=100&skip=0
func Key(namespace, method, path string, query url.Values) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, v := range query[k] {
			pairs = append(pairs, k+"="+v)
		}
	}

	return strings.Join(
		[]string{namespace, strings.ToLower(method), path, strings.Join(pairs, "&")},
		":",
	)
}

// Get fetches a cached response body. Misses and Redis errors both report
// a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set stores a response body under key. Errors are logged and swallowed so
// an unreachable Redis never fails a request.
func (c *Cache) Set(ctx context.Context, key string, value []byte) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		log.Printf("cache: failed to store %s: %v", key, err)
	}
}

// InvalidateNamespace removes every cached entry in a namespace and returns
// the number of removed keys.
func (c *Cache) InvalidateNamespace(ctx context.Context, namespace string) (int, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}

	var removed int
	iter := c.client.Scan(ctx, 0, namespace+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, iter.Err()
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// bodyRecorder captures a handler's response so it can be cached
type bodyRecorder struct {
	http.ResponseWriter
	status int
	body   []byte
}

func (r *bodyRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body = append(r.body, b...)
	return r.ResponseWriter.Write(b)
}

// Handler wraps a GET handler with read-through caching in a namespace.
// Only 200 responses are cached; cached responses are served as JSON.
func (c *Cache) Handler(namespace string, next http.HandlerFunc) http.HandlerFunc {
	if c == nil || c.client == nil {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request) {
		key := Key(namespace, r.Method, r.URL.Path, r.URL.Query())

		if body, ok := c.Get(r.Context(), key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			_, _ = w.Write(body)
			return
		}

		recorder := &bodyRecorder{ResponseWriter: w, status: http.StatusOK}
		next(recorder, r)

		if recorder.status == http.StatusOK {
			c.Set(r.Context(), key, recorder.body)
		}
	}
}
