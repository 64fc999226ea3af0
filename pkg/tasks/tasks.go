// Package tasks defines the background task types exchanged between the API
// server and the worker over Redis, and the worker-side handlers for them.
package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/blogplatform/blog-in-go/pkg/mail"
)

// Task type names. The server enqueues these; the worker consumes them.
const (
	TypeEmailDeliver    = "email:deliver"
	TypeCacheInvalidate = "cache:invalidate"
)

// Email template base names, resolved to .html.tmpl/.txt.tmpl pairs by the
// worker.
const (
	TemplateAccountActivation = "account_activation"
	TemplatePasswordReset     = "password_reset"
)

// EmailDeliverPayload asks the worker to render a template pair and send
// the result to a single recipient.
type EmailDeliverPayload struct {
	Template string       `json:"template"`
	SendTo   string       `json:"send_to"`
	Context  mail.Context `json:"context"`
}

// NewEmailDeliverTask builds an email delivery task.
func NewEmailDeliverTask(payload EmailDeliverPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal email payload: %w", err)
	}
	return asynq.NewTask(
		TypeEmailDeliver,
		data,
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
	), nil
}

// CacheInvalidatePayload asks the worker to drop every cached response in
// a namespace after a write to the corresponding table.
type CacheInvalidatePayload struct {
	Namespace string `json:"namespace"`
}

// NewCacheInvalidateTask builds a cache invalidation task.
func NewCacheInvalidateTask(namespace string) (*asynq.Task, error) {
	data, err := json.Marshal(CacheInvalidatePayload{Namespace: namespace})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cache payload: %w", err)
	}
	return asynq.NewTask(
		TypeCacheInvalidate,
		data,
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	), nil
}

// NewClient creates an asynq client for enqueueing tasks.
func NewClient(redisURL string) (*asynq.Client, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return asynq.NewClient(opt), nil
}
