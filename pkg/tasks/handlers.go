package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/blogplatform/blog-in-go/pkg/cache"
	"github.com/blogplatform/blog-in-go/pkg/mail"
)

// Handler holds the worker-side dependencies for task processing.
type Handler struct {
	Sender mail.Sender
	Cache  *cache.Cache
}

// NewHandler creates a task handler.
func NewHandler(sender mail.Sender, responseCache *cache.Cache) *Handler {
	return &Handler{Sender: sender, Cache: responseCache}
}

// Mux returns an asynq mux with all task handlers registered.
func (h *Handler) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailDeliver, h.HandleEmailDeliver)
	mux.HandleFunc(TypeCacheInvalidate, h.HandleCacheInvalidate)
	return mux
}

// HandleEmailDeliver renders the template pair named in the payload and
// sends the result. Render failures are not retried; SMTP failures are.
func (h *Handler) HandleEmailDeliver(ctx context.Context, t *asynq.Task) error {
	var payload EmailDeliverPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("bad email payload: %v: %w", err, asynq.SkipRetry)
	}

	if h.Sender == nil {
		return fmt.Errorf("email delivery is not configured: %w", asynq.SkipRetry)
	}

	htmlBody, err := mail.RenderHTML(payload.Template+".html.tmpl", payload.Context)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	textBody, err := mail.RenderText(payload.Template+".txt.tmpl", payload.Context)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if err := h.Sender.Send(payload.SendTo, payload.Context.Subject, textBody, htmlBody); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", payload.SendTo, err)
	}

	log.Printf("tasks: delivered %s email to %s", payload.Template, payload.SendTo)
	return nil
}

// HandleCacheInvalidate drops every cached response in the payload's
// namespace.
func (h *Handler) HandleCacheInvalidate(ctx context.Context, t *asynq.Task) error {
	var payload CacheInvalidatePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("bad cache payload: %v: %w", err, asynq.SkipRetry)
	}

	removed, err := h.Cache.InvalidateNamespace(ctx, payload.Namespace)
	if err != nil {
		return fmt.Errorf("failed to invalidate namespace %s: %w", payload.Namespace, err)
	}

	if removed > 0 {
		log.Printf("tasks: invalidated %d cached entries in namespace %s", removed, payload.Namespace)
	}
	return nil
}
