// Package httptransport is the thin HTTP layer. It verifies and parses
// interaction webhooks, delegates to the vouch service, and keeps transport
// concerns out of the domain.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/requestcontext"
)

// NewRouter wires all public endpoints.
func NewRouter(h *WebhookHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestMetadata)

	r.Get("/", h.HandleHello)
	r.Post("/", h.HandleInteraction)
	r.Get("/healthz", h.HandleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// requestMetadata stamps each request with an id and arrival time for
// logging and request-scoped clock reads.
func requestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithRequestID(r.Context(), uuid.NewString())
		ctx = requestcontext.WithTime(ctx, requestcontext.Now(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
