package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studenthub/studenthub/internal/ideaservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// events may be nil; sseHandler, if non-nil, is mounted at GET /events
// inside the auth group.
func NewRouter(svc *ideaservice.Service, authEnabled bool, token string, events Publisher, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, events)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))
	r.Use(IdentityMiddleware)

	// Ideas CRUD.
	r.Get("/ideas", h.ListIdeas)
	r.Post("/ideas", h.CreateIdea)
	r.Put("/ideas/{id}/like", h.ToggleLike)
	r.Post("/ideas/{id}/comments", h.AddComment)
	r.Delete("/ideas/{id}", h.DeleteIdea)

	// Health check.
	r.Get("/health", h.Health)

	// SSE endpoint (protected by the same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
