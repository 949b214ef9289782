package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/studenthub/studenthub/internal/apperr"
	"github.com/studenthub/studenthub/internal/ideaservice"
	"github.com/studenthub/studenthub/internal/sse"
)

// Publisher broadcasts post mutation events to connected SSE clients.
type Publisher interface {
	PublishPostEvent(kind string, id int)
}

// Handler holds API route handlers.
type Handler struct {
	svc    *ideaservice.Service
	events Publisher
}

// NewHandler creates a new Handler. events may be nil to disable broadcasts.
func NewHandler(svc *ideaservice.Service, events Publisher) *Handler {
	return &Handler{svc: svc, events: events}
}

func (h *Handler) publish(kind string, id int) {
	if h.events != nil {
		h.events.PublishPostEvent(kind, id)
	}
}

// ideaID extracts the integer id from the URL.
func ideaID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

// ListIdeas handles GET /api/ideas.
func (h *Handler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.List(r.Context())
	if err != nil {
		slog.Error("list ideas failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Error fetching ideas")
		return
	}
	writeData(w, http.StatusOK, posts, "Ideas fetched successfully")
}

// CreateIdea handles POST /api/ideas.
func (h *Handler) CreateIdea(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	post, err := h.svc.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			writeError(w, http.StatusBadRequest, "Title and description are required")
			return
		}
		slog.Error("create idea failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Error creating idea")
		return
	}
	h.publish(sse.KindCreated, post.ID)
	writeData(w, http.StatusCreated, post, "Idea created successfully")
}

// ToggleLike handles PUT /api/ideas/{id}/like.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, err := ideaID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Idea not found")
		return
	}
	post, err := h.svc.ToggleLike(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Idea not found")
			return
		}
		slog.Error("toggle like failed", slog.Int("id", id), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Error updating like status")
		return
	}
	h.publish(sse.KindLiked, post.ID)
	writeData(w, http.StatusOK, post, "Like status updated successfully")
}

// AddComment handles POST /api/ideas/{id}/comments.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := ideaID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Idea not found")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	comment, err := h.svc.AddComment(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrValidation):
			writeError(w, http.StatusBadRequest, "Comment text is required")
		case errors.Is(err, apperr.ErrNotFound):
			writeError(w, http.StatusNotFound, "Idea not found")
		default:
			slog.Error("add comment failed", slog.Int("id", id), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "Error adding comment")
		}
		return
	}
	h.publish(sse.KindCommented, id)
	writeData(w, http.StatusCreated, comment, "Comment added successfully")
}

// DeleteIdea handles DELETE /api/ideas/{id}.
func (h *Handler) DeleteIdea(w http.ResponseWriter, r *http.Request) {
	id, err := ideaID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Idea not found")
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeError(w, http.StatusNotFound, "Idea not found")
		case errors.Is(err, apperr.ErrForbidden):
			writeError(w, http.StatusForbidden, "You can only delete your own posts")
		default:
			slog.Error("delete idea failed", slog.Int("id", id), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "Error deleting idea")
		}
		return
	}
	h.publish(sse.KindDeleted, id)
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Idea deleted successfully"})
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Success:   true,
		Message:   "StudentHub API is running!",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
