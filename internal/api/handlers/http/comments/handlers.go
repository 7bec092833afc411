package comments

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/uzeyirmammadli/catcare-sub001/internal/domain"
	"github.com/uzeyirmammadli/catcare-sub001/internal/middleware"
	"github.com/uzeyirmammadli/catcare-sub001/pkg/e"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type CommentService interface {
	Add(ctx context.Context, caseID uuid.UUID, req domain.AddCommentRequest, actor domain.Actor) (uuid.UUID, error)
	Edit(ctx context.Context, commentID uuid.UUID, req domain.EditCommentRequest, actor domain.Actor) error
	Delete(ctx context.Context, commentID uuid.UUID, actor domain.Actor) error
}

type Handler struct {
	logger  *slog.Logger
	service CommentService
}

func NewHandler(logger *slog.Logger, service CommentService) *Handler {
	return &Handler{logger: logger, service: service}
}

// Add handles POST /view_case_details/{id}/comments.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	actor, _ := middleware.ActorFromContext(r.Context())

	caseID, ok := h.parseID(w, r, "case")
	if !ok {
		return
	}

	req, ok := h.decodeContent(w, r)
	if !ok {
		return
	}

	id, err := h.service.Add(r.Context(), caseID, domain.AddCommentRequest{Content: req}, actor)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("comment added", slog.String("case_id", caseID.String()), slog.String("id", id.String()))
	h.writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      id.String(),
		"message": "comment added",
	})
}

// Edit handles POST /edit_comment/{id}.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	id, ok := h.parseID(w, r, "comment")
	if !ok {
		return
	}

	req, ok := h.decodeContent(w, r)
	if !ok {
		return
	}

	if err := h.service.Edit(r.Context(), id, domain.EditCommentRequest{Content: req}, actor); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "comment updated"})
}

// Delete handles POST /delete_comment/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	id, ok := h.parseID(w, r, "comment")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id, actor); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "comment deleted"})
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid "+what+" id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) decodeContent(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON")
		return "", false
	}
	return body.Content, true
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	return h.logger.With(
		slog.String("request_id", chimiddleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, code int, msg string) {
	h.writeJSON(w, code, map[string]any{"success": false, "error": msg})
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	l := h.log(r)

	switch {
	case errors.Is(err, e.ErrValidation):
		l.Warn("validation failed", slog.String("error", err.Error()))
		msg := err.Error()
		if i := strings.LastIndex(msg, ": "+e.ErrValidation.Error()); i > 0 {
			msg = msg[:i]
		}
		h.writeError(w, http.StatusBadRequest, msg)
	case errors.Is(err, e.ErrUnauthorized):
		h.writeError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, e.ErrForbidden):
		h.writeError(w, http.StatusForbidden, "only the author may do that")
	case errors.Is(err, e.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, e.ErrInvalidInput):
		h.writeError(w, http.StatusBadRequest, "invalid input")
	default:
		l.Error("internal error", slog.String("error", err.Error()))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
