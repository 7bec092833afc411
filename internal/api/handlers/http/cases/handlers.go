package cases

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/uzeyirmammadli/catcare-sub001/internal/domain"
	"github.com/uzeyirmammadli/catcare-sub001/internal/middleware"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type CaseService interface {
	Create(ctx context.Context, req domain.CreateCaseRequest, actor domain.Actor) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Case, error)
	Update(ctx context.Context, id uuid.UUID, req domain.UpdateCaseRequest, actor domain.Actor) error
	Resolve(ctx context.Context, id uuid.UUID, req domain.ResolveCaseRequest, actor domain.Actor) error
	RemoveMedia(ctx context.Context, id uuid.UUID, req domain.RemoveMediaRequest, actor domain.Actor) error
	Delete(ctx context.Context, id uuid.UUID, actor domain.Actor) error
}

type CaseSearcher interface {
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error)
	ListByStatus(ctx context.Context, status domain.CaseStatus, page int) (*domain.SearchResult, error)
}

type CommentLister interface {
	ListByCase(ctx context.Context, caseID uuid.UUID, page int) (*domain.CommentPage, error)
}

type StatsGetter interface {
	GetStats(ctx context.Context, req domain.StatsRequest) (*domain.CaseStats, error)
}

type MediaSaver interface {
	Save(kind string, fh *multipart.FileHeader) (string, error)
}

type Handler struct {
	logger   *slog.Logger
	Cases    CaseService
	Search   CaseSearcher
	Comments CommentLister
	Stats    StatsGetter
	Media    MediaSaver

	maxUploadBytes int64
}

func NewHandler(
	logger *slog.Logger,
	cases CaseService,
	search CaseSearcher,
	comments CommentLister,
	stats StatsGetter,
	media MediaSaver,
	maxUploadMB int64,
) *Handler {
	if maxUploadMB <= 0 {
		maxUploadMB = 32
	}
	return &Handler{
		logger:         logger,
		Cases:          cases,
		Search:         search,
		Comments:       comments,
		Stats:          stats,
		Media:          media,
		maxUploadBytes: maxUploadMB << 20,
	}
}

// ListOpen handles GET /cases.
func (h *Handler) ListOpen(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, domain.CaseOpen)
}

// ListResolved handles GET /resolved-cases.
func (h *Handler) ListResolved(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, domain.CaseResolved)
}

func (h *Handler) listByStatus(w http.ResponseWriter, r *http.Request, status domain.CaseStatus) {
	l := h.log(r)

	page, err := parsePage(r.URL.Query(), "page")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	result, err := h.Search.ListByStatus(r.Context(), status, page)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("cases listed",
		slog.String("status", string(status)),
		slog.Int("count", len(result.Cases)),
		slog.Int64("total", result.Pages.TotalItems),
	)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"cases":      result.Cases,
		"pagination": result.Pages,
	})
}

// AdvancedSearch handles GET /advanced-search.
func (h *Handler) AdvancedSearch(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("AdvancedSearch", slog.String("query", r.URL.RawQuery))

	req, err := parseSearchRequest(r.URL.Query())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	result, err := h.Search.Search(r.Context(), *req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"cases":      result.Cases,
		"pagination": result.Pages,
	})
}

// Report handles POST /report (multipart).
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	actor, _ := middleware.ActorFromContext(r.Context())

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	req := domain.CreateCaseRequest{
		Location: r.FormValue("location"),
		Needs:    formNeeds(r.MultipartForm.Value),
	}

	lat, err := parseOptFloatForm(r.MultipartForm.Value, "latitude")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	lng, err := parseOptFloatForm(r.MultipartForm.Value, "longitude")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	req.Lat, req.Lng = lat, lng

	photos, videos, warnings := h.saveCaseMedia(r.MultipartForm)
	req.Photos = photos
	req.Videos = videos

	id, err := h.Cases.Create(r.Context(), req, actor)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("case reported",
		slog.String("id", id.String()),
		slog.Int("photos", len(photos)),
		slog.Int("videos", len(videos)),
	)
	resp := map[string]any{
		"success": true,
		"id":      id.String(),
		"message": "case reported",
	}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	h.writeJSON(w, http.StatusCreated, resp)
}

// GetForUpdate handles GET /update/{id}: the edit form prefill.
func (h *Handler) GetForUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caseID(w, r)
	if !ok {
		return
	}

	c, err := h.Cases.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "case": c})
}

// Update handles POST /update/{id} (multipart, partial fields).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	id, ok := h.caseID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var req domain.UpdateCaseRequest
	if loc := r.FormValue("location"); loc != "" {
		req.Location = &loc
	}
	lat, err := parseOptFloatForm(r.MultipartForm.Value, "latitude")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	lng, err := parseOptFloatForm(r.MultipartForm.Value, "longitude")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	req.Lat, req.Lng = lat, lng
	req.Needs = formNeeds(r.MultipartForm.Value)

	photos, videos, warnings := h.saveCaseMedia(r.MultipartForm)
	req.Photos = photos
	req.Videos = videos

	if err := h.Cases.Update(r.Context(), id, req, actor); err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := map[string]any{"success": true, "message": "case updated"}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// Resolve handles POST /resolve_case/{id} (multipart).
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	actor, _ := middleware.ActorFromContext(r.Context())
	id, ok := h.caseID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	req := domain.ResolveCaseRequest{
		Notes: r.FormValue("resolution_notes"),
	}

	// Media failures do not block the resolution itself: the notes are the
	// record, attachments are best-effort and reported back as warnings.
	var warnings []string
	req.Photos, warnings = h.saveFiles(r.MultipartForm, []string{"photos[]", "photos"}, "photo", warnings)
	req.Videos, warnings = h.saveFiles(r.MultipartForm, []string{"videos[]", "videos"}, "video", warnings)
	req.PDFs, warnings = h.saveFiles(r.MultipartForm, []string{"pdfs[]", "pdfs"}, "pdf", warnings)

	if err := h.Cases.Resolve(r.Context(), id, req, actor); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("case resolved", slog.String("id", id.String()), slog.String("by", actor.ID))
	resp := map[string]any{"success": true, "message": "case resolved"}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// RemoveMedia handles POST /remove_media/{id} (JSON {type, url}).
func (h *Handler) RemoveMedia(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	id, ok := h.caseID(w, r)
	if !ok {
		return
	}

	var req domain.RemoveMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.Cases.RemoveMedia(r.Context(), id, req, actor); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "media removed"})
}

// Details handles GET /view_case_details/{id}: the case plus one page of
// its comments.
func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caseID(w, r)
	if !ok {
		return
	}

	page, err := parsePage(r.URL.Query(), "page")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	c, err := h.Cases.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	comments, err := h.Comments.ListByCase(r.Context(), id, page)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success":             true,
		"case":                c,
		"comments":            comments.Comments,
		"comments_pagination": comments.Pages,
	})
}

// DeleteCase handles POST /delete_case/{id}.
func (h *Handler) DeleteCase(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	id, ok := h.caseID(w, r)
	if !ok {
		return
	}

	if err := h.Cases.Delete(r.Context(), id, actor); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "case deleted"})
}

// CaseStats handles GET /stats.
func (h *Handler) CaseStats(w http.ResponseWriter, r *http.Request) {
	days, err := parseOptInt(r.URL.Query(), "days")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	stats, err := h.Stats.GetStats(r.Context(), domain.StatsRequest{Days: days})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "stats": stats})
}

func (h *Handler) caseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.log(r).Warn("invalid id", slog.String("id", idStr), slog.String("error", err.Error()))
		h.writeError(w, http.StatusBadRequest, "invalid case id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) saveCaseMedia(form *multipart.Form) (photos, videos, warnings []string) {
	photos, warnings = h.saveFiles(form, []string{"photos[]", "photos"}, "photo", warnings)
	videos, warnings = h.saveFiles(form, []string{"videos[]", "videos"}, "video", warnings)
	return photos, videos, warnings
}

func (h *Handler) saveFiles(form *multipart.Form, fields []string, kind string, warnings []string) ([]string, []string) {
	if h.Media == nil || form == nil {
		return nil, warnings
	}
	var urls []string
	for _, field := range fields {
		for _, fh := range form.File[field] {
			url, err := h.Media.Save(kind, fh)
			if err != nil {
				h.logger.Warn("media save failed",
					slog.String("kind", kind),
					slog.String("file", fh.Filename),
					slog.Any("error", err),
				)
				warnings = append(warnings, kind+" "+fh.Filename+" could not be stored")
				continue
			}
			urls = append(urls, url)
		}
	}
	return urls, warnings
}
