package cases

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/uzeyirmammadli/catcare-sub001/internal/domain"
	"github.com/uzeyirmammadli/catcare-sub001/pkg/e"
)

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
		h.writeError(w, http.StatusBadRequest, validationText(err))
	case errors.Is(err, e.ErrInvalidInput):
		l.Warn("invalid input", slog.String("error", err.Error()))
		h.writeError(w, http.StatusBadRequest, "invalid input")
	case errors.Is(err, e.ErrUnauthorized):
		h.writeError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, e.ErrForbidden):
		h.writeError(w, http.StatusForbidden, "not allowed")
	case errors.Is(err, e.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, e.ErrConflict):
		h.writeError(w, http.StatusConflict, "case is already resolved")
	case errors.Is(err, e.ErrDeadline), errors.Is(err, e.ErrCanceled):
		l.Warn("request aborted", slog.String("error", err.Error()))
		h.writeError(w, http.StatusGatewayTimeout, "request timed out")
	default:
		l.Error("internal error", slog.String("error", err.Error()))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// validationText strips the sentinel suffix so clients see "field: message"
// instead of the whole wrap chain.
func validationText(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "+e.ErrValidation.Error()); i > 0 {
		return msg[:i]
	}
	return msg
}

// parseSearchRequest builds a SearchRequest from query parameters. Every
// numeric or enumerated parameter is parsed strictly: a malformed value is
// a validation error naming the parameter, never a silent default.
func parseSearchRequest(q url.Values) (*domain.SearchRequest, error) {
	req := &domain.SearchRequest{
		CaseFilter: domain.CaseFilter{
			Location: strings.TrimSpace(q.Get("location")),
		},
		SortBy:    domain.SortKey(q.Get("sort_by")),
		SortOrder: domain.SortOrder(q.Get("sort_order")),
	}

	if s := q.Get("status"); s != "" {
		switch domain.CaseStatus(s) {
		case domain.CaseOpen, domain.CaseResolved:
			req.Status = domain.CaseStatus(s)
		default:
			return nil, e.Validation("status", "must be open or resolved")
		}
	}

	needs := append(q["needs[]"], q["needs"]...)
	for _, raw := range needs {
		n := domain.Need(strings.TrimSpace(raw))
		if n == "" {
			continue
		}
		if !domain.ValidNeed(n) {
			return nil, e.Validation("needs", "unknown need "+string(n))
		}
		req.Needs = append(req.Needs, n)
	}

	var err error
	if req.DateFrom, err = parseOptDate(q, "date_from", false); err != nil {
		return nil, err
	}
	if req.DateTo, err = parseOptDate(q, "date_to", true); err != nil {
		return nil, err
	}
	if req.Lat, err = parseOptFloat(q, "latitude", "lat"); err != nil {
		return nil, err
	}
	if req.Lng, err = parseOptFloat(q, "longitude", "lon"); err != nil {
		return nil, err
	}
	if s := q.Get("radius"); s != "" {
		radius, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, e.Validation("radius", "must be a number")
		}
		if radius < domain.MinRadiusKM || radius > domain.MaxRadiusKM {
			return nil, e.Validation("radius", "must be between 0.1 and 100")
		}
		req.RadiusKM = radius
	}
	if req.Page, err = parsePage(q, "page"); err != nil {
		return nil, err
	}

	return req, nil
}

func parsePage(q url.Values, key string) (int, error) {
	s := q.Get(key)
	if s == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(s)
	if err != nil {
		return 0, e.Validation(key, "must be an integer")
	}
	return page, nil
}

func parseOptInt(q url.Values, key string) (int, error) {
	s := q.Get(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, e.Validation(key, "must be an integer")
	}
	return n, nil
}

// parseOptFloat returns the first of keys carrying a value. Later keys are
// legacy aliases for clients predating the spelled-out parameter names.
func parseOptFloat(q url.Values, keys ...string) (*float64, error) {
	for _, key := range keys {
		s := q.Get(key)
		if s == "" {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, e.Validation(key, "must be a number")
		}
		return &f, nil
	}
	return nil, nil
}

// parseOptDate accepts 2006-01-02 or RFC 3339. A date-only upper bound is
// pushed to the end of that day so the range stays inclusive.
func parseOptDate(q url.Values, key string, endOfDay bool) (*time.Time, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	return nil, e.Validation(key, "must be YYYY-MM-DD or RFC 3339")
}

func parseOptFloatForm(values map[string][]string, key string) (*float64, error) {
	vs := values[key]
	if len(vs) == 0 || strings.TrimSpace(vs[0]) == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(vs[0]), 64)
	if err != nil {
		return nil, e.Validation(key, "must be a number")
	}
	return &f, nil
}

func formNeeds(values map[string][]string) []domain.Need {
	raw := append(append([]string{}, values["needs[]"]...), values["needs"]...)
	var needs []domain.Need
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		needs = append(needs, domain.Need(s))
	}
	return needs
}
