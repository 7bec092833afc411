package system

import (
	"encoding/json"
	"net/http"
	"time"

	"log/slog"
)

type Handler struct {
	logger  *slog.Logger
	started time.Time
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger, started: time.Now()}
}

func (h *Handler) SystemHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}
