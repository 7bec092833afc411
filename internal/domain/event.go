package domain

import (
	"time"

	"github.com/google/uuid"
)

// ResolutionEvent is queued when a case transitions to resolved and is
// delivered to the notification webhook by the background workers.
type ResolutionEvent struct {
	CaseID     uuid.UUID `json:"case_id"`
	ResolvedBy string    `json:"resolved_by"`
	Location   string    `json:"location"`
	Needs      []Need    `json:"needs"`
	Notes      string    `json:"notes"`
	ResolvedAt time.Time `json:"resolved_at"`
}
