package domain

import (
	"time"

	"github.com/google/uuid"
)

type CaseStatus string

const (
	CaseOpen     CaseStatus = "open"
	CaseResolved CaseStatus = "resolved"
)

type Need string

const (
	NeedMedical       Need = "medical"
	NeedFood          Need = "food"
	NeedShelter       Need = "shelter"
	NeedRescue        Need = "rescue"
	NeedVaccination   Need = "vaccination"
	NeedSterilization Need = "sterilization"
	NeedOther         Need = "other"
)

// AllNeeds lists every recognized need tag, in display order.
var AllNeeds = []Need{
	NeedMedical,
	NeedFood,
	NeedShelter,
	NeedRescue,
	NeedVaccination,
	NeedSterilization,
	NeedOther,
}

func ValidNeed(n Need) bool {
	for _, v := range AllNeeds {
		if v == n {
			return true
		}
	}
	return false
}

// NormalizeNeeds folds the legacy scalar need column into the set form.
// Reads always go through this; writes only ever persist the set.
func NormalizeNeeds(needs []Need, legacy string) []Need {
	if len(needs) == 0 && legacy != "" {
		return []Need{Need(legacy)}
	}
	return needs
}

type Case struct {
	ID         uuid.UUID  `json:"id"`
	ReporterID string     `json:"reporter_id"`
	Location   string     `json:"location"`
	Lat        *float64   `json:"lat,omitempty" validate:"omitempty,lat"` // -90..90
	Lng        *float64   `json:"lng,omitempty" validate:"omitempty,lng"` // -180..180
	Status     CaseStatus `json:"status"`
	Needs      []Need     `json:"needs"`
	Photos     []string   `json:"photos"`
	Videos     []string   `json:"videos"`

	ResolutionNotes  string   `json:"resolution_notes,omitempty"`
	ResolutionPhotos []string `json:"resolution_photos,omitempty"`
	ResolutionVideos []string `json:"resolution_videos,omitempty"`
	ResolutionPDFs   []string `json:"resolution_pdfs,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	// DistanceKM is set only by radius search, same units as the radius.
	DistanceKM *float64 `json:"distance_km,omitempty"`
}

func (c *Case) HasCoordinates() bool {
	return c.Lat != nil && c.Lng != nil
}

// MediaKind identifies which media list of a case a URL belongs to.
type MediaKind string

const (
	MediaPhoto           MediaKind = "photo"
	MediaVideo           MediaKind = "video"
	MediaResolutionPhoto MediaKind = "resolution_photo"
	MediaResolutionVideo MediaKind = "resolution_video"
	MediaResolutionPDF   MediaKind = "resolution_pdf"
)

func ValidMediaKind(k MediaKind) bool {
	switch k {
	case MediaPhoto, MediaVideo, MediaResolutionPhoto, MediaResolutionVideo, MediaResolutionPDF:
		return true
	}
	return false
}

// DetachMedia removes one URL from the named media list. The second return
// is false when the URL was not attached to the case.
func (c *Case) DetachMedia(kind MediaKind, url string) bool {
	var list *[]string
	switch kind {
	case MediaPhoto:
		list = &c.Photos
	case MediaVideo:
		list = &c.Videos
	case MediaResolutionPhoto:
		list = &c.ResolutionPhotos
	case MediaResolutionVideo:
		list = &c.ResolutionVideos
	case MediaResolutionPDF:
		list = &c.ResolutionPDFs
	default:
		return false
	}
	for i, u := range *list {
		if u == url {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}
