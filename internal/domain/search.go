package domain

import (
	"time"

	"github.com/uzeyirmammadli/catcare-sub001/pkg/pagination"
)

type SortKey string

const (
	SortByCreatedAt SortKey = "created_at"
	SortByDistance  SortKey = "distance"
	SortByLocation  SortKey = "location"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultRadiusKM = 5.0
	MinRadiusKM     = 0.1
	MaxRadiusKM     = 100.0
)

// CaseFilter holds the non-distance predicates, applied as a conjunction.
type CaseFilter struct {
	Location string     `validate:"omitempty,max=255"`
	Status   CaseStatus `validate:"omitempty,oneof=open resolved"`
	Needs    []Need     `validate:"omitempty,dive,need"`
	DateFrom *time.Time
	DateTo   *time.Time
}

type SearchRequest struct {
	CaseFilter

	Lat      *float64 `validate:"omitempty,lat"`
	Lng      *float64 `validate:"omitempty,lng"`
	RadiusKM float64  `validate:"omitempty,radius_km"`

	SortBy    SortKey   `validate:"omitempty,oneof=created_at distance location"`
	SortOrder SortOrder `validate:"omitempty,oneof=asc desc"`
	Page      int
}

// HasRadius reports whether the radius predicate is active. Per contract
// both coordinates must be present; a lone latitude or longitude is a
// validation error handled before this point.
func (r *SearchRequest) HasRadius() bool {
	return r.Lat != nil && r.Lng != nil
}

type SearchResult struct {
	Cases []*Case           `json:"cases"`
	Pages pagination.Window `json:"pagination"`
}
