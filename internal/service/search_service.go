package service

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/uzeyirmammadli/catcare-sub001/internal/domain"
	"github.com/uzeyirmammadli/catcare-sub001/pkg/e"
	"github.com/uzeyirmammadli/catcare-sub001/pkg/pagination"
	"github.com/uzeyirmammadli/catcare-sub001/pkg/validator"
)

type searchService struct {
	repo            SearchRepository
	logger          *slog.Logger
	pageSize        int
	defaultRadiusKM float64
}

func NewSearchService(repo SearchRepository, logger *slog.Logger, pageSize int, defaultRadiusKM float64) SearchService {
	if pageSize < 1 || pageSize > 100 {
		pageSize = 9
	}
	if defaultRadiusKM <= 0 {
		defaultRadiusKM = domain.DefaultRadiusKM
	}
	return &searchService{
		repo:            repo,
		logger:          logger,
		pageSize:        pageSize,
		defaultRadiusKM: defaultRadiusKM,
	}
}

// Search resolves a search request into one bounded, ordered page:
// conjunction predicates in the repository, then radius annotation, sort
// and page window here.
func (s *searchService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	if err := validator.ValidateStruct(&req); err != nil {
		return nil, validator.ValidationMessage(err)
	}
	if err := checkCoordinatePair(req.Lat, req.Lng); err != nil {
		return nil, err
	}
	if req.DateFrom != nil && req.DateTo != nil && req.DateTo.Before(*req.DateFrom) {
		return nil, e.Validation("date_to", "must not precede date_from")
	}

	candidates, err := s.repo.FindByFilter(ctx, req.CaseFilter)
	if err != nil {
		return nil, err
	}

	if req.HasRadius() {
		radius := req.RadiusKM
		if radius == 0 {
			radius = s.defaultRadiusKM
		}
		candidates = filterByRadius(candidates, *req.Lat, *req.Lng, radius)
	}

	key, order := resolveSort(req)
	sortCases(candidates, key, order)

	w := pagination.Paginate(int64(len(candidates)), s.pageSize, req.Page)
	pageCases := candidates[w.Offset:w.End]

	s.logger.Debug("search resolved",
		slog.Int("candidates", len(candidates)),
		slog.Int("page", w.Page),
		slog.Int("returned", len(pageCases)),
	)

	return &domain.SearchResult{Cases: pageCases, Pages: w}, nil
}

// ListByStatus backs the plain open/resolved listings; it pages in SQL and
// re-queries once when the requested page clamps.
func (s *searchService) ListByStatus(ctx context.Context, status domain.CaseStatus, page int) (*domain.SearchResult, error) {
	if page < 1 {
		page = 1
	}

	cases, total, err := s.repo.List(ctx, status, page, s.pageSize)
	if err != nil {
		return nil, err
	}

	w := pagination.Paginate(total, s.pageSize, page)
	if w.Page != page {
		cases, total, err = s.repo.List(ctx, status, w.Page, s.pageSize)
		if err != nil {
			return nil, err
		}
		w = pagination.Paginate(total, s.pageSize, w.Page)
	}

	return &domain.SearchResult{Cases: cases, Pages: w}, nil
}

// resolveSort picks the effective ordering. A radius search with no explicit
// sort key orders nearest-first; distance ordering asked for without
// reference coordinates falls back to newest-first.
func resolveSort(req domain.SearchRequest) (domain.SortKey, domain.SortOrder) {
	key, order := req.SortBy, req.SortOrder
	if key == "" {
		if req.HasRadius() {
			key = domain.SortByDistance
		} else {
			key = domain.SortByCreatedAt
		}
	}
	if key == domain.SortByDistance && !req.HasRadius() {
		key = domain.SortByCreatedAt
	}
	if order == "" {
		if key == domain.SortByDistance {
			order = domain.SortAsc
		} else {
			order = domain.SortDesc
		}
	}
	return key, order
}

// filterByRadius keeps cases within the great-circle radius (inclusive
// boundary) and annotates each survivor with its distance. Cases without
// stored coordinates never match a radius search.
func filterByRadius(cases []*domain.Case, lat, lng, radiusKM float64) []*domain.Case {
	out := make([]*domain.Case, 0, len(cases))
	for _, c := range cases {
		if !c.HasCoordinates() {
			continue
		}
		dist := haversine(lat, lng, *c.Lat, *c.Lng)
		if dist <= radiusKM {
			d := dist
			c.DistanceKM = &d
			out = append(out, c)
		}
	}
	return out
}

func sortCases(cases []*domain.Case, key domain.SortKey, order domain.SortOrder) {
	if order == "" {
		order = domain.SortDesc
	}

	less := func(a, b *domain.Case) bool {
		switch key {
		case domain.SortByDistance:
			return distanceOf(a) < distanceOf(b)
		case domain.SortByLocation:
			return strings.ToLower(a.Location) < strings.ToLower(b.Location)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(cases, func(i, j int) bool {
		if order == domain.SortAsc {
			return less(cases[i], cases[j])
		}
		return less(cases[j], cases[i])
	})
}

func distanceOf(c *domain.Case) float64 {
	if c.DistanceKM == nil {
		return math.MaxFloat64
	}
	return *c.DistanceKM
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371.0 // earth radius, km

	dLat := deg2rad(lat2 - lat1)
	dLon := deg2rad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
