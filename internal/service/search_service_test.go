package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/uzeyirmammadli/catcare-sub001/internal/domain"
	"github.com/uzeyirmammadli/catcare-sub001/internal/service"
	mock_service "github.com/uzeyirmammadli/catcare-sub001/internal/service/mocks"
	"github.com/uzeyirmammadli/catcare-sub001/pkg/e"
)

// --- helpers ---

func f64ptr(v float64) *float64 { return &v }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func caseAt(t *testing.T, location string, lat, lng *float64, created time.Time) *domain.Case {
	t.Helper()
	return &domain.Case{
		ID:        uuid.New(),
		Location:  location,
		Lat:       lat,
		Lng:       lng,
		Status:    domain.CaseOpen,
		CreatedAt: created,
	}
}

// --- Search ---

func TestSearchService_Search_RadiusInclusiveBoundary(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// ~0.0899 degrees of latitude is very close to 10 km along a meridian.
	onBoundary := caseAt(t, "boundary", f64ptr(40.089932), f64ptr(49.0), base)
	inside := caseAt(t, "inside", f64ptr(40.01), f64ptr(49.0), base.Add(time.Hour))
	outside := caseAt(t, "outside", f64ptr(41.0), f64ptr(49.0), base.Add(2*time.Hour))
	noCoords := caseAt(t, "no coords", nil, nil, base.Add(3*time.Hour))

	repo := mock_service.NewMockSearchRepository(ctrl)
	repo.EXPECT().
		FindByFilter(gomock.Any(), gomock.Any()).
		Return([]*domain.Case{onBoundary, inside, outside, noCoords}, nil).
		Times(1)

	svc := service.NewSearchService(repo, testLogger(), 9, 5.0)

	res, err := svc.Search(context.Background(), domain.SearchRequest{
		Lat:      f64ptr(40.0),
		Lng:      f64ptr(49.0),
		RadiusKM: 10,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(res.Cases) != 2 {
		t.Fatalf("want 2 cases within radius, got %d", len(res.Cases))
	}
	for _, c := range res.Cases {
		if c.DistanceKM == nil {
			t.Fatalf("case %q missing distance annotation", c.Location)
		}
		if c.Location == "outside" || c.Location == "no coords" {
			t.Fatalf("case %q should have been excluded", c.Location)
		}
	}
}

func TestSearchService_Search_RadiusExcludesCoordinateless(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	withCoords := caseAt(t, "center", f64ptr(40.0), f64ptr(49.0), base)
	without := caseAt(t, "somewhere", nil, nil, base)

	repo := mock_service.NewMockSearchRepository(ctrl)
	repo.EXPECT().
		FindByFilter(gomock.Any(), gomock.Any()).
		Return([]*domain.Case{withCoords, without}, nil).
		Times(1)

	svc := service.NewSearchService(repo, testLogger(), 9, 5.0)

	res, err := svc.Search(context.Background(), domain.SearchRequest{
		Lat: f64ptr(40.0),
		Lng: f64ptr(49.0),
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Cases) != 1 || res.Cases[0].Location != "center" {
		t.Fatalf("only the case with coordinates should match, got %d", len(res.Cases))
	}
}

func TestSearchService_Search_FilterIsConjunction(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// The repository applies the conjunction; the service must pass the
	// filter through untouched and return what came back, newest first.
	matched := []*domain.Case{
		caseAt(t, "park", f64ptr(40.1), f64ptr(49.1), from.AddDate(0, 1, 0)),
		caseAt(t, "park north", f64ptr(40.2), f64ptr(49.2), from.AddDate(0, 2, 0)),
	}
	matched[0].Needs = []domain.Need{domain.NeedMedical}
	matched[1].Needs = []domain.Need{domain.NeedMedical, domain.NeedFood}

	var gotFilter domain.CaseFilter
	repo := mock_service.NewMockSearchRepository(ctrl)
	repo.EXPECT().
		FindByFilter(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f domain.CaseFilter) ([]*domain.Case, error) {
			gotFilter = f
			return matched, nil
		}).
		Times(1)

	svc := service.NewSearchService(repo, testLogger(), 9, 5.0)

	res, err := svc.Search(context.Background(), domain.SearchRequest{
		CaseFilter: domain.CaseFilter{
			Status:   domain.CaseOpen,
			Needs:    []domain.Need{domain.NeedMedical},
			DateFrom: &from,
		},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotFilter.Status != domain.CaseOpen {
		t.Fatalf("status predicate lost: %q", gotFilter.Status)
	}
	if len(gotFilter.Needs) != 1 || gotFilter.Needs[0] != domain.NeedMedical {
		t.Fatalf("needs predicate lost: %v", gotFilter.Needs)
	}
	if gotFilter.DateFrom == nil || !gotFilter.DateFrom.Equal(from) {
		t.Fatalf("date_from predicate lost: %v", gotFilter.DateFrom)
	}

	if len(res.Cases) != 2 {
		t.Fatalf("want 2 cases, got %d", len(res.Cases))
	}
	// Default ordering: created_at descending.
	if res.Cases[0].Location != "park north" || res.Cases[1].Location != "park" {
		t.Fatalf("expected newest first, got %q, %q", res.Cases[0].Location, res.Cases[1].Location)
	}
}

func TestSearchService_Search_DistanceSortWithoutCoordsFallsBack(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	older := caseAt(t, "older", f64ptr(40.0), f64ptr(49.0), base)
	newer := caseAt(t, "newer", f64ptr(40.5), f64ptr(49.5), base.Add(time.Hour))

	repo := mock_service.NewMockSearchRepository(ctrl)
	repo.EXPECT().
		FindByFilter(gomock.Any(), gomock.Any()).
		Return([]*domain.Case{older, newer}, nil).
		Times(1)

	svc := service.NewSearchService(repo, testLogger(), 9, 5.0)

	// sort_by=distance but no lat/lng: must quietly become created_at desc.
	res, err := svc.Search(context.Background(), domain.SearchRequest{
		SortBy: domain.SortByDistance,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Cases[0].Location != "newer" {
		t.Fatalf("expected created_at desc fallback, got %q first", res.Cases[0].Location)
	}
}

func TestSearchService_Search_DefaultRadiusApplied(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	near := caseAt(t, "near", f64ptr(40.01), f64ptr(49.0), base) // ~1.1 km
	far := caseAt(t, "far", f64ptr(40.1), f64ptr(49.0), base)    // ~11 km

	repo := mock_service.NewMockSearchRepository(ctrl)
	repo.EXPECT().
		FindByFilter(gomock.Any(), gomock.Any()).
		Return([]*domain.Case{near, far}, nil).
		Times(1)

	svc := service.NewSearchService(repo, testLogger(), 9, 5.0)

	res, err := svc.Search(context.Background(), domain.SearchRequest{
		Lat: f64ptr(40.0),
		Lng: f64ptr(49.0),
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Cases) != 1 || res.Cases[0].Location != "near" {
		t.Fatalf("default 5 km radius should keep only the near case, got %d", len(res.Cases))
	}
}

func TestSearchService_Search_RadiusDefaultsToNearestFirst(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	// The farther case is newer: created_at ordering would put it first.
	near := caseAt(t, "near", f64ptr(40.01), f64ptr(49.0), base) // ~1.1 km
	far := caseAt(t, "far", f64ptr(40.05), f64ptr(49.0), base.Add(time.Hour))

	repo := mock_service.NewMockSearchRepository(ctrl)
	repo.EXPECT().
		FindByFilter(gomock.Any(), gomock.Any()).
		Return([]*domain.Case{far, near}, nil).
		Times(1)

	svc := service.NewSearchService(repo, testLogger(), 9, 5.0)

	// A radius search without sort_by orders by distance, nearest first.
	res, err := svc.Search(context.Background(), domain.SearchRequest{
		Lat:      f64ptr(40.0),
		Lng:      f64ptr(49.0),
		RadiusKM: 10,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Cases) != 2 {
		t.Fatalf("want both cases within radius, got %d", len(res.Cases))
	}
	if res.Cases[0].Location != "near" || res.Cases[1].Location != "far" {
		t.Fatalf("want nearest first, got %q, %q", res.Cases[0].Location, res.Cases[1].Location)
	}
}

func TestSearchService_Search_LoneCoordinateRejected(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockSearchRepository(ctrl)

	svc := service.NewSearchService(repo, testLogger(), 9, 5.0)

	_, err := svc.Search(context.Background(), domain.SearchRequest{
		Lat: f64ptr(40.0),
	})
	if !errors.Is(err, e.ErrValidation) {
		t.Fatalf("lone latitude must be a validation error, got %v", err)
	}
}

func TestSearchService_Search_PageClampsNotErrors(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	all := make([]*domain.Case, 0, 12)
	for i := 0; i < 12; i++ {
		all = append(all, caseAt(t, "spot", nil, nil, base.Add(time.Duration(i)*time.Hour)))
	}

	repo := mock_service.NewMockSearchRepository(ctrl)
	repo.EXPECT().
		FindByFilter(gomock.Any(), gomock.Any()).
		Return(all, nil).
		Times(2)

	svc := service.NewSearchService(repo, testLogger(), 9, 5.0)

	// 12 items, page size 9: page 999 clamps to the last page (2).
	res, err := svc.Search(context.Background(), domain.SearchRequest{Page: 999})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Pages.Page != 2 {
		t.Fatalf("want clamped page 2, got %d", res.Pages.Page)
	}
	if len(res.Cases) != 3 {
		t.Fatalf("last page should hold 3 cases, got %d", len(res.Cases))
	}

	// Page 0 clamps to 1.
	res, err = svc.Search(context.Background(), domain.SearchRequest{Page: 0})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Pages.Page != 1 || len(res.Cases) != 9 {
		t.Fatalf("want page 1 with 9 cases, got page %d with %d", res.Pages.Page, len(res.Cases))
	}
}

func TestSearchService_Search_SortByLocationAsc(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cases := []*domain.Case{
		caseAt(t, "Zoo corner", nil, nil, base),
		caseAt(t, "alley", nil, nil, base),
		caseAt(t, "Market", nil, nil, base),
	}

	repo := mock_service.NewMockSearchRepository(ctrl)
	repo.EXPECT().
		FindByFilter(gomock.Any(), gomock.Any()).
		Return(cases, nil).
		Times(1)

	svc := service.NewSearchService(repo, testLogger(), 9, 5.0)

	res, err := svc.Search(context.Background(), domain.SearchRequest{
		SortBy:    domain.SortByLocation,
		SortOrder: domain.SortAsc,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	got := []string{res.Cases[0].Location, res.Cases[1].Location, res.Cases[2].Location}
	want := []string{"alley", "Market", "Zoo corner"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("case-insensitive location sort: want %v, got %v", want, got)
		}
	}
}

func TestSearchService_Search_DateRangeInverted(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockSearchRepository(ctrl)
	svc := service.NewSearchService(repo, testLogger(), 9, 5.0)

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, -1, 0)

	_, err := svc.Search(context.Background(), domain.SearchRequest{
		CaseFilter: domain.CaseFilter{DateFrom: &from, DateTo: &to},
	})
	if !errors.Is(err, e.ErrValidation) {
		t.Fatalf("inverted date range must be a validation error, got %v", err)
	}
}

func TestSearchService_Search_RepoErrorPropagates(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockSearchRepository(ctrl)
	repo.EXPECT().
		FindByFilter(gomock.Any(), gomock.Any()).
		Return(nil, e.ErrStorage).
		Times(1)

	svc := service.NewSearchService(repo, testLogger(), 9, 5.0)

	_, err := svc.Search(context.Background(), domain.SearchRequest{})
	if !errors.Is(err, e.ErrStorage) {
		t.Fatalf("want storage error, got %v", err)
	}
}

// --- ListByStatus ---

func TestSearchService_ListByStatus_ClampRequeries(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	lastPage := []*domain.Case{caseAt(t, "tail", nil, nil, base)}

	repo := mock_service.NewMockSearchRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().
			List(gomock.Any(), domain.CaseOpen, 50, 9).
			Return([]*domain.Case{}, int64(10), nil),
		repo.EXPECT().
			List(gomock.Any(), domain.CaseOpen, 2, 9).
			Return(lastPage, int64(10), nil),
	)

	svc := service.NewSearchService(repo, testLogger(), 9, 5.0)

	res, err := svc.ListByStatus(context.Background(), domain.CaseOpen, 50)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if res.Pages.Page != 2 {
		t.Fatalf("want clamped page 2, got %d", res.Pages.Page)
	}
	if len(res.Cases) != 1 {
		t.Fatalf("want the re-queried last page, got %d cases", len(res.Cases))
	}
}
