package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/uzeyirmammadli/catcare-sub001/internal/domain"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go
type CaseService interface {
	Create(ctx context.Context, req domain.CreateCaseRequest, actor domain.Actor) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Case, error)
	Update(ctx context.Context, id uuid.UUID, req domain.UpdateCaseRequest, actor domain.Actor) error
	Resolve(ctx context.Context, id uuid.UUID, req domain.ResolveCaseRequest, actor domain.Actor) error
	RemoveMedia(ctx context.Context, id uuid.UUID, req domain.RemoveMediaRequest, actor domain.Actor) error
	Delete(ctx context.Context, id uuid.UUID, actor domain.Actor) error
}

type SearchService interface {
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error)
	ListByStatus(ctx context.Context, status domain.CaseStatus, page int) (*domain.SearchResult, error)
}

type CommentService interface {
	Add(ctx context.Context, caseID uuid.UUID, req domain.AddCommentRequest, actor domain.Actor) (uuid.UUID, error)
	Edit(ctx context.Context, id uuid.UUID, req domain.EditCommentRequest, actor domain.Actor) error
	Delete(ctx context.Context, id uuid.UUID, actor domain.Actor) error
	ListByCase(ctx context.Context, caseID uuid.UUID, page int) (*domain.CommentPage, error)
}

type StatsService interface {
	GetStats(ctx context.Context, req domain.StatsRequest) (*domain.CaseStats, error)
}

// Repository dependencies, declared consumer-side so the services can be
// unit-tested against mocks.
type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Case, error)
	Update(ctx context.Context, c *domain.Case) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SearchRepository interface {
	FindByFilter(ctx context.Context, f domain.CaseFilter) ([]*domain.Case, error)
	List(ctx context.Context, status domain.CaseStatus, page, limit int) ([]*domain.Case, int64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	Update(ctx context.Context, c *domain.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByCase(ctx context.Context, caseID uuid.UUID, page, limit int) ([]*domain.Comment, int64, error)
}

type StatsRepository interface {
	CountByStatus(ctx context.Context) (open, resolved int64, err error)
	CountReportedSince(ctx context.Context, days int) (int64, error)
}

type CaseCache interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Case, error)
	Set(ctx context.Context, c *domain.Case, ttl time.Duration) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

type EventQueue interface {
	Enqueue(ctx context.Context, event domain.ResolutionEvent) error
}

type Service struct {
	CaseService    CaseService
	SearchService  SearchService
	CommentService CommentService
	StatsService   StatsService
}

func NewService(
	caseService CaseService,
	searchService SearchService,
	commentService CommentService,
	statsService StatsService,
) *Service {
	return &Service{
		CaseService:    caseService,
		SearchService:  searchService,
		CommentService: commentService,
		StatsService:   statsService,
	}
}
