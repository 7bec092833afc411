package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/uzeyirmammadli/catcare-sub001/internal/domain"
)

type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Case, error)
	Update(ctx context.Context, c *domain.Case) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, status domain.CaseStatus, page, limit int) ([]*domain.Case, int64, error)
	FindByFilter(ctx context.Context, f domain.CaseFilter) ([]*domain.Case, error)
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

func (p *Postgres) Cases() CaseRepository       { return p.Case }
func (p *Postgres) Comments() CommentRepository { return p.Comment }
func (p *Postgres) Stats() StatsRepository      { return p.Stat }
