package service

import (
	"context"

	"github.com/uzeyirmammadli/catcare-sub001/internal/domain"
	"github.com/uzeyirmammadli/catcare-sub001/pkg/e"
)

type statsService struct {
	repo StatsRepository
}

func NewStatsService(repo StatsRepository) StatsService {
	return &statsService{repo: repo}
}

func (s *statsService) GetStats(ctx context.Context, req domain.StatsRequest) (*domain.CaseStats, error) {
	days := req.Days
	if days == 0 {
		days = 7
	}
	if days < 1 || days > 365 {
		return nil, e.Validation("days", "must be between 1 and 365")
	}

	open, resolved, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.CountReportedSince(ctx, days)
	if err != nil {
		return nil, err
	}

	return &domain.CaseStats{
		OpenCount:      open,
		ResolvedCount:  resolved,
		ReportedRecent: recent,
		Days:           days,
	}, nil
}
