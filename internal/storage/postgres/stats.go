package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uzeyirmammadli/catcare-sub001/pkg/e"
)

type Stats struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewStats(pool *pgxpool.Pool, logger *slog.Logger) *Stats {
	return &Stats{pool: pool, logger: logger}
}

func (s *Stats) CountByStatus(ctx context.Context) (open, resolved int64, err error) {
	const op = "postgres.Stats.CountByStatus"

	const query = `
		SELECT
			COUNT(*) FILTER (WHERE status = 'open'),
			COUNT(*) FILTER (WHERE status = 'resolved')
		FROM cases
	`

	if err := s.pool.QueryRow(ctx, query).Scan(&open, &resolved); err != nil {
		s.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err))
		return 0, 0, e.WrapError(ctx, op, err)
	}

	return open, resolved, nil
}

func (s *Stats) CountReportedSince(ctx context.Context, days int) (int64, error) {
	const op = "postgres.Stats.CountReportedSince"

	const query = `
		SELECT COUNT(*)
		FROM cases
		WHERE created_at >= NOW() - ($1 * INTERVAL '1 day')
	`

	var total int64
	if err := s.pool.QueryRow(ctx, query, days).Scan(&total); err != nil {
		s.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}

	return total, nil
}
