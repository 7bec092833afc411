package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uzeyirmammadli/catcare-sub001/internal/domain"
	"github.com/uzeyirmammadli/catcare-sub001/pkg/e"
)

type CommentRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewCommentRepo(pool *pgxpool.Pool, logger *slog.Logger) *CommentRepo {
	return &CommentRepo{pool: pool, logger: logger}
}

func (p *CommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	const op = "postgres.Comment.Create"

	const query = `
		INSERT INTO comments (id, case_id, user_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}

	_, err := p.pool.Exec(ctx, query,
		c.ID,
		c.CaseID,
		c.UserID,
		c.Content,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (p *CommentRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	const op = "postgres.Comment.Get"

	const query = `
		SELECT id, case_id, user_id, content, created_at, updated_at
		FROM comments
		WHERE id = $1
	`

	var c domain.Comment
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.CaseID,
		&c.UserID,
		&c.Content,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}

	return &c, nil
}

func (p *CommentRepo) Update(ctx context.Context, c *domain.Comment) error {
	const op = "postgres.Comment.Update"

	const query = `
		UPDATE comments
		SET content = $2, updated_at = $3
		WHERE id = $1
	`

	c.UpdatedAt = time.Now().UTC()

	cmd, err := p.pool.Exec(ctx, query, c.ID, c.Content, c.UpdatedAt)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", c.ID.String()))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}

func (p *CommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.Comment.Delete"

	const query = `DELETE FROM comments WHERE id = $1`

	cmd, err := p.pool.Exec(ctx, query, id)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}

func (p *CommentRepo) ListByCase(ctx context.Context, caseID uuid.UUID, page, limit int) ([]*domain.Comment, int64, error) {
	const op = "postgres.Comment.ListByCase"

	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	const countQuery = `SELECT COUNT(*) FROM comments WHERE case_id = $1`

	var total int64
	if err := p.pool.QueryRow(ctx, countQuery, caseID).Scan(&total); err != nil {
		p.logger.Error("db count failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}

	const listQuery = `
		SELECT id, case_id, user_id, content, created_at, updated_at
		FROM comments
		WHERE case_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.pool.Query(ctx, listQuery, caseID, limit, offset)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(
			&c.ID,
			&c.CaseID,
			&c.UserID,
			&c.Content,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, 0, e.WrapError(ctx, op, err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}

	return comments, total, nil
}
