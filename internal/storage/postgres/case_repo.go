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

// caseColumns is every select list in this file; keep scanCase in sync.
const caseColumns = `
	id,
	reporter_id,
	location,
	ST_Y(geo_point::geometry) AS lat,
	ST_X(geo_point::geometry) AS lng,
	status,
	needs,
	need,
	photos,
	videos,
	resolution_notes,
	resolution_photos,
	resolution_videos,
	resolution_pdfs,
	created_at,
	updated_at,
	resolved_at
`

type CaseRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewCaseRepo(pool *pgxpool.Pool, logger *slog.Logger) *CaseRepo {
	return &CaseRepo{pool: pool, logger: logger}
}

func (p *CaseRepo) Create(ctx context.Context, c *domain.Case) error {
	const op = "postgres.Case.Create"

	const query = `
		INSERT INTO cases (
			id, reporter_id, location, geo_point, status, needs, photos, videos,
			resolution_notes, resolution_photos, resolution_videos, resolution_pdfs,
			created_at, updated_at
		)
		VALUES (
			$1, $2, $3,
			CASE WHEN $4::float8 IS NULL OR $5::float8 IS NULL THEN NULL
			     ELSE ST_SetSRID(ST_MakePoint($4, $5), 4326) END,
			$6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
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
	if c.Status == "" {
		c.Status = domain.CaseOpen
	}

	_, err := p.pool.Exec(ctx, query,
		c.ID,
		c.ReporterID,
		c.Location,
		c.Lng,
		c.Lat,
		c.Status,
		needsToStrings(c.Needs),
		emptyIfNil(c.Photos),
		emptyIfNil(c.Videos),
		c.ResolutionNotes,
		emptyIfNil(c.ResolutionPhotos),
		emptyIfNil(c.ResolutionVideos),
		emptyIfNil(c.ResolutionPDFs),
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (p *CaseRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Case, error) {
	const op = "postgres.Case.Get"

	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = $1`

	row := p.pool.QueryRow(ctx, query, id)
	c, err := scanCase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}

	return c, nil
}

// Update writes the full field set; patch merging happens in the service.
// The legacy need column is deliberately absent from the SET list.
func (p *CaseRepo) Update(ctx context.Context, c *domain.Case) error {
	const op = "postgres.Case.Update"

	const query = `
		UPDATE cases
		SET location          = $2,
			geo_point         = CASE WHEN $3::float8 IS NULL OR $4::float8 IS NULL THEN NULL
			                         ELSE ST_SetSRID(ST_MakePoint($3, $4), 4326) END,
			status            = $5,
			needs             = $6,
			need              = NULL,
			photos            = $7,
			videos            = $8,
			resolution_notes  = $9,
			resolution_photos = $10,
			resolution_videos = $11,
			resolution_pdfs   = $12,
			resolved_at       = $13,
			updated_at        = $14
		WHERE id = $1
	`

	c.UpdatedAt = time.Now().UTC()

	cmd, err := p.pool.Exec(ctx, query,
		c.ID,
		c.Location,
		c.Lng,
		c.Lat,
		c.Status,
		needsToStrings(c.Needs),
		emptyIfNil(c.Photos),
		emptyIfNil(c.Videos),
		c.ResolutionNotes,
		emptyIfNil(c.ResolutionPhotos),
		emptyIfNil(c.ResolutionVideos),
		emptyIfNil(c.ResolutionPDFs),
		c.ResolvedAt,
		c.UpdatedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", c.ID.String()))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}

func (p *CaseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.Case.Delete"

	const query = `DELETE FROM cases WHERE id = $1`

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

func (p *CaseRepo) List(ctx context.Context, status domain.CaseStatus, page, limit int) ([]*domain.Case, int64, error) {
	const op = "postgres.Case.List"

	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	const countQuery = `SELECT COUNT(*) FROM cases WHERE status = $1`

	var total int64
	if err := p.pool.QueryRow(ctx, countQuery, status).Scan(&total); err != nil {
		p.logger.Error("db count failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}

	query := `SELECT ` + caseColumns + `
		FROM cases
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	cases, err := collectCases(rows)
	if err != nil {
		p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}

	return cases, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*domain.Case, error) {
	var (
		c       domain.Case
		needs   []string
		legacy  *string
		notes   *string
	)
	if err := row.Scan(
		&c.ID,
		&c.ReporterID,
		&c.Location,
		&c.Lat,
		&c.Lng,
		&c.Status,
		&needs,
		&legacy,
		&c.Photos,
		&c.Videos,
		&notes,
		&c.ResolutionPhotos,
		&c.ResolutionVideos,
		&c.ResolutionPDFs,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.ResolvedAt,
	); err != nil {
		return nil, err
	}

	legacyNeed := ""
	if legacy != nil {
		legacyNeed = *legacy
	}
	c.Needs = domain.NormalizeNeeds(stringsToNeeds(needs), legacyNeed)
	if notes != nil {
		c.ResolutionNotes = *notes
	}

	return &c, nil
}

func collectCases(rows pgx.Rows) ([]*domain.Case, error) {
	var cases []*domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cases, nil
}

func needsToStrings(needs []domain.Need) []string {
	out := make([]string, len(needs))
	for i, n := range needs {
		out[i] = string(n)
	}
	return out
}

func stringsToNeeds(src []string) []domain.Need {
	if len(src) == 0 {
		return nil
	}
	out := make([]domain.Need, len(src))
	for i, s := range src {
		out[i] = domain.Need(s)
	}
	return out
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
