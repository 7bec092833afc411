package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/uzeyirmammadli/catcare-sub001/internal/domain"
	"github.com/uzeyirmammadli/catcare-sub001/pkg/e"
)

// FindByFilter applies the non-distance predicates as a conjunction and
// returns the full candidate set, newest first. Radius filtering, distance
// annotation, sorting and paging happen in the search service on top of
// this set.
func (p *CaseRepo) FindByFilter(ctx context.Context, f domain.CaseFilter) ([]*domain.Case, error) {
	const op = "postgres.Case.FindByFilter"

	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Location != "" {
		where = append(where, fmt.Sprintf("location ILIKE '%%' || %s || '%%'", arg(f.Location)))
	}
	if f.Status != "" {
		where = append(where, fmt.Sprintf("status = %s", arg(f.Status)))
	}
	if len(f.Needs) > 0 {
		// OR semantics: the stored set must intersect the requested set.
		// The legacy scalar column still participates until fully migrated.
		ph := arg(needsToStrings(f.Needs))
		where = append(where, fmt.Sprintf("(needs && %s::text[] OR need = ANY(%s::text[]))", ph, ph))
	}
	if f.DateFrom != nil {
		where = append(where, fmt.Sprintf("created_at >= %s", arg(*f.DateFrom)))
	}
	if f.DateTo != nil {
		where = append(where, fmt.Sprintf("created_at <= %s", arg(*f.DateTo)))
	}

	query := `SELECT ` + caseColumns + ` FROM cases`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	cases, err := collectCases(rows)
	if err != nil {
		p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return cases, nil
}
