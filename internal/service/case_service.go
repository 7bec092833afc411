package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/uzeyirmammadli/catcare-sub001/internal/domain"
	"github.com/uzeyirmammadli/catcare-sub001/pkg/e"
	"github.com/uzeyirmammadli/catcare-sub001/pkg/validator"
)

type caseService struct {
	repo     CaseRepository
	cache    CaseCache
	queue    EventQueue
	logger   *slog.Logger
	cacheTTL time.Duration
}

func NewCaseService(
	repo CaseRepository,
	cache CaseCache,
	queue EventQueue,
	logger *slog.Logger,
	cacheTTL time.Duration,
) CaseService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &caseService{
		repo:     repo,
		cache:    cache,
		queue:    queue,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

func (s *caseService) Create(ctx context.Context, req domain.CreateCaseRequest, actor domain.Actor) (uuid.UUID, error) {
	const op = "service.Case.Create"

	if err := validator.ValidateStruct(req); err != nil {
		return uuid.Nil, validator.ValidationMessage(err)
	}
	if err := checkCoordinatePair(req.Lat, req.Lng); err != nil {
		return uuid.Nil, err
	}
	if actor.ID == "" {
		return uuid.Nil, fmt.Errorf("%s: %w", op, e.ErrUnauthorized)
	}

	c := &domain.Case{
		ID:         uuid.New(),
		ReporterID: actor.ID,
		Location:   req.Location,
		Lat:        req.Lat,
		Lng:        req.Lng,
		Status:     domain.CaseOpen,
		Needs:      req.Needs,
		Photos:     req.Photos,
		Videos:     req.Videos,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return uuid.Nil, err
	}

	s.logger.Info("case created",
		slog.String("id", c.ID.String()),
		slog.String("reporter", actor.ID),
		slog.String("location", c.Location),
	)
	return c.ID, nil
}

func (s *caseService) Get(ctx context.Context, id uuid.UUID) (*domain.Case, error) {
	if s.cache != nil {
		if c, err := s.cache.Get(ctx, id); err != nil {
			s.logger.Warn("case cache get failed", slog.Any("error", err))
		} else if c != nil {
			return c, nil
		}
	}

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, c, s.cacheTTL); err != nil {
			s.logger.Warn("case cache set failed", slog.Any("error", err))
		}
	}
	return c, nil
}

func (s *caseService) Update(ctx context.Context, id uuid.UUID, req domain.UpdateCaseRequest, actor domain.Actor) error {
	const op = "service.Case.Update"

	if err := validator.ValidateStruct(req); err != nil {
		return validator.ValidationMessage(err)
	}

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanEditCase(c) {
		return fmt.Errorf("%s: %w", op, e.ErrForbidden)
	}

	// Only submitted fields are applied; everything else is left as stored.
	if req.Location != nil {
		c.Location = *req.Location
	}
	if req.Lat != nil {
		c.Lat = req.Lat
	}
	if req.Lng != nil {
		c.Lng = req.Lng
	}
	if err := checkCoordinatePair(c.Lat, c.Lng); err != nil {
		return err
	}
	if len(req.Needs) > 0 {
		c.Needs = req.Needs
	}
	if len(req.Photos) > 0 {
		c.Photos = append(c.Photos, req.Photos...)
	}
	if len(req.Videos) > 0 {
		c.Videos = append(c.Videos, req.Videos...)
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *caseService) Resolve(ctx context.Context, id uuid.UUID, req domain.ResolveCaseRequest, actor domain.Actor) error {
	const op = "service.Case.Resolve"

	if req.Notes == "" {
		return e.Validation("resolution_notes", "required")
	}
	if err := validator.ValidateStruct(req); err != nil {
		return validator.ValidationMessage(err)
	}

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanResolve() {
		return fmt.Errorf("%s: %w", op, e.ErrForbidden)
	}
	if c.Status == domain.CaseResolved {
		return fmt.Errorf("%s: case already resolved: %w", op, e.ErrConflict)
	}

	now := time.Now().UTC()
	c.Status = domain.CaseResolved
	c.ResolutionNotes = req.Notes
	c.ResolutionPhotos = append(c.ResolutionPhotos, req.Photos...)
	c.ResolutionVideos = append(c.ResolutionVideos, req.Videos...)
	c.ResolutionPDFs = append(c.ResolutionPDFs, req.PDFs...)
	c.ResolvedAt = &now

	if err := s.repo.Update(ctx, c); err != nil {
		return err
	}
	s.invalidate(ctx, id)

	if s.queue != nil {
		event := domain.ResolutionEvent{
			CaseID:     c.ID,
			ResolvedBy: actor.ID,
			Location:   c.Location,
			Needs:      c.Needs,
			Notes:      c.ResolutionNotes,
			ResolvedAt: now,
		}
		if err := s.queue.Enqueue(ctx, event); err != nil {
			// Notification is best-effort; the resolution itself stands.
			s.logger.Error("enqueue resolution event failed", slog.Any("error", err))
		}
	}

	s.logger.Info("case resolved",
		slog.String("id", c.ID.String()),
		slog.String("resolved_by", actor.ID),
	)
	return nil
}

func (s *caseService) RemoveMedia(ctx context.Context, id uuid.UUID, req domain.RemoveMediaRequest, actor domain.Actor) error {
	const op = "service.Case.RemoveMedia"

	if err := validator.ValidateStruct(req); err != nil {
		return validator.ValidationMessage(err)
	}

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanEditCase(c) {
		return fmt.Errorf("%s: %w", op, e.ErrForbidden)
	}
	if !c.DetachMedia(req.Type, req.URL) {
		return fmt.Errorf("%s: media url not attached: %w", op, e.ErrNotFound)
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *caseService) Delete(ctx context.Context, id uuid.UUID, actor domain.Actor) error {
	const op = "service.Case.Delete"

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanDeleteCase(c) {
		return fmt.Errorf("%s: %w", op, e.ErrForbidden)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *caseService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("case cache invalidate failed", slog.String("id", id.String()), slog.Any("error", err))
	}
}

// checkCoordinatePair rejects a lone latitude or longitude; the pair is
// optional but indivisible.
func checkCoordinatePair(lat, lng *float64) error {
	if (lat == nil) == (lng == nil) {
		return nil
	}
	if lat == nil {
		return e.Validation("latitude", "required when longitude is set")
	}
	return e.Validation("longitude", "required when latitude is set")
}
