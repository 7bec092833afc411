package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/uzeyirmammadli/catcare-sub001/internal/domain"
	"github.com/uzeyirmammadli/catcare-sub001/pkg/e"
	"github.com/uzeyirmammadli/catcare-sub001/pkg/pagination"
	"github.com/uzeyirmammadli/catcare-sub001/pkg/validator"
)

type commentService struct {
	comments CommentRepository
	cases    CaseRepository
	logger   *slog.Logger
	pageSize int
}

func NewCommentService(comments CommentRepository, cases CaseRepository, logger *slog.Logger, pageSize int) CommentService {
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return &commentService{
		comments: comments,
		cases:    cases,
		logger:   logger,
		pageSize: pageSize,
	}
}

func (s *commentService) Add(ctx context.Context, caseID uuid.UUID, req domain.AddCommentRequest, actor domain.Actor) (uuid.UUID, error) {
	const op = "service.Comment.Add"

	if err := validator.ValidateStruct(req); err != nil {
		return uuid.Nil, validator.ValidationMessage(err)
	}
	if actor.ID == "" {
		return uuid.Nil, fmt.Errorf("%s: %w", op, e.ErrUnauthorized)
	}

	// Commenting on a vanished case is a 404, not an orphan row.
	if _, err := s.cases.Get(ctx, caseID); err != nil {
		return uuid.Nil, err
	}

	c := &domain.Comment{
		ID:      uuid.New(),
		CaseID:  caseID,
		UserID:  actor.ID,
		Content: req.Content,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return uuid.Nil, err
	}

	return c.ID, nil
}

func (s *commentService) Edit(ctx context.Context, id uuid.UUID, req domain.EditCommentRequest, actor domain.Actor) error {
	const op = "service.Comment.Edit"

	if err := validator.ValidateStruct(req); err != nil {
		return validator.ValidationMessage(err)
	}

	c, err := s.comments.Get(ctx, id)
	if err != nil {
		return err
	}
	// Author-owned: not even admins edit someone else's words.
	if c.UserID != actor.ID {
		return fmt.Errorf("%s: %w", op, e.ErrForbidden)
	}

	c.Content = req.Content
	return s.comments.Update(ctx, c)
}

func (s *commentService) Delete(ctx context.Context, id uuid.UUID, actor domain.Actor) error {
	const op = "service.Comment.Delete"

	c, err := s.comments.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.UserID != actor.ID {
		return fmt.Errorf("%s: %w", op, e.ErrForbidden)
	}

	return s.comments.Delete(ctx, id)
}

func (s *commentService) ListByCase(ctx context.Context, caseID uuid.UUID, page int) (*domain.CommentPage, error) {
	if page < 1 {
		page = 1
	}

	comments, total, err := s.comments.ListByCase(ctx, caseID, page, s.pageSize)
	if err != nil {
		return nil, err
	}

	w := pagination.Paginate(total, s.pageSize, page)
	if w.Page != page {
		comments, total, err = s.comments.ListByCase(ctx, caseID, w.Page, s.pageSize)
		if err != nil {
			return nil, err
		}
		w = pagination.Paginate(total, s.pageSize, w.Page)
	}

	return &domain.CommentPage{Comments: comments, Pages: w}, nil
}
