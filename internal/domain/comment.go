package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/uzeyirmammadli/catcare-sub001/pkg/pagination"
)

type Comment struct {
	ID        uuid.UUID `json:"id"`
	CaseID    uuid.UUID `json:"case_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CommentPage struct {
	Comments []*Comment        `json:"comments"`
	Pages    pagination.Window `json:"pagination"`
}

type AddCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type EditCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
