package ports

import (
	"context"

	"github.com/quillpad/blog-api/internal/core/domain"
)

// PostInput carries the mutable fields of a post.
type PostInput struct {
	Title   string
	Content string
}

// PostService defines use-case operations for posts. Reads are open to any
// authenticated caller; Update and Delete are restricted to the owner.
type PostService interface {
	List(ctx context.Context) ([]*domain.Post, error)
	Get(ctx context.Context, id int64) (*domain.Post, error)
	Create(ctx context.Context, ownerID int64, in PostInput) (*domain.Post, error)
	Update(ctx context.Context, id, requesterID int64, in PostInput) (*domain.Post, error)
	Delete(ctx context.Context, id, requesterID int64) error
}
