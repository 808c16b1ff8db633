package ports

import (
	"context"

	"github.com/quillpad/blog-api/internal/core/domain"
)

// PostRepository defines persistence operations for posts. Every read joins
// the owner's username into domain.Post.Username.
type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id int64) (*domain.Post, error)
	// List returns all posts, newest first.
	List(ctx context.Context) ([]*domain.Post, error)
	// Update writes title, content and updated_at. The caller must have
	// already authorized the mutation.
	Update(ctx context.Context, p *domain.Post) (*domain.Post, error)
	Delete(ctx context.Context, id int64) error
}
