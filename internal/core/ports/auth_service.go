package ports

import (
	"context"

	"github.com/quillpad/blog-api/internal/core/domain"
)

// TokenService issues and verifies identity tokens.
type TokenService interface {
	Issue(userID int64, username, email string) (string, error)
	Verify(token string) (*domain.Identity, error)
}

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID int64) (*domain.User, error)
}
