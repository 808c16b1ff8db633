package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/quillpad/blog-api/internal/core/domain"
	"github.com/quillpad/blog-api/internal/core/ports"
)

// PostService implements post CRUD with owner-only mutation.
type PostService struct {
	repo   ports.PostRepository
	users  ports.UserRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewPostService(repo ports.PostRepository, users ports.UserRepository, logger zerolog.Logger) *PostService {
	return &PostService{repo: repo, users: users, logger: logger, now: utcNow}
}

func (s *PostService) List(ctx context.Context) ([]*domain.Post, error) {
	return s.repo.List(ctx)
}

func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a post owned by ownerID. The owner must exist.
func (s *PostService) Create(ctx context.Context, ownerID int64, in ports.PostInput) (*domain.Post, error) {
	if in.Title == "" || in.Content == "" {
		return nil, domain.ErrValidation
	}
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &domain.Post{
		Title:     in.Title,
		Content:   in.Content,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", ownerID).Msg("failed to create post")
		return nil, err
	}

	s.logger.Info().Int64("post_id", created.ID).Int64("user_id", ownerID).Msg("post created")
	return created, nil
}

// Update replaces title and content of a post owned by requesterID.
//
// The ownership check and the write are two separate store calls; a
// concurrent mutation of the same post between them is last-write-wins.
func (s *PostService) Update(ctx context.Context, id, requesterID int64, in ports.PostInput) (*domain.Post, error) {
	if in.Title == "" || in.Content == "" {
		return nil, domain.ErrValidation
	}

	post, err := s.authorize(ctx, id, requesterID, "update")
	if err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Content = in.Content
	post.UpdatedAt = s.nextUpdatedAt(post.UpdatedAt)

	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		s.logger.Error().Err(err).Int64("post_id", id).Msg("failed to update post")
		return nil, err
	}

	s.logger.Info().Int64("post_id", id).Int64("user_id", requesterID).Msg("post updated")
	return updated, nil
}

// Delete removes a post owned by requesterID.
func (s *PostService) Delete(ctx context.Context, id, requesterID int64) error {
	if _, err := s.authorize(ctx, id, requesterID, "delete"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("post_id", id).Msg("failed to delete post")
		return err
	}

	s.logger.Info().Int64("post_id", id).Int64("user_id", requesterID).Msg("post deleted")
	return nil
}

func (s *PostService) authorize(ctx context.Context, id, requesterID int64, op string) (*domain.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.AuthorizeMutation(post, requesterID); err != nil {
		s.logger.Warn().
			Int64("post_id", id).
			Int64("owner_id", post.OwnerID).
			Int64("requester_id", requesterID).
			Str("op", op).
			Msg("mutation denied")
		return nil, err
	}
	return post, nil
}

// nextUpdatedAt keeps updated_at strictly increasing even when the clock has
// not advanced past the stored value.
func (s *PostService) nextUpdatedAt(prev time.Time) time.Time {
	now := s.now()
	if !now.After(prev) {
		return prev.Add(time.Millisecond)
	}
	return now
}
