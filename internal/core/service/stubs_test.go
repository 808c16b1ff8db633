package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/quillpad/blog-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   map[int64]*domain.User
	nextID  int64
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := cloneUser(u)
	out.PasswordHash = ""
	return out, nil
}

type stubPostRepo struct {
	posts     map[int64]*domain.Post
	users     *stubUserRepo
	nextID    int64
	updateErr error
	deleteErr error
	updated   []int64
	deleted   []int64
}

func newStubPostRepo(users *stubUserRepo) *stubPostRepo {
	return &stubPostRepo{posts: make(map[int64]*domain.Post), users: users}
}

func (r *stubPostRepo) joined(p *domain.Post) *domain.Post {
	clone := *p
	if u, ok := r.users.users[p.OwnerID]; ok {
		clone.Username = u.Username
	}
	return &clone
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) (*domain.Post, error) {
	r.nextID++
	stored := *p
	stored.ID = r.nextID
	r.posts[stored.ID] = &stored
	return r.joined(&stored), nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id int64) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return r.joined(p), nil
}

func (r *stubPostRepo) List(_ context.Context) ([]*domain.Post, error) {
	out := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, r.joined(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *stubPostRepo) Update(_ context.Context, p *domain.Post) (*domain.Post, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	stored, ok := r.posts[p.ID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	stored.Title = p.Title
	stored.Content = p.Content
	stored.UpdatedAt = p.UpdatedAt
	r.updated = append(r.updated, p.ID)
	return r.joined(stored), nil
}

func (r *stubPostRepo) Delete(_ context.Context, id int64) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.posts, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// stubTokens issues "tok:<id>:<username>:<email>" and verifies nothing.
type stubTokens struct {
	issueErr error
}

func (s *stubTokens) Issue(userID int64, username, email string) (string, error) {
	if s.issueErr != nil {
		return "", s.issueErr
	}
	return fmt.Sprintf("tok:%d:%s:%s", userID, username, email), nil
}

func (s *stubTokens) Verify(string) (*domain.Identity, error) {
	return nil, errors.New("not implemented")
}

// steppingClock returns start, start+step, start+2*step, ...
type steppingClock struct {
	t    time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}
