package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quillpad/blog-api/internal/core/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const (
	insertUserSQL = `INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)`

	selectUserByEmailSQL = `SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?`

	selectUserByIDSQL = `SELECT id, username, email, created_at FROM users WHERE id = ?`
)

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL,
		user.Username, user.Email, user.PasswordHash, toMillis(user.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, storageErr("insert user", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, storageErr("insert user id", err)
	}

	created := *user
	created.ID = id
	created.CreatedAt = fromMillis(toMillis(user.CreatedAt))
	return &created, nil
}

// FindByEmail returns the user including its password hash.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var (
		u         domain.User
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, selectUserByEmailSQL, email).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storageErr("find user by email", err)
	}
	u.CreatedAt = fromMillis(createdAt)
	return &u, nil
}

// FindByID returns the user without its password hash.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var (
		u         domain.User
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, selectUserByIDSQL, id).
		Scan(&u.ID, &u.Username, &u.Email, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storageErr("find user by id", err)
	}
	u.CreatedAt = fromMillis(createdAt)
	return &u, nil
}
