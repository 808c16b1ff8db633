package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quillpad/blog-api/internal/core/domain"
)

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

const (
	insertPostSQL = `INSERT INTO posts (title, content, user_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`

	selectPostsSQL = `SELECT p.id, p.title, p.content, p.user_id, u.username, p.created_at, p.updated_at
FROM posts p JOIN users u ON u.id = p.user_id`

	selectPostByIDSQL = selectPostsSQL + ` WHERE p.id = ?`

	listPostsSQL = selectPostsSQL + ` ORDER BY p.created_at DESC, p.id DESC`

	updatePostSQL = `UPDATE posts SET title = ?, content = ?, updated_at = ? WHERE id = ?`

	deletePostSQL = `DELETE FROM posts WHERE id = ?`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var (
		p                    domain.Post
		createdAt, updatedAt int64
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.OwnerID, &p.Username, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return &p, nil
}

// Create inserts the post and reads it back with the owner's username.
// An unknown owner fails the foreign key and maps to domain.ErrUserNotFound.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	res, err := r.db.ExecContext(ctx, insertPostSQL,
		p.Title, p.Content, p.OwnerID, toMillis(p.CreatedAt), toMillis(p.UpdatedAt))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storageErr("insert post", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, storageErr("insert post id", err)
	}
	return r.FindByID(ctx, id)
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, selectPostByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, storageErr("find post", err)
	}
	return p, nil
}

func (r *PostRepository) List(ctx context.Context) ([]*domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, listPostsSQL)
	if err != nil {
		return nil, storageErr("list posts", err)
	}
	defer rows.Close()

	posts := make([]*domain.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, storageErr("scan post", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list posts", err)
	}
	return posts, nil
}

func (r *PostRepository) Update(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	res, err := r.db.ExecContext(ctx, updatePostSQL, p.Title, p.Content, toMillis(p.UpdatedAt), p.ID)
	if err != nil {
		return nil, storageErr("update post", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, storageErr("update post", err)
	}
	if n == 0 {
		return nil, domain.ErrPostNotFound
	}
	return r.FindByID(ctx, p.ID)
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deletePostSQL, id)
	if err != nil {
		return storageErr("delete post", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete post", err)
	}
	if n == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}
