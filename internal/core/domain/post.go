package domain

import "time"

// Post is a text entry owned by exactly one user.
type Post struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	OwnerID int64  `json:"user_id"`
	// Username is the owner's username, joined on read.
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthorizeMutation decides whether requesterID may update or delete p.
// A nil post means the lookup found nothing.
func AuthorizeMutation(p *Post, requesterID int64) error {
	if p == nil {
		return ErrPostNotFound
	}
	if p.OwnerID != requesterID {
		return ErrForbidden
	}
	return nil
}
