package domain

import "time"

// User models a registered author.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the caller identity carried by a verified token. It reflects the
// user as of token issuance and is never re-read from storage.
type Identity struct {
	UserID    int64
	Username  string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
