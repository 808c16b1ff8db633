package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrUserExists         = errors.New("username or email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPostNotFound       = errors.New("post not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrTokenMissing       = errors.New("access token required")
	ErrTokenInvalid       = errors.New("invalid or expired token")
	// ErrStorage wraps unexpected failures of the underlying datastore.
	ErrStorage = errors.New("storage failure")
)
