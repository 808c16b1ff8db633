package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/quillpad/blog-api/internal/core/domain"
)

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, email, password string) (string, *domain.User, error) {
			if username != "alice" || email != "a@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s %s", username, email, password)
			}
			return "token123", &domain.User{ID: 1, Username: username, Email: email, PasswordHash: "hash"}, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, rec := newContext(http.MethodPost, "/api/register", `{"username":"alice","email":"a@example.com","password":"secret"}`, nil)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "User created successfully" || resp["token"] != "token123" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["username"] != "alice" || user["id"] != float64(1) {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash leaked: %+v", user)
	}
	if _, leaked := user["PasswordHash"]; leaked {
		t.Fatalf("password hash leaked: %+v", user)
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, email, password string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	for _, body := range []string{
		`{"username":"bob"}`,
		`{"username":"bob","email":"b@example.com"}`,
		`{"email":"b@example.com","password":"x"}`,
		`{"username":"","email":"b@example.com","password":"x"}`,
	} {
		c, _ := newContext(http.MethodPost, "/api/register", body, nil)
		err := handler.Register(c)
		expectHTTPError(t, err, http.StatusBadRequest, "All fields are required")
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation in chain, got %v", body, err)
		}
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, email, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, _ := newContext(http.MethodPost, "/api/register", `{"username":"bob","email":"b@example.com","password":"x"}`, nil)
	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, email, password string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, _ := newContext(http.MethodPost, "/api/register", "not-json", nil)
	expectHTTPError(t, handler.Register(c), http.StatusBadRequest, "Invalid request body")
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.User{ID: 3, Username: "alice", Email: email}, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, rec := newContext(http.MethodPost, "/api/login", `{"email":"alice@example.com","password":"secret"}`, nil)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" || resp["message"] != "Login successful" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "alice" || user["email"] != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, _ := newContext(http.MethodPost, "/api/login", `{"email":"alice@example.com"}`, nil)
	expectHTTPError(t, handler.Login(c), http.StatusBadRequest, "Email and password are required")
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, rec := newContext(http.MethodPost, "/api/login", `{"email":"x@example.com","password":"bad"}`, nil)
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("handler must leave rendering to the error handler")
	}
}

func TestUserHandler_Me(t *testing.T) {
	stub := &stubAuthService{
		meFn: func(ctx context.Context, userID int64) (*domain.User, error) {
			if userID != 5 {
				t.Fatalf("unexpected user id %d", userID)
			}
			return &domain.User{ID: 5, Username: "eve", Email: "eve@example.com"}, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/me", "", &domain.Identity{UserID: 5, Username: "eve"})
	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var user map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &user)
	if user["username"] != "eve" {
		t.Fatalf("unexpected payload: %+v", user)
	}
}

func TestUserHandler_Me_NoIdentity(t *testing.T) {
	handler := NewUserHandler(&stubAuthService{})

	c, _ := newContext(http.MethodGet, "/api/me", "", nil)
	expectHTTPError(t, handler.Me(c), http.StatusUnauthorized, "Access token required")
}

func TestUserHandler_Me_Deleted(t *testing.T) {
	stub := &stubAuthService{
		meFn: func(ctx context.Context, userID int64) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	handler := NewUserHandler(stub)

	c, _ := newContext(http.MethodGet, "/api/me", "", &domain.Identity{UserID: 5})
	if err := handler.Me(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
