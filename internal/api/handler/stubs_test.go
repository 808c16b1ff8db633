package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/quillpad/blog-api/internal/api/middleware"
	"github.com/quillpad/blog-api/internal/core/domain"
	"github.com/quillpad/blog-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, email, password string) (string, *domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	meFn       func(ctx context.Context, userID int64) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, email, password string) (string, *domain.User, error) {
	return s.registerFn(ctx, username, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.meFn(ctx, userID)
}

type stubPostService struct {
	listFn   func(ctx context.Context) ([]*domain.Post, error)
	getFn    func(ctx context.Context, id int64) (*domain.Post, error)
	createFn func(ctx context.Context, ownerID int64, in ports.PostInput) (*domain.Post, error)
	updateFn func(ctx context.Context, id, requesterID int64, in ports.PostInput) (*domain.Post, error)
	deleteFn func(ctx context.Context, id, requesterID int64) error
}

func (s *stubPostService) List(ctx context.Context) ([]*domain.Post, error) { return s.listFn(ctx) }

func (s *stubPostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	return s.getFn(ctx, id)
}

func (s *stubPostService) Create(ctx context.Context, ownerID int64, in ports.PostInput) (*domain.Post, error) {
	return s.createFn(ctx, ownerID, in)
}

func (s *stubPostService) Update(ctx context.Context, id, requesterID int64, in ports.PostInput) (*domain.Post, error) {
	return s.updateFn(ctx, id, requesterID, in)
}

func (s *stubPostService) Delete(ctx context.Context, id, requesterID int64) error {
	return s.deleteFn(ctx, id, requesterID)
}

// newContext builds an echo context for method/target with an optional JSON
// body. A non-nil identity is injected as the Auth middleware would.
func newContext(method, target, body string, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(middleware.IdentityKey, identity)
	}
	return c, rec
}

// expectHTTPError asserts err is an *echo.HTTPError with the given status and message.
func expectHTTPError(t *testing.T, err error, code int, msg string) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	if he.Code != code || he.Message != msg {
		t.Fatalf("expected %d %q, got %d %v", code, msg, he.Code, he.Message)
	}
}
