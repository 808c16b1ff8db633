package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillpad/blog-api/internal/api/middleware"
	"github.com/quillpad/blog-api/internal/core/domain"
)

// ctxIdentity returns the identity injected by the Auth middleware. Its
// absence means the route was mounted without the gate.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Access token required").
			SetInternal(domain.ErrTokenMissing)
	}
	return id, nil
}

// badRequest is a 400 carrying msg to the client and cause for errors.Is.
func badRequest(msg string, cause error) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg).SetInternal(cause)
}
