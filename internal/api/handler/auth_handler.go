package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillpad/blog-api/internal/api/metrics"
	"github.com/quillpad/blog-api/internal/core/domain"
	"github.com/quillpad/blog-api/internal/core/ports"
)

const (
	msgRegisterFields = "All fields are required"
	msgLoginFields    = "Email and password are required"
	msgInvalidBody    = "Invalid request body"
)

type AuthHandler struct {
	authService ports.AuthService
	metrics     *metrics.Metrics
}

func NewAuthHandler(authService ports.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{authService: authService, metrics: m}
}

// Register creates a new user account and logs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(msgInvalidBody, err)
	}
	if err := c.Validate(&req); err != nil {
		h.metrics.Registration("invalid")
		return badRequest(msgRegisterFields, err)
	}

	token, user, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			h.metrics.Registration("invalid")
			return badRequest(msgRegisterFields, err)
		case errors.Is(err, domain.ErrUserExists):
			h.metrics.Registration("duplicate")
		}
		return err
	}

	h.metrics.Registration("created")
	return c.JSON(http.StatusCreated, authResponse{
		Message: "User created successfully",
		Token:   token,
		User:    user,
	})
}

// Login authenticates a user and returns a token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(msgInvalidBody, err)
	}
	if err := c.Validate(&req); err != nil {
		h.metrics.Login("invalid")
		return badRequest(msgLoginFields, err)
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			h.metrics.Login("invalid")
			return badRequest(msgLoginFields, err)
		case errors.Is(err, domain.ErrInvalidCredentials):
			h.metrics.Login("invalid_credentials")
		}
		return err
	}

	h.metrics.Login("success")
	return c.JSON(http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
}
