package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/quillpad/blog-api/internal/api/metrics"
	"github.com/quillpad/blog-api/internal/core/domain"
	"github.com/quillpad/blog-api/internal/core/ports"
)

// IdentityKey is the echo.Context key holding the verified *domain.Identity.
const IdentityKey = "identity"

const (
	msgTokenRequired = "Access token required"
	msgTokenInvalid  = "Invalid or expired token"
)

// Auth verifies the bearer token and injects the caller identity into the
// context. It never touches storage: the identity is whatever the token says.
//
//   - no header, non-bearer scheme, or empty token → 401
//   - token fails verification                      → 403
func Auth(verifier ports.TokenService, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				m.AuthRejected("missing")
				return echo.NewHTTPError(http.StatusUnauthorized, msgTokenRequired).
					SetInternal(domain.ErrTokenMissing)
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				m.AuthRejected("invalid")
				return echo.NewHTTPError(http.StatusForbidden, msgTokenInvalid).
					SetInternal(domain.ErrTokenInvalid)
			}

			c.Set(IdentityKey, identity)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c echo.Context) (*domain.Identity, bool) {
	id, ok := c.Get(IdentityKey).(*domain.Identity)
	return id, ok && id != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
