package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mangaden/mangaden/pkg/errcodes"
)

// Middleware provides authentication middleware.
type Middleware struct {
	authService *Service
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{
		authService: authService,
	}
}

// Authenticate extracts and validates the bearer token from the Authorization
// header. If valid, it adds the user id and username to the context. If not
// authenticated, it returns 401.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return errcodes.Unauthorized("Authentication required")
		}

		claims, err := m.authService.ValidateToken(token)
		if err != nil {
			return errcodes.Unauthorized("Invalid or expired token")
		}

		c.Set("user_id", claims.UserID())
		c.Set("username", claims.Username)

		return next(c)
	}
}

// AuthenticateOptional extracts user info if a valid bearer token is present
// but doesn't require authentication.
func (m *Middleware) AuthenticateOptional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token := bearerToken(c); token != "" {
			claims, err := m.authService.ValidateToken(token)
			if err == nil {
				c.Set("user_id", claims.UserID())
				c.Set("username", claims.Username)
			}
		}
		return next(c)
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("Bearer "):])
}

// UserIDFromContext retrieves the user id from the Echo context.
func UserIDFromContext(c echo.Context) (string, bool) {
	userID, ok := c.Get("user_id").(string)
	if userID == "" {
		return "", false
	}
	return userID, ok
}

// UsernameFromContext retrieves the username from the Echo context.
func UsernameFromContext(c echo.Context) (string, bool) {
	username, ok := c.Get("username").(string)
	if username == "" {
		return "", false
	}
	return username, ok
}
