package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/parapharma/shop/internal/models"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// Gate resolves the bearer credential in the Authorization header to a user
// identity and role for every protected route.
type Gate struct {
	DB     *gorm.DB
	Secret []byte
}

// Protect rejects requests without a valid bearer token or whose subject no
// longer exists, and attaches (user_id, role) to the echo context.
func (g *Gate) Protect(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, no token")
		}

		userID, err := ParseToken(strings.TrimPrefix(header, "Bearer "), g.Secret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, token failed")
		}

		var user models.User
		if err := g.DB.WithContext(c.Request().Context()).
			Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, user not found")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}

		c.Set(ContextUserID, user.ID.String())
		c.Set(ContextRole, user.Role)
		return next(c)
	}
}

// Identify is the optional variant of Protect: a valid bearer token attaches
// the identity, anything else falls through as an anonymous request.
func (g *Gate) Identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return next(c)
		}

		userID, err := ParseToken(strings.TrimPrefix(header, "Bearer "), g.Secret)
		if err != nil {
			return next(c)
		}

		var user models.User
		if err := g.DB.WithContext(c.Request().Context()).
			Where("id = ?", userID).First(&user).Error; err != nil {
			return next(c)
		}

		c.Set(ContextUserID, user.ID.String())
		c.Set(ContextRole, user.Role)
		return next(c)
	}
}

// RequireRole gates a route group to a single role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r, ok := c.Get(ContextRole).(string); !ok || r != role {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authorized for this resource")
			}
			return next(c)
		}
	}
}

// UserID extracts the authenticated user id set by Protect.
func UserID(c echo.Context) (uuid.UUID, error) {
	v := c.Get(ContextUserID)
	s, ok := v.(string)
	if !ok || s == "" {
		return uuid.Nil, errors.New("unauthorized")
	}

	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.New("unauthorized")
	}
	return userID, nil
}

// Role extracts the authenticated role set by Protect.
func Role(c echo.Context) string {
	if r, ok := c.Get(ContextRole).(string); ok {
		return r
	}
	return ""
}
