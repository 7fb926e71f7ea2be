package middleware // reusable HTTP middleware functions

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vinaysudani/task-manager-api/internal/model"
	"github.com/vinaysudani/task-manager-api/internal/repository"
	"github.com/vinaysudani/task-manager-api/internal/utils"
)

// Context keys under which Auth stores the resolved identity.
const (
	UserKey  = "user"
	TokenKey = "token"
)

// Auth returns an Echo middleware that authenticates a Bearer token and
// attaches the resolved user plus the raw token to the request context.
// Signature validity alone is not enough: the token must still be a member
// of the user's stored token set, so revoked tokens are rejected even when
// they parse cleanly.  Every failure mode gets the same generic 401.
func Auth(secret string, tokens *repository.TokenRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return unauthorized(c)
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			sub, err := utils.ParseAuthToken(secret, raw)
			if err != nil {
				return unauthorized(c)
			}
			id, err := primitive.ObjectIDFromHex(sub)
			if err != nil {
				return unauthorized(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			user, err := tokens.FindUserByToken(ctx, id, raw)
			if err != nil {
				return unauthorized(c)
			}

			c.Set(UserKey, user)
			c.Set(TokenKey, raw)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Please authenticate"})
}

// CurrentUser returns the authenticated user attached by Auth.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(UserKey).(model.User)
	return u, ok
}

// CurrentToken returns the raw bearer token attached by Auth.
func CurrentToken(c echo.Context) string {
	t, _ := c.Get(TokenKey).(string)
	return t
}
