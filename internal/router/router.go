package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/vinaysudani/task-manager-api/internal/handler"
	"github.com/vinaysudani/task-manager-api/internal/validate"
)

// Register wires every route of the API onto the Echo instance.  auth is
// the bearer-token middleware applied to protected routes; limit is the
// rate limiter applied to the two unauthenticated credential endpoints.
func Register(e *echo.Echo, u *handler.UserHandler, t *handler.TaskHandler, auth, limit echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	// Account creation and login are public, rate limited and validated
	// before the handler runs.
	e.POST("/users", u.Register, limit, validate.Middleware(u.RegisterRules()...))
	e.POST("/users/login", u.Login, limit, validate.Middleware(u.LoginRules()...))

	// Session and profile endpoints require a valid, non-revoked token.
	e.POST("/users/logout", u.Logout, auth)
	e.POST("/users/logoutAll", u.LogoutAll, auth)
	e.GET("/users/me", u.Me, auth)
	e.PATCH("/users/me", u.Update, auth)
	e.DELETE("/users/me", u.Delete, auth)
	e.POST("/users/me/avatar", u.UploadAvatar, auth)
	e.DELETE("/users/me/avatar", u.DeleteAvatar, auth)

	// Avatar retrieval is public so profile pictures can be embedded
	// anywhere; absent avatars respond 404.
	e.GET("/users/:id/avatar", u.GetAvatar)

	tasks := e.Group("/tasks", auth)
	tasks.POST("", t.Create, validate.Middleware(t.CreateRules()...))
	tasks.GET("", t.List)
	tasks.GET("/:id", t.Get)
	tasks.PATCH("/:id", t.Update)
	tasks.DELETE("/:id", t.Delete)
}
