package handler // handler defines http handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vinaysudani/task-manager-api/internal/middleware"
	"github.com/vinaysudani/task-manager-api/internal/model"
)

// currentUser fetches the authenticated user attached by the auth middleware.
func currentUser(c echo.Context) (model.User, bool) {
	return middleware.CurrentUser(c)
}

// allowedFields reports whether every key in the payload is part of the
// allow-list.  One stranger key rejects the whole update.
func allowedFields(payload map[string]any, allowed ...string) bool {
	for key := range payload {
		found := false
		for _, a := range allowed {
			if key == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// requestContext bounds the duration of database calls made by a handler.
func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

func invalidUpdates(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid updates"})
}

func internalError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Something went wrong"})
}

// fieldErrors responds with the same shape the validation middleware uses
// so clients see a single error format.
func fieldErrors(c echo.Context, errs map[string]string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"message": "Please correct the form errors",
		"errors":  errs,
	})
}

func fieldError(c echo.Context, field, message string) error {
	return fieldErrors(c, map[string]string{field: message})
}
