package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vinaysudani/task-manager-api/internal/repository"
	"github.com/vinaysudani/task-manager-api/internal/utils"
)

// UploadAvatar handles POST /users/me/avatar.  The multipart file is
// validated (presence, extension, size), normalized to a 250x250 PNG and
// stored as binary on the user document.
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Please authenticate"})
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		return fieldError(c, "avatar", "Please upload image")
	}
	if !utils.AllowedAvatarExt(fh.Filename) {
		return fieldError(c, "avatar", "Please upload jpg, jpeg or png image")
	}
	if fh.Size > utils.AvatarMaxBytes {
		return fieldError(c, "avatar", "Please upload image smaller than 1 MB")
	}

	f, err := fh.Open()
	if err != nil {
		c.Logger().Errorf("avatar upload: open: %v", err)
		return internalError(c)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.Logger().Errorf("avatar upload: read: %v", err)
		return internalError(c)
	}

	normalized, err := utils.NormalizeAvatar(data)
	if err != nil {
		// Extension said image but the bytes disagree.
		return fieldError(c, "avatar", "Please upload image")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Users.SetAvatar(ctx, u.ID, normalized); err != nil {
		c.Logger().Errorf("avatar upload: store: %v", err)
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Profile picture updated successfully"})
}

// DeleteAvatar handles DELETE /users/me/avatar.
func (h *UserHandler) DeleteAvatar(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Please authenticate"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Users.UnsetAvatar(ctx, u.ID); err != nil {
		c.Logger().Errorf("avatar delete: %v", err)
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Profile picture removed successfully"})
}

// GetAvatar handles GET /users/:id/avatar.  It is public; a missing user
// and a user without an avatar both respond 404.
func (h *UserHandler) GetAvatar(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		c.Logger().Errorf("avatar fetch: %v", err)
		return internalError(c)
	}
	if len(u.Avatar) == 0 {
		return c.NoContent(http.StatusNotFound)
	}
	return c.Blob(http.StatusOK, "image/png", u.Avatar)
}
