package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vinaysudani/task-manager-api/internal/config"
	"github.com/vinaysudani/task-manager-api/internal/middleware"
	"github.com/vinaysudani/task-manager-api/internal/queue"
	"github.com/vinaysudani/task-manager-api/internal/repository"
	queue_publisher "github.com/vinaysudani/task-manager-api/internal/service"
	"github.com/vinaysudani/task-manager-api/internal/utils"
	"github.com/vinaysudani/task-manager-api/internal/validate"
)

// userUpdatable is the allow-list for PATCH /users/me.
var userUpdatable = []string{"name", "email", "password", "age"}

// UserHandler bundles dependencies for account and session endpoints.
type UserHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Tasks  *repository.TaskRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo, tok *repository.TokenRepo, t *repository.TaskRepo) *UserHandler {
	if u == nil || tok == nil || t == nil {
		panic("nil repository passed to NewUserHandler")
	}
	return &UserHandler{Cfg: cfg, Users: u, Tokens: tok, Tasks: t}
}

// RegisterRules declares the validation chain for POST /users.  The email
// uniqueness check hits the database and therefore runs as an async check,
// concurrently with any other async rules on the route.
func (h *UserHandler) RegisterRules() []validate.Rule {
	return []validate.Rule{
		{
			Field: "name", Required: true, Trim: true,
			RequiredMessage: "The name field is required",
		},
		{
			Field: "email", Required: true, Trim: true,
			RequiredMessage: "The email field is required",
			Checks:          []validate.Check{validate.Email("Please enter valid email")},
			Async: func(ctx context.Context, value any, _ validate.Payload) error {
				email, _ := value.(string)
				taken, err := h.Users.EmailTaken(ctx, email)
				if err != nil {
					return errors.New("Unable to verify email")
				}
				if taken {
					return errors.New("E-mail already in use")
				}
				return nil
			},
		},
		{
			Field:  "age",
			Checks: []validate.Check{validate.PositiveInt("Age must be a positive number")},
		},
		{
			Field: "password", Required: true, Trim: true,
			RequiredMessage: "The password field is required",
			Checks:          []validate.Check{validate.MinLen(7, "Password should be of atleast 7 characters")},
		},
		{
			Field: "confirm_password", Required: true, Trim: true,
			RequiredMessage: "The confirm password field is required",
			Checks:          []validate.Check{validate.MatchesField("password", "Confirm password should match with password")},
		},
	}
}

// LoginRules declares the validation chain for POST /users/login.
func (h *UserHandler) LoginRules() []validate.Rule {
	return []validate.Rule{
		{
			Field: "email", Required: true, Trim: true,
			RequiredMessage: "The email field is required",
			Checks:          []validate.Check{validate.Email("Please enter valid email")},
		},
		{
			Field: "password", Required: true, Trim: true,
			RequiredMessage: "The password field is required",
		},
	}
}

// UpdateRules declares the invariants re-checked on PATCH /users/me.  The
// same field rules as registration apply, but only to the fields actually
// present in the payload; there is no confirm_password on update and email
// uniqueness is left to the index (a duplicate surfaces as 409).
func (h *UserHandler) UpdateRules() []validate.Rule {
	return []validate.Rule{
		{
			Field: "name", Required: true, Trim: true,
			RequiredMessage: "The name field is required",
		},
		{
			Field: "email", Required: true, Trim: true,
			RequiredMessage: "The email field is required",
			Checks:          []validate.Check{validate.Email("Please enter valid email")},
		},
		{
			Field:  "age",
			Checks: []validate.Check{validate.PositiveInt("Age must be a positive number")},
		},
		{
			Field: "password", Required: true, Trim: true,
			RequiredMessage: "The password field is required",
			Checks:          []validate.Check{validate.MinLen(7, "Password should be of atleast 7 characters")},
		},
	}
}

// Register handles POST /users: create the account, queue the welcome mail
// and hand back a fresh auth token.
func (h *UserHandler) Register(c echo.Context) error {
	p := validate.FromContext(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.Create(ctx, p.String("name"), p.String("email"), p.Int("age"), p.String("password"), h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			// The async validation rule normally catches this first; the
			// unique index is the backstop for racing registrations.
			return c.JSON(http.StatusConflict, echo.Map{"message": "E-mail already in use"})
		}
		c.Logger().Errorf("register: %v", err)
		return internalError(c)
	}

	// Fire and forget; a broker hiccup must not fail the registration.
	_ = queue_publisher.PublishAccountEvent(ctx, queue_publisher.NewAccountEvent(queue.EventWelcome, u.Email, u.Name))

	token, err := h.issueToken(ctx, u.ID)
	if err != nil {
		c.Logger().Errorf("register: issue token: %v", err)
		return internalError(c)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Account created successfully",
		"user":    u,
		"token":   token,
	})
}

// Login handles POST /users/login.  Unknown email and wrong password get
// the same generic response.
func (h *UserHandler) Login(c echo.Context) error {
	p := validate.FromContext(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.VerifyCredentials(ctx, p.String("email"), p.String("password"))
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid credentials"})
		}
		c.Logger().Errorf("login: %v", err)
		return internalError(c)
	}

	token, err := h.issueToken(ctx, u.ID)
	if err != nil {
		c.Logger().Errorf("login: issue token: %v", err)
		return internalError(c)
	}

	return c.JSON(http.StatusOK, echo.Map{"user": u, "token": token})
}

// Logout handles POST /users/logout: revoke the token this request was
// authenticated with, leaving other devices logged in.
func (h *UserHandler) Logout(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Please authenticate"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Tokens.Revoke(ctx, u.ID, middleware.CurrentToken(c)); err != nil {
		c.Logger().Errorf("logout: %v", err)
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// LogoutAll handles POST /users/logoutAll: clear the whole token set.
func (h *UserHandler) LogoutAll(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Please authenticate"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Tokens.RevokeAll(ctx, u.ID); err != nil {
		c.Logger().Errorf("logoutAll: %v", err)
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully from all devices"})
}

// Me handles GET /users/me.
func (h *UserHandler) Me(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Please authenticate"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// Update handles PATCH /users/me.  Any payload key outside the allow-list
// rejects the whole request before anything is written.
func (h *UserHandler) Update(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Please authenticate"})
	}

	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return invalidUpdates(c)
	}
	if !allowedFields(body, userUpdatable...) {
		return invalidUpdates(c)
	}
	// Allow-listed keys still have to satisfy the creation-time field
	// invariants before anything is written.
	if errs := validate.RunPartial(c.Request().Context(), validate.Payload(body), h.UpdateRules()); len(errs) > 0 {
		return fieldErrors(c, errs)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	updated, err := h.Users.ApplyUpdates(ctx, u.ID, body, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "E-mail already in use"})
		}
		c.Logger().Errorf("update profile: %v", err)
		return internalError(c)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Profile updated successfully",
		"user":    updated,
	})
}

// Delete handles DELETE /users/me.  Owned tasks are removed first, then the
// account itself; the cancelation mail is queued best effort.
func (h *UserHandler) Delete(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Please authenticate"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Tasks.DeleteAllForOwner(ctx, u.ID); err != nil {
		c.Logger().Errorf("delete account: cascade tasks: %v", err)
		return internalError(c)
	}
	if err := h.Users.Delete(ctx, u.ID); err != nil {
		c.Logger().Errorf("delete account: %v", err)
		return internalError(c)
	}

	_ = queue_publisher.PublishAccountEvent(ctx, queue_publisher.NewAccountEvent(queue.EventCancelation, u.Email, u.Name))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Account deleted successfully",
		"user":    u,
	})
}

func (h *UserHandler) issueToken(ctx context.Context, id primitive.ObjectID) (string, error) {
	token, err := utils.SignAuthToken(h.Cfg.JWTSecret, id.Hex())
	if err != nil {
		return "", err
	}
	if err := h.Tokens.Append(ctx, id, token); err != nil {
		return "", err
	}
	return token, nil
}
