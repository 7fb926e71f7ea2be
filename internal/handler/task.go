package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vinaysudani/task-manager-api/internal/repository"
	"github.com/vinaysudani/task-manager-api/internal/validate"
)

// taskUpdatable is the allow-list for PATCH /tasks/:id.
var taskUpdatable = []string{"title", "description", "completed"}

// TaskHandler bundles dependencies for task endpoints.  Every method runs
// against the authenticated user attached by the auth middleware and scopes
// all queries to that owner.
type TaskHandler struct {
	Tasks *repository.TaskRepo
}

func NewTaskHandler(t *repository.TaskRepo) *TaskHandler {
	if t == nil {
		panic("nil repository passed to NewTaskHandler")
	}
	return &TaskHandler{Tasks: t}
}

// CreateRules declares the validation chain for POST /tasks.
func (h *TaskHandler) CreateRules() []validate.Rule {
	return []validate.Rule{
		{
			Field: "title", Required: true, Trim: true,
			RequiredMessage: "The title field is required",
		},
	}
}

// Create handles POST /tasks.  The authenticated user becomes the owner.
func (h *TaskHandler) Create(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Please authenticate"})
	}
	p := validate.FromContext(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.Tasks.Create(ctx, u.ID, p.String("title"), p.String("description"), p.Bool("completed"))
	if err != nil {
		c.Logger().Errorf("create task: %v", err)
		return internalError(c)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Task created successfully",
		"task":    t,
	})
}

// List handles GET /tasks with optional completed filter, field:direction
// sorting and pagination.  The response carries the total matching record
// count alongside the page.
func (h *TaskHandler) List(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Please authenticate"})
	}
	q := repository.ParseListQuery(c.QueryParams())

	ctx, cancel := requestContext(c)
	defer cancel()

	tasks, total, err := h.Tasks.List(ctx, u.ID, q)
	if err != nil {
		c.Logger().Errorf("list tasks: %v", err)
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"pagination": echo.Map{
			"total_records": total,
			"current_page":  q.CurrentPage,
			"per_page":      q.PerPage,
		},
		"tasks": tasks,
	})
}

// Get handles GET /tasks/:id.  A task owned by someone else responds
// exactly like a missing one.
func (h *TaskHandler) Get(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Please authenticate"})
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return noSuchTask(c)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.Tasks.GetByOwner(ctx, u.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return noSuchTask(c)
		}
		c.Logger().Errorf("get task: %v", err)
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"task": t})
}

// Update handles PATCH /tasks/:id with the task allow-list.
func (h *TaskHandler) Update(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Please authenticate"})
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return noSuchTask(c)
	}

	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return invalidUpdates(c)
	}
	if !allowedFields(body, taskUpdatable...) {
		return invalidUpdates(c)
	}
	// A task can never lose its title: the creation rules re-apply to
	// whichever fields the payload carries.
	if errs := validate.RunPartial(c.Request().Context(), validate.Payload(body), h.CreateRules()); len(errs) > 0 {
		return fieldErrors(c, errs)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.Tasks.ApplyUpdates(ctx, u.ID, id, body)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return noSuchTask(c)
		}
		c.Logger().Errorf("update task: %v", err)
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Task updated successfully",
		"task":    t,
	})
}

// Delete handles DELETE /tasks/:id, owner-scoped.
func (h *TaskHandler) Delete(c echo.Context) error {
	u, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Please authenticate"})
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return noSuchTask(c)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.Tasks.Delete(ctx, u.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return noSuchTask(c)
		}
		c.Logger().Errorf("delete task: %v", err)
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Task deleted successfully",
		"task":    t,
	})
}

func noSuchTask(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{"message": "No such task"})
}
