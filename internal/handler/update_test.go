package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vinaysudani/task-manager-api/internal/middleware"
	"github.com/vinaysudani/task-manager-api/internal/model"
	"github.com/vinaysudani/task-manager-api/internal/repository"
)

// The update handlers must reject invalid field values before any write is
// attempted.  The zero-value repositories below would panic if a handler
// reached the store, so a 400 also proves no mutation was tried.

func patchContext(t *testing.T, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.UserKey, model.User{ID: primitive.NewObjectID()})
	return c, rec
}

func decodeFieldErrors(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Please correct the form errors", body.Message)
	return body.Errors
}

func TestTaskUpdateRejectsBlankTitle(t *testing.T) {
	h := &TaskHandler{Tasks: &repository.TaskRepo{}}
	c, rec := patchContext(t, "/tasks/"+primitive.NewObjectID().Hex(), `{"title":"   "}`)
	c.SetParamNames("id")
	c.SetParamValues(primitive.NewObjectID().Hex())

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errs := decodeFieldErrors(t, rec)
	assert.Equal(t, "The title field is required", errs["title"])
}

func TestTaskUpdateStillRejectsUnknownField(t *testing.T) {
	h := &TaskHandler{Tasks: &repository.TaskRepo{}}
	c, rec := patchContext(t, "/tasks/"+primitive.NewObjectID().Hex(), `{"owner":"x"}`)
	c.SetParamNames("id")
	c.SetParamValues(primitive.NewObjectID().Hex())

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid updates")
}

func TestUserUpdateRejectsInvalidFieldValues(t *testing.T) {
	h := &UserHandler{Users: &repository.UserRepo{}, Tokens: &repository.TokenRepo{}, Tasks: &repository.TaskRepo{}}

	cases := []struct {
		name  string
		body  string
		field string
		want  string
	}{
		{"negative age", `{"age":-5}`, "age", "Age must be a positive number"},
		{"invalid email", `{"email":"not-an-email"}`, "email", "Please enter valid email"},
		{"short password", `{"password":"short"}`, "password", "Password should be of atleast 7 characters"},
		{"blank name", `{"name":"  "}`, "name", "The name field is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := patchContext(t, "/users/me", tc.body)
			require.NoError(t, h.Update(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			errs := decodeFieldErrors(t, rec)
			assert.Equal(t, tc.want, errs[tc.field])
		})
	}
}
