package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinaysudani/task-manager-api/internal/utils"
)

// The set-membership lookup needs a live database; these tests cover the
// rejection paths that fail before the lookup is reached.

func runAuth(t *testing.T, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth("testsecret", nil)
	err := mw(func(echo.Context) error {
		t.Fatal("handler must not run for unauthenticated requests")
		return nil
	})(c)
	require.NoError(t, err)
	return rec
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	rec := runAuth(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please authenticate")
}

func TestAuthRejectsNonBearerHeader(t *testing.T) {
	rec := runAuth(t, "Basic YWxpY2U6c2VjcmV0")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsMalformedToken(t *testing.T) {
	rec := runAuth(t, "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsTokenSignedWithOtherSecret(t *testing.T) {
	raw, err := utils.SignAuthToken("othersecret", "64a1f0c2d3e4f5a6b7c8d9e0")
	require.NoError(t, err)
	rec := runAuth(t, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsNonObjectIDSubject(t *testing.T) {
	raw, err := utils.SignAuthToken("testsecret", "alice")
	require.NoError(t, err)
	rec := runAuth(t, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
