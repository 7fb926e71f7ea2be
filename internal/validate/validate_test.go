package validate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRequiredFields(t *testing.T) {
	rules := []Rule{
		{Field: "name", Required: true, Trim: true, RequiredMessage: "The name field is required"},
		{Field: "age"},
	}

	errs := Run(context.Background(), Payload{}, rules)
	assert.Equal(t, map[string]string{"name": "The name field is required"}, errs)

	// Whitespace-only counts as empty after trimming.
	errs = Run(context.Background(), Payload{"name": "   "}, rules)
	assert.Equal(t, "The name field is required", errs["name"])

	errs = Run(context.Background(), Payload{"name": "Alice"}, rules)
	assert.Empty(t, errs)
}

func TestRunTrimWritesBack(t *testing.T) {
	payload := Payload{"name": "  Alice  "}
	errs := Run(context.Background(), payload, []Rule{
		{Field: "name", Required: true, Trim: true, RequiredMessage: "required"},
	})
	require.Empty(t, errs)
	assert.Equal(t, "Alice", payload.String("name"))
}

func TestRunFirstFailingCheckWins(t *testing.T) {
	rules := []Rule{{
		Field: "email", Required: true, RequiredMessage: "required",
		Checks: []Check{
			Email("Please enter valid email"),
			func(any, Payload) error { return errors.New("should not run") },
		},
	}}
	errs := Run(context.Background(), Payload{"email": "nope"}, rules)
	assert.Equal(t, "Please enter valid email", errs["email"])
}

func TestEmailCheck(t *testing.T) {
	check := Email("bad email")
	assert.NoError(t, check("alice@x.com", nil))
	assert.Error(t, check("alice", nil))
	assert.Error(t, check(42.0, nil))
}

func TestMinLenCheck(t *testing.T) {
	check := MinLen(7, "too short")
	assert.Error(t, check("secret", nil))
	assert.NoError(t, check("secret12", nil))
}

func TestPositiveIntCheck(t *testing.T) {
	check := PositiveInt("Age must be a positive number")
	assert.NoError(t, check(float64(30), nil))
	assert.NoError(t, check("30", nil))
	assert.Error(t, check(float64(0), nil))
	assert.Error(t, check(float64(-5), nil))
	assert.Error(t, check(float64(2.5), nil))
	assert.Error(t, check("thirty", nil))
}

func TestMatchesFieldCrossCheck(t *testing.T) {
	rules := []Rule{
		{Field: "password", Required: true, Trim: true, RequiredMessage: "required"},
		{Field: "confirm_password", Required: true, Trim: true, RequiredMessage: "required",
			Checks: []Check{MatchesField("password", "Confirm password should match with password")}},
	}

	errs := Run(context.Background(), Payload{"password": "secret12", "confirm_password": "secret13"}, rules)
	assert.Equal(t, "Confirm password should match with password", errs["confirm_password"])

	// Both sides are trimmed before comparison.
	errs = Run(context.Background(), Payload{"password": "secret12 ", "confirm_password": " secret12"}, rules)
	assert.Empty(t, errs)
}

func TestPayloadIntCoercesNumericStrings(t *testing.T) {
	p := Payload{"age": "30", "count": float64(7), "bad": "thirty"}
	assert.Equal(t, 30, p.Int("age"))
	assert.Equal(t, 7, p.Int("count"))
	assert.Equal(t, 0, p.Int("bad"))
	assert.Equal(t, 0, p.Int("missing"))
}

// A string age that passes PositiveInt must survive coercion: the value
// validation accepted can never collapse to zero on the way to the store.
func TestPayloadIntAgreesWithPositiveInt(t *testing.T) {
	p := Payload{"age": "30"}
	check := PositiveInt("Age must be a positive number")
	require.NoError(t, check(p["age"], p))
	assert.Equal(t, 30, p.Int("age"))
}

func TestRunPartialChecksOnlyPresentFields(t *testing.T) {
	rules := []Rule{
		{Field: "title", Required: true, Trim: true, RequiredMessage: "The title field is required"},
		{Field: "email", Required: true, RequiredMessage: "The email field is required",
			Checks: []Check{Email("Please enter valid email")}},
	}

	// Absent fields are left alone entirely.
	errs := RunPartial(context.Background(), Payload{}, rules)
	assert.Empty(t, errs)

	// A present-but-blank required field fails its rule.
	errs = RunPartial(context.Background(), Payload{"title": "   "}, rules)
	assert.Equal(t, map[string]string{"title": "The title field is required"}, errs)

	// Present fields run their full check chain.
	errs = RunPartial(context.Background(), Payload{"email": "nope"}, rules)
	assert.Equal(t, "Please enter valid email", errs["email"])

	errs = RunPartial(context.Background(), Payload{"title": "Buy milk"}, rules)
	assert.Empty(t, errs)
}

func TestRunAsyncChecksAllComplete(t *testing.T) {
	var calls int32
	asyncFail := func(ctx context.Context, value any, _ Payload) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("E-mail already in use")
	}
	asyncPass := func(ctx context.Context, value any, _ Payload) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}
	rules := []Rule{
		{Field: "email", Required: true, RequiredMessage: "required", Async: asyncFail},
		{Field: "name", Required: true, RequiredMessage: "required", Async: asyncPass},
	}

	errs := Run(context.Background(), Payload{"email": "alice@x.com", "name": "Alice"}, rules)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, map[string]string{"email": "E-mail already in use"}, errs)
}

func TestRunAsyncSkippedAfterSyncFailure(t *testing.T) {
	var called int32
	rules := []Rule{{
		Field: "email", Required: true, RequiredMessage: "required",
		Checks: []Check{Email("Please enter valid email")},
		Async: func(context.Context, any, Payload) error {
			atomic.AddInt32(&called, 1)
			return nil
		},
	}}
	errs := Run(context.Background(), Payload{"email": "not-an-email"}, rules)
	assert.Equal(t, "Please enter valid email", errs["email"])
	assert.Zero(t, atomic.LoadInt32(&called))
}

func TestMiddlewareShortCircuitsWithStructuredError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"email":"bad"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handlerRan := false
	mw := Middleware(
		Rule{Field: "name", Required: true, RequiredMessage: "The name field is required"},
		Rule{Field: "email", Required: true, RequiredMessage: "required",
			Checks: []Check{Email("Please enter valid email")}},
	)
	err := mw(func(echo.Context) error {
		handlerRan = true
		return nil
	})(c)
	require.NoError(t, err)

	assert.False(t, handlerRan)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Please correct the form errors", body.Message)
	assert.Equal(t, "The name field is required", body.Errors["name"])
	assert.Equal(t, "Please enter valid email", body.Errors["email"])
}

func TestMiddlewarePassesSanitizedPayload(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"  Alice  "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Middleware(Rule{Field: "name", Required: true, Trim: true, RequiredMessage: "required"})
	err := mw(func(c echo.Context) error {
		assert.Equal(t, "Alice", FromContext(c).String("name"))
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
