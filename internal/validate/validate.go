// Package validate implements the declarative request validation pipeline.
// A route declares an ordered list of field rules; the middleware evaluates
// them against the decoded JSON body before the handler runs and
// short-circuits with a structured 400 response when any rule fails.  The
// engine itself (Run) is a pure function over (payload, rules) so it can be
// exercised without HTTP machinery.
package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
)

// Payload is the decoded JSON request body a rule set runs against.
// Cross-field checks read sibling values directly from it.
type Payload map[string]any

// Has reports whether the key was present in the request body.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns the value for key when it is a string, otherwise "".
func (p Payload) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Int returns the value for key coerced to int.  JSON numbers decode as
// float64; numeric strings are converted the same way the checks accept
// them, so a value that validated never silently collapses to zero.
func (p Payload) Int(key string) int {
	switch v := p[key].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

// Bool returns the value for key when it is a bool, otherwise false.
func (p Payload) Bool(key string) bool {
	b, _ := p[key].(bool)
	return b
}

// Check is a synchronous predicate over a field value.  A non-nil error
// fails the rule and the error message becomes the field's message.
type Check func(value any, payload Payload) error

// AsyncCheck is a predicate that needs I/O, such as an email uniqueness
// lookup.  Async checks across all rules execute concurrently, and the
// pass/fail decision waits for every one of them.
type AsyncCheck func(ctx context.Context, value any, payload Payload) error

// Rule describes the validation applied to one payload field.  Sync checks
// run in order and the first failure wins; the async check only runs when
// every sync check passed.
type Rule struct {
	Field           string
	Required        bool
	RequiredMessage string
	Trim            bool
	Checks          []Check
	Async           AsyncCheck
}

// Run evaluates the rules against the payload and returns the failing
// fields keyed by name.  An empty map means the payload passed.  Trimmed
// string values are written back into the payload so handlers observe the
// sanitized form.
func Run(ctx context.Context, payload Payload, rules []Rule) map[string]string {
	errs := map[string]string{}

	type asyncJob struct {
		field string
		check AsyncCheck
		value any
	}
	var jobs []asyncJob

	for _, rule := range rules {
		value, present := payload[rule.Field]
		if rule.Trim {
			if s, ok := value.(string); ok {
				s = strings.TrimSpace(s)
				value = s
				payload[rule.Field] = s
			}
		}
		if isEmpty(value, present) {
			if rule.Required {
				errs[rule.Field] = rule.RequiredMessage
			}
			continue
		}
		failed := false
		for _, check := range rule.Checks {
			if err := check(value, payload); err != nil {
				errs[rule.Field] = err.Error()
				failed = true
				break
			}
		}
		if !failed && rule.Async != nil {
			jobs = append(jobs, asyncJob{rule.Field, rule.Async, value})
		}
	}

	// Sync phase is done mutating the payload; async checks may now read it
	// concurrently.
	if len(jobs) > 0 {
		var (
			mu sync.Mutex
			wg sync.WaitGroup
		)
		for _, job := range jobs {
			wg.Add(1)
			go func(j asyncJob) {
				defer wg.Done()
				if err := j.check(ctx, j.value, payload); err != nil {
					mu.Lock()
					errs[j.field] = err.Error()
					mu.Unlock()
				}
			}(job)
		}
		wg.Wait()
	}
	return errs
}

// RunPartial evaluates only the rules whose field is present in the
// payload.  PATCH handlers use it so that absent fields stay untouched
// while any field that is sent must satisfy the same invariants enforced
// at creation time (a present-but-empty required field fails its rule).
func RunPartial(ctx context.Context, payload Payload, rules []Rule) map[string]string {
	applicable := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		if payload.Has(rule.Field) {
			applicable = append(applicable, rule)
		}
	}
	return Run(ctx, payload, applicable)
}

func isEmpty(value any, present bool) bool {
	if !present || value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	return false
}

const payloadKey = "validated_payload"

// Middleware returns an Echo middleware that runs the rules against the
// request body.  On failure it responds 400 with the field messages and the
// handler never executes.  On success the sanitized payload is stashed on
// the context (see FromContext) and the body is restored for handlers that
// bind it themselves.
func Middleware(rules ...Rule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			payload := Payload{}
			req := c.Request()
			if req.Body != nil {
				body, err := io.ReadAll(req.Body)
				if err == nil && len(body) > 0 {
					// A malformed body validates like an empty one: the
					// required rules produce the field messages.
					_ = json.Unmarshal(body, &payload)
					req.Body = io.NopCloser(bytes.NewReader(body))
				}
			}

			if errs := Run(req.Context(), payload, rules); len(errs) > 0 {
				return c.JSON(http.StatusBadRequest, echo.Map{
					"message": "Please correct the form errors",
					"errors":  errs,
				})
			}

			c.Set(payloadKey, payload)
			return next(c)
		}
	}
}

// FromContext returns the payload stored by Middleware for the current
// request.
func FromContext(c echo.Context) Payload {
	if p, ok := c.Get(payloadKey).(Payload); ok {
		return p
	}
	return Payload{}
}
