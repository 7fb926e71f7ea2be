package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedFields(t *testing.T) {
	allowed := []string{"title", "description", "completed"}

	assert.True(t, allowedFields(map[string]any{"title": "Buy milk"}, allowed...))
	assert.True(t, allowedFields(map[string]any{
		"title":       "Buy milk",
		"description": "2 liters",
		"completed":   true,
	}, allowed...))

	// A single stranger key rejects the whole payload.
	assert.False(t, allowedFields(map[string]any{"owner": "x"}, allowed...))
	assert.False(t, allowedFields(map[string]any{
		"title": "Buy milk",
		"owner": "x",
	}, allowed...))

	// Empty payload has no disallowed keys.
	assert.True(t, allowedFields(map[string]any{}, allowed...))
}
