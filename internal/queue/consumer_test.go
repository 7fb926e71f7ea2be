package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinaysudani/task-manager-api/internal/mail"
)

func TestHandleMessageDispatchesKnownEvents(t *testing.T) {
	sender := mail.NewSender("", "noreply@example.com") // no-op delivery

	for _, eventType := range []string{EventWelcome, EventCancelation} {
		body, err := json.Marshal(AccountEvent{Type: eventType, Email: "alice@x.com", Name: "Alice"})
		require.NoError(t, err)
		assert.NoError(t, handleMessage(body, sender))
	}
}

func TestHandleMessageRejectsUnknownType(t *testing.T) {
	sender := mail.NewSender("", "noreply@example.com")
	body, err := json.Marshal(AccountEvent{Type: "party", Email: "alice@x.com"})
	require.NoError(t, err)
	assert.Error(t, handleMessage(body, sender))
}

func TestHandleMessageRejectsMalformedBody(t *testing.T) {
	sender := mail.NewSender("", "noreply@example.com")
	assert.Error(t, handleMessage([]byte("{not json"), sender))
}
