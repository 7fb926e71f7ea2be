package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWelcomeMessage(t *testing.T) {
	subject, body := welcomeMessage("Alice")
	assert.Equal(t, "Thanks for joining in!", subject)
	assert.Contains(t, body, "Welcome to the app, Alice")
}

func TestCancelationMessage(t *testing.T) {
	subject, body := cancelationMessage("Alice")
	assert.Equal(t, "Sorry to see you going", subject)
	assert.Contains(t, body, "Hi Alice")
}

func TestSenderWithoutAPIKeyIsNoop(t *testing.T) {
	s := NewSender("", "noreply@example.com")
	assert.NoError(t, s.SendWelcome("alice@x.com", "Alice"))
	assert.NoError(t, s.SendCancelation("alice@x.com", "Alice"))
}
