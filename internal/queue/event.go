// Package queue defines message payloads exchanged over the message broker.
package queue

// Account event types.  Welcome mail goes out after registration,
// cancelation mail after account deletion.
const (
	EventWelcome     = "welcome"
	EventCancelation = "cancelation"
)

// AccountEvent is published when an account is created or deleted.  It
// carries everything the mail consumer needs so delivery never queries the
// primary database.
type AccountEvent struct {
	Type       string `json:"type"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	OccurredAt string `json:"occurred_at"`
}
