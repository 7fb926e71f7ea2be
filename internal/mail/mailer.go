// Package mail delivers account lifecycle email through SendGrid.
package mail

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender sends transactional account mail.  When constructed without an API
// key it turns into a no-op that only logs, so local development works
// without SendGrid credentials.
type Sender struct {
	client *sendgrid.Client
	from   string
}

// NewSender builds a Sender.  An empty apiKey disables delivery.
func NewSender(apiKey, from string) *Sender {
	s := &Sender{from: from}
	if apiKey != "" {
		s.client = sendgrid.NewSendClient(apiKey)
	}
	return s
}

// SendWelcome greets a freshly registered user.
func (s *Sender) SendWelcome(email, name string) error {
	subject, body := welcomeMessage(name)
	return s.send(email, subject, body)
}

// SendCancelation says goodbye after an account is deleted.
func (s *Sender) SendCancelation(email, name string) error {
	subject, body := cancelationMessage(name)
	return s.send(email, subject, body)
}

func welcomeMessage(name string) (subject, body string) {
	return "Thanks for joining in!",
		fmt.Sprintf("Welcome to the app, %s. Let me know how you get along with the app.", name)
}

func cancelationMessage(name string) (subject, body string) {
	return "Sorry to see you going",
		fmt.Sprintf("Hi %s, can you please let us know why you are leaving us?", name)
}

func (s *Sender) send(to, subject, body string) error {
	if s.client == nil {
		log.Printf("mail: delivery disabled, skipping %q to %s", subject, to)
		return nil
	}
	msg := sgmail.NewSingleEmail(
		sgmail.NewEmail("Task Manager", s.from),
		subject,
		sgmail.NewEmail("", to),
		body,
		body,
	)
	resp, err := s.client.Send(msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: unexpected status %d", resp.StatusCode)
	}
	return nil
}
