// internal/delivery/gateway.go
package delivery

import (
	"context"

	"github.com/unclebandit/paigham-backend/internal/sendgrid"
)

// Message is one fully personalized message ready for a provider.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Gateway sends one message via an external provider, returning a pass/fail
// outcome. Implementations must not retry internally.
type Gateway interface {
	Send(ctx context.Context, msg Message) error
}

// EmailGateway delivers through the SendGrid mail API with a fixed sender
// identity.
type EmailGateway struct {
	client *sendgrid.Client
	from   sendgrid.Address
}

func NewEmailGateway(client *sendgrid.Client, from sendgrid.Address) *EmailGateway {
	return &EmailGateway{client: client, from: from}
}

func (g *EmailGateway) Send(ctx context.Context, msg Message) error {
	_, err := g.client.Send(ctx, sendgrid.Email{
		To:      msg.To,
		From:    g.from,
		Subject: msg.Subject,
		HTML:    msg.Body,
	})
	return err
}
