package notification

import (
	"context"

	"barkbox/models"
)

// Dispatcher hands booking events to the email pipeline. Callers treat every
// error as non-fatal: the booking write has already committed.
type Dispatcher interface {
	BookingCreated(ctx context.Context, b *models.Booking) error
	BookingStatusChanged(ctx context.Context, b *models.Booking) error
}

// Message is one outgoing email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers a rendered email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
