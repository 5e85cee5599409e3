package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"barkbox/models"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingCreatedEmail = "email:booking_created"
	TypeBookingStatusEmail  = "email:booking_status"

	// QueueNotifications is the asynq queue email tasks run on.
	QueueNotifications = "notifications"
)

// BookingEmailPayload identifies the booking an email is about.
type BookingEmailPayload struct {
	BookingID string               `json:"bookingId"`
	Status    models.BookingStatus `json:"status"` // status at the time the event happened
}

func emailOptions() []asynq.Option {
	return []asynq.Option{
		asynq.Queue(QueueNotifications),
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
	}
}

// NewBookingCreatedTask builds the "booking created" email task.
func NewBookingCreatedTask(b *models.Booking) (*asynq.Task, []asynq.Option, error) {
	return newBookingTask(TypeBookingCreatedEmail, b)
}

// NewBookingStatusTask builds the "status changed" email task.
func NewBookingStatusTask(b *models.Booking) (*asynq.Task, []asynq.Option, error) {
	return newBookingTask(TypeBookingStatusEmail, b)
}

func newBookingTask(typename string, b *models.Booking) (*asynq.Task, []asynq.Option, error) {
	payload, err := json.Marshal(BookingEmailPayload{BookingID: b.ID, Status: b.Status})
	if err != nil {
		return nil, nil, err
	}
	return asynq.NewTask(typename, payload), emailOptions(), nil
}

// ParseBookingEmailPayload decodes a task payload.
func ParseBookingEmailPayload(t *asynq.Task) (BookingEmailPayload, error) {
	var p BookingEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid %s payload: %w", t.Type(), err)
	}
	if p.BookingID == "" {
		return p, fmt.Errorf("invalid %s payload: missing bookingId", t.Type())
	}
	return p, nil
}
