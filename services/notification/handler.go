package notification

import (
	"context"
	"errors"
	"fmt"

	"barkbox/database/repository"
	"barkbox/models"
	"barkbox/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// BookingGetter loads a booking by ID.
type BookingGetter interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
}

// PersonGetter loads a person by ID.
type PersonGetter interface {
	GetByID(ctx context.Context, id string) (*models.Person, error)
}

// EmailTaskHandler renders and sends booking emails from queued tasks.
type EmailTaskHandler struct {
	bookings BookingGetter
	persons  PersonGetter
	mailer   Mailer
	logger   *zap.Logger
}

// NewEmailTaskHandler creates a handler for the email task types.
func NewEmailTaskHandler(bookings BookingGetter, persons PersonGetter, mailer Mailer, logger *zap.Logger) *EmailTaskHandler {
	return &EmailTaskHandler{bookings: bookings, persons: persons, mailer: mailer, logger: logger}
}

// Register binds the handler to its task types.
func (h *EmailTaskHandler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(tasks.TypeBookingCreatedEmail, h.HandleBookingCreated)
	mux.HandleFunc(tasks.TypeBookingStatusEmail, h.HandleBookingStatus)
}

func (h *EmailTaskHandler) HandleBookingCreated(ctx context.Context, t *asynq.Task) error {
	return h.handle(ctx, t, RenderBookingCreated)
}

func (h *EmailTaskHandler) HandleBookingStatus(ctx context.Context, t *asynq.Task) error {
	return h.handle(ctx, t, RenderBookingStatus)
}

type renderFunc func(*models.Booking, *models.PersonSummary) (Message, error)

func (h *EmailTaskHandler) handle(ctx context.Context, t *asynq.Task, render renderFunc) error {
	p, err := tasks.ParseBookingEmailPayload(t)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	b, err := h.bookings.GetByID(ctx, p.BookingID)
	if errors.Is(err, repository.ErrNotFound) {
		// Deleted before the worker got to it.
		h.logger.Info("Skipping email for missing booking", zap.String("type", t.Type()), zap.String("bookingID", p.BookingID))
		return nil
	}
	if err != nil {
		return err
	}
	if p.Status != "" {
		b.Status = p.Status
	}

	owner, err := h.persons.GetByID(ctx, b.PetOwner)
	if errors.Is(err, repository.ErrNotFound) {
		h.logger.Info("Skipping email for missing owner", zap.String("bookingID", b.ID), zap.String("ownerID", b.PetOwner))
		return nil
	}
	if err != nil {
		return err
	}

	msg, err := render(b, owner.Summary())
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if err := h.mailer.Send(ctx, msg); err != nil {
		h.logger.Warn("Email delivery failed", zap.String("type", t.Type()), zap.String("bookingID", b.ID), zap.Error(err))
		return err
	}
	h.logger.Info("Email sent", zap.String("type", t.Type()), zap.String("bookingID", b.ID))
	return nil
}
