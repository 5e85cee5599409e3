package booking

import (
	"context"
	"fmt"
	"time"

	bookingRepo "barkbox/database/repository/booking"
	"barkbox/models"
	"barkbox/utils/apperr"
)

// MatchMode selects how appointment dates are compared.
type MatchMode int

const (
	// MatchDayRange treats any instant within the UTC day as the same date.
	MatchDayRange MatchMode = iota
	// MatchExactInstant requires the stored date to equal the given instant.
	MatchExactInstant
)

// SlotReader is the read side a conflict check needs.
type SlotReader interface {
	ExistsInSlot(ctx context.Context, q bookingRepo.SlotQuery) (bool, error)
}

// SlotConflictChecker decides whether a slot is already held by an active booking.
type SlotConflictChecker struct {
	reader SlotReader
	mode   MatchMode
}

// NewSlotConflictChecker creates a day-range checker over reader.
func NewSlotConflictChecker(reader SlotReader) *SlotConflictChecker {
	return &SlotConflictChecker{reader: reader, mode: MatchDayRange}
}

// WithMode returns a copy of the checker using mode.
func (c *SlotConflictChecker) WithMode(mode MatchMode) *SlotConflictChecker {
	cp := *c
	cp.mode = mode
	return &cp
}

// HasConflict reports whether an active booking other than excludeID holds
// (service, date, timeOfDay).
func (c *SlotConflictChecker) HasConflict(ctx context.Context, service models.ServiceType, date time.Time, timeOfDay, excludeID string) (bool, error) {
	if !service.Valid() {
		return false, apperr.Validation("invalid service", apperr.FieldError{Field: "service", Message: "must be one of [veterinary grooming training]"})
	}
	normalized, err := models.NormalizeTimeOfDay(timeOfDay)
	if err != nil {
		return false, apperr.Validation("invalid appointment time", apperr.FieldError{Field: "appointmentTime", Message: "must be a valid time in HH:MM format"})
	}

	q := bookingRepo.SlotQuery{
		Slot:      models.Slot{Service: service, Date: models.DayStart(date), Time: normalized},
		ExcludeID: excludeID,
	}
	if c.mode == MatchExactInstant {
		q.Slot.Date = date
		q.Exact = true
	}

	taken, err := c.reader.ExistsInSlot(ctx, q)
	if err != nil {
		return false, fmt.Errorf("conflict check: %w", err)
	}
	return taken, nil
}
