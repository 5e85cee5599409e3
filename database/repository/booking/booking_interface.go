package bookingRepo

import (
	"context"
	"errors"
	"time"

	"barkbox/models"
)

// ErrStaleStatus is returned when a status write loses to a concurrent change.
var ErrStaleStatus = errors.New("booking status changed concurrently")

// SlotQuery selects active bookings occupying a slot.
type SlotQuery struct {
	Slot      models.Slot
	ExcludeID string // skip this booking, used when re-checking an update
	// Exact matches appointmentDate to the instant instead of the whole day.
	Exact bool
}

// ListFilter holds the optional AND-ed criteria of a booking listing.
type ListFilter struct {
	Service   models.ServiceType
	Status    models.BookingStatus
	PetOwner  string
	StartDate *time.Time // inclusive day
	EndDate   *time.Time // inclusive day
	Date      *time.Time // single day, overrides the range
}

// SortKey orders a listing by one field.
type SortKey struct {
	Field string
	Desc  bool
}

// ListQuery is a complete, bounded listing request.
type ListQuery struct {
	Filter ListFilter
	Sort   []SortKey
	Page   models.PageRequest
}

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	// Create inserts a new booking. A slot collision surfaces as repository.ErrDuplicate.
	Create(ctx context.Context, b *models.Booking) error
	// GetByID retrieves a booking by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// ExistsInSlot reports whether an active booking occupies the slot.
	ExistsInSlot(ctx context.Context, q SlotQuery) (bool, error)
	// Update applies the non-nil patch fields and returns the updated booking.
	Update(ctx context.Context, id string, patch models.BookingPatch) (*models.Booking, error)
	// UpdateStatus moves a booking from one status to another, failing with
	// ErrStaleStatus if it is no longer in the expected status.
	UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus, at time.Time) (*models.Booking, error)
	// DeleteUnlessStatus removes a booking unless it is in the protected status
	// and returns the removed document.
	DeleteUnlessStatus(ctx context.Context, id string, protected models.BookingStatus) (*models.Booking, error)
	// List returns one page of matching bookings and the total match count.
	List(ctx context.Context, q ListQuery) ([]models.Booking, int64, error)
	// EnsureIndexes creates the collection indexes.
	EnsureIndexes(ctx context.Context) error
}
