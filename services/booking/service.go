package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"barkbox/database/repository"
	bookingRepo "barkbox/database/repository/booking"
	"barkbox/models"
	"barkbox/services/notification"
	"barkbox/utils"
	"barkbox/utils/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OwnerLookup resolves booking owners.
type OwnerLookup interface {
	GetByID(ctx context.Context, id string) (*models.Person, error)
	GetSummaries(ctx context.Context, ids []string) (map[string]*models.PersonSummary, error)
}

// PetLookup resolves pet profiles.
type PetLookup interface {
	GetByID(ctx context.Context, id string) (*models.PetProfile, error)
}

// ConflictChecker decides whether a slot is taken.
type ConflictChecker interface {
	HasConflict(ctx context.Context, service models.ServiceType, date time.Time, timeOfDay, excludeID string) (bool, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Bookings bookingRepo.BookingRepository
	Owners   OwnerLookup
	Pets     PetLookup
	Checker  ConflictChecker
	Notifier notification.Dispatcher
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewBookingService wires a service with the day-range conflict checker.
func NewBookingService(bookings bookingRepo.BookingRepository, owners OwnerLookup, pets PetLookup, notifier notification.Dispatcher, logger *zap.Logger) *DefaultBookingService {
	return &DefaultBookingService{
		Bookings: bookings,
		Owners:   owners,
		Pets:     pets,
		Checker:  NewSlotConflictChecker(bookings),
		Notifier: notifier,
		Logger:   logger,
		Now:      time.Now,
	}
}

var (
	errSlotTaken       = apperr.Conflict("this time slot is already booked for the selected service")
	errBookingNotFound = apperr.NotFound("booking not found")
	errNotYourBooking  = apperr.Forbidden("you do not have access to this booking")
)

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Create books a free slot for the requester (or, for privileged callers, the
// named owner) with status pending.
func (s *DefaultBookingService) Create(ctx context.Context, actor models.Actor, req CreateBookingRequest) (*models.BookingView, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	date, err := s.parseFutureDay("appointmentDate", req.AppointmentDate)
	if err != nil {
		return nil, err
	}
	timeOfDay, _ := models.NormalizeTimeOfDay(req.AppointmentTime)
	service := models.ServiceType(req.Service)

	ownerID := actor.ID
	if actor.IsPrivileged() && req.PetOwner != "" {
		ownerID = req.PetOwner
	}
	owner, err := s.Owners.GetByID(ctx, ownerID)
	if err != nil {
		return nil, s.storeError("load owner", err, apperr.NotFound("pet owner not found"))
	}

	petName := strings.TrimSpace(req.PetName)
	if req.Pet != "" {
		pet, err := s.ownedPet(ctx, req.Pet, ownerID)
		if err != nil {
			return nil, err
		}
		if petName == "" {
			petName = pet.Name
		}
	}
	if petName == "" {
		return nil, apperr.Validation("validation failed", apperr.FieldError{Field: "petName", Message: "is required"})
	}

	taken, err := s.Checker.HasConflict(ctx, service, date, timeOfDay, "")
	if err != nil {
		return nil, s.storeError("conflict check", err, nil)
	}
	if taken {
		return nil, errSlotTaken
	}

	now := s.now()
	b := &models.Booking{
		ID:              uuid.NewString(),
		Service:         service,
		PetOwner:        ownerID,
		Pet:             req.Pet,
		PetName:         petName,
		AppointmentTime: timeOfDay,
		Notes:           req.Notes,
		Price:           req.Price,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	b.SetAppointmentDate(date)
	b.SetStatus(models.StatusPending)

	if err := s.Bookings.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost the race to a concurrent booking of the same slot.
			return nil, errSlotTaken
		}
		return nil, s.storeError("create booking", err, nil)
	}
	s.Logger.Info("Booking created",
		zap.String("bookingID", b.ID),
		zap.String("service", string(b.Service)),
		zap.String("day", b.AppointmentDay),
		zap.String("time", b.AppointmentTime),
	)

	if err := s.Notifier.BookingCreated(ctx, b); err != nil {
		s.Logger.Warn("Booking created notification failed", zap.String("bookingID", b.ID), zap.Error(err))
	}
	return &models.BookingView{Booking: b, Owner: owner.Summary()}, nil
}

// Get returns one booking the actor may see.
func (s *DefaultBookingService) Get(ctx context.Context, actor models.Actor, id string) (*models.BookingView, error) {
	b, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, b), nil
}

// Update changes slot, pet, notes or price of a non-terminal booking,
// re-checking the slot when it moves.
func (s *DefaultBookingService) Update(ctx context.Context, actor models.Actor, id string, req UpdateBookingRequest) (*models.BookingView, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	patch := models.BookingPatch{
		Pet:     req.Pet,
		PetName: req.PetName,
		Notes:   req.Notes,
		Price:   req.Price,
	}
	if req.Service != nil {
		svc := models.ServiceType(*req.Service)
		patch.Service = &svc
	}
	if req.AppointmentDate != nil {
		date, err := s.parseFutureDay("appointmentDate", *req.AppointmentDate)
		if err != nil {
			return nil, err
		}
		patch.AppointmentDate = &date
	}
	if req.AppointmentTime != nil {
		t, _ := models.NormalizeTimeOfDay(*req.AppointmentTime)
		patch.AppointmentTime = &t
	}

	existing, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if existing.Status.IsTerminal() {
		return nil, apperr.InvalidState("a " + string(existing.Status) + " booking can no longer be changed")
	}

	if patch.Pet != nil && *patch.Pet != "" {
		pet, err := s.ownedPet(ctx, *patch.Pet, existing.PetOwner)
		if err != nil {
			return nil, err
		}
		if patch.PetName == nil {
			patch.PetName = &pet.Name
		}
	}

	if patch.TouchesSlot() {
		target := mergeSlot(existing.Slot(), patch)
		if !sameSlot(target, existing.Slot()) {
			taken, err := s.Checker.HasConflict(ctx, target.Service, target.Date, target.Time, existing.ID)
			if err != nil {
				return nil, s.storeError("conflict check", err, nil)
			}
			if taken {
				return nil, errSlotTaken
			}
		}
	}

	patch.UpdatedAt = s.now()
	updated, err := s.Bookings.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errSlotTaken
		}
		return nil, s.storeError("update booking", err, errBookingNotFound)
	}
	return s.view(ctx, updated), nil
}

// UpdateStatus applies a lifecycle transition. Re-applying the current status
// returns the booking unchanged and sends nothing.
func (s *DefaultBookingService) UpdateStatus(ctx context.Context, actor models.Actor, id string, status string) (*models.BookingView, error) {
	if !actor.IsPrivileged() {
		return nil, apperr.Forbidden("only admins and vendors can change booking status")
	}
	to := models.BookingStatus(strings.TrimSpace(status))
	if !to.Valid() {
		return nil, apperr.Validation("invalid status", apperr.FieldError{
			Field:   "status",
			Message: "must be one of [pending confirmed completed cancelled]",
		})
	}

	current, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeError("load booking", err, errBookingNotFound)
	}
	if current.Status == to {
		return s.view(ctx, current), nil
	}
	if !models.CanTransition(current.Status, to) {
		return nil, apperr.InvalidState("cannot change status from " + string(current.Status) + " to " + string(to))
	}

	updated, err := s.Bookings.UpdateStatus(ctx, id, current.Status, to, s.now())
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStaleStatus) {
			return nil, apperr.Conflict("booking was modified concurrently, reload and retry")
		}
		return nil, s.storeError("update status", err, nil)
	}
	s.Logger.Info("Booking status changed",
		zap.String("bookingID", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(to)),
		zap.String("actor", actor.ID),
	)

	if err := s.Notifier.BookingStatusChanged(ctx, updated); err != nil {
		s.Logger.Warn("Booking status notification failed", zap.String("bookingID", id), zap.Error(err))
	}
	return s.view(ctx, updated), nil
}

// Delete removes a booking that is not confirmed and returns what was removed.
func (s *DefaultBookingService) Delete(ctx context.Context, actor models.Actor, id string) (*models.BookingView, error) {
	existing, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == models.StatusConfirmed {
		return nil, errConfirmedDelete
	}

	removed, err := s.Bookings.DeleteUnlessStatus(ctx, id, models.StatusConfirmed)
	if errors.Is(err, repository.ErrNotFound) {
		// Either deleted meanwhile or confirmed meanwhile.
		if again, getErr := s.Bookings.GetByID(ctx, id); getErr == nil && again.Status == models.StatusConfirmed {
			return nil, errConfirmedDelete
		}
		return nil, errBookingNotFound
	}
	if err != nil {
		return nil, s.storeError("delete booking", err, nil)
	}
	s.Logger.Info("Booking deleted", zap.String("bookingID", id), zap.String("actor", actor.ID))
	return s.view(ctx, removed), nil
}

var errConfirmedDelete = apperr.InvalidState("confirmed bookings cannot be deleted, cancel them instead")

// load fetches a booking and enforces that non-privileged actors own it.
func (s *DefaultBookingService) load(ctx context.Context, actor models.Actor, id string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeError("load booking", err, errBookingNotFound)
	}
	if !actor.IsPrivileged() && b.PetOwner != actor.ID {
		return nil, errNotYourBooking
	}
	return b, nil
}

// ownedPet loads a pet profile that must belong to ownerID.
func (s *DefaultBookingService) ownedPet(ctx context.Context, petID, ownerID string) (*models.PetProfile, error) {
	pet, err := s.Pets.GetByID(ctx, petID)
	if err != nil {
		return nil, s.storeError("load pet", err, apperr.NotFound("pet not found"))
	}
	if pet.PetOwner != ownerID {
		return nil, apperr.NotFound("pet not found")
	}
	return pet, nil
}

// view joins owner display fields; a missing owner leaves Owner nil.
func (s *DefaultBookingService) view(ctx context.Context, b *models.Booking) *models.BookingView {
	views := s.views(ctx, []models.Booking{*b})
	return &views[0]
}

func (s *DefaultBookingService) views(ctx context.Context, bookings []models.Booking) []models.BookingView {
	ids := make([]string, 0, len(bookings))
	seen := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		if !seen[b.PetOwner] {
			seen[b.PetOwner] = true
			ids = append(ids, b.PetOwner)
		}
	}
	owners, err := s.Owners.GetSummaries(ctx, ids)
	if err != nil {
		s.Logger.Warn("Failed to join booking owners", zap.Error(err))
		owners = nil
	}
	out := make([]models.BookingView, len(bookings))
	for i := range bookings {
		b := bookings[i]
		out[i] = models.BookingView{Booking: &b, Owner: owners[b.PetOwner]}
	}
	return out
}

// parseFutureDay parses a day and rejects days before today (UTC).
func (s *DefaultBookingService) parseFutureDay(field, raw string) (time.Time, error) {
	day, err := models.ParseDay(raw)
	if err != nil {
		return time.Time{}, apperr.Validation("validation failed", apperr.FieldError{Field: field, Message: "must be a date in YYYY-MM-DD format"})
	}
	if day.Before(models.DayStart(s.now())) {
		return time.Time{}, apperr.Validation("validation failed", apperr.FieldError{Field: field, Message: "must not be in the past"})
	}
	return day, nil
}

// storeError maps repository errors: ErrNotFound becomes notFound when given,
// application errors pass through, anything else is logged and hidden.
func (s *DefaultBookingService) storeError(op string, err error, notFound *apperr.Error) error {
	if notFound != nil && errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	s.Logger.Error("Booking store failure", zap.String("op", op), zap.Error(err))
	return apperr.Unavailable(err)
}

func mergeSlot(current models.Slot, p models.BookingPatch) models.Slot {
	if p.Service != nil {
		current.Service = *p.Service
	}
	if p.AppointmentDate != nil {
		current.Date = *p.AppointmentDate
	}
	if p.AppointmentTime != nil {
		current.Time = *p.AppointmentTime
	}
	return current
}

func sameSlot(a, b models.Slot) bool {
	return a.Service == b.Service && a.Day() == b.Day() && a.Time == b.Time
}

var _ BookingService = (*DefaultBookingService)(nil)
