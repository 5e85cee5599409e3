package booking

import (
	"context"
	"strings"
	"time"

	bookingRepo "barkbox/database/repository/booking"
	"barkbox/models"
	"barkbox/utils"
	"barkbox/utils/apperr"
)

// sortableFields are the booking fields a listing may be ordered by.
var sortableFields = map[string]bool{
	"appointmentDate": true,
	"appointmentTime": true,
	"createdAt":       true,
	"updatedAt":       true,
	"service":         true,
	"status":          true,
	"price":           true,
}

// ParseSort parses "field,-other" into sort keys. An empty string yields the
// default order (newest appointment first).
func ParseSort(raw string) ([]bookingRepo.SortKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []bookingRepo.SortKey{{Field: "appointmentDate", Desc: true}}, nil
	}
	var keys []bookingRepo.SortKey
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		key := bookingRepo.SortKey{Field: strings.TrimPrefix(part, "-"), Desc: strings.HasPrefix(part, "-")}
		if !sortableFields[key.Field] {
			return nil, apperr.Validation("invalid sort", apperr.FieldError{
				Field:   "sort",
				Message: "cannot sort by " + strings.TrimSpace(part),
			})
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// BuildListQuery validates q and turns it into a repository query. Callers
// that are not privileged are always scoped to their own bookings.
func BuildListQuery(actor models.Actor, q ListBookingsQuery) (bookingRepo.ListQuery, error) {
	if err := utils.ValidateStruct(q); err != nil {
		return bookingRepo.ListQuery{}, err
	}
	sort, err := ParseSort(q.Sort)
	if err != nil {
		return bookingRepo.ListQuery{}, err
	}

	filter := bookingRepo.ListFilter{
		Service:  models.ServiceType(q.Service),
		Status:   models.BookingStatus(q.Status),
		PetOwner: q.PetOwner,
	}
	if !actor.IsPrivileged() {
		filter.PetOwner = actor.ID
	}
	if filter.StartDate, err = optionalDay("startDate", q.StartDate); err != nil {
		return bookingRepo.ListQuery{}, err
	}
	if filter.EndDate, err = optionalDay("endDate", q.EndDate); err != nil {
		return bookingRepo.ListQuery{}, err
	}
	if filter.Date, err = optionalDay("date", q.Date); err != nil {
		return bookingRepo.ListQuery{}, err
	}
	if filter.Date == nil && filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return bookingRepo.ListQuery{}, apperr.Validation("invalid date range", apperr.FieldError{
			Field:   "endDate",
			Message: "must not be before startDate",
		})
	}

	return bookingRepo.ListQuery{
		Filter: filter,
		Sort:   sort,
		Page:   models.PageRequest{Page: q.Page, Limit: q.Limit}.Normalize(),
	}, nil
}

func optionalDay(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	day, err := models.ParseDay(raw)
	if err != nil {
		return nil, apperr.Validation("validation failed", apperr.FieldError{Field: field, Message: "must be a date in YYYY-MM-DD format"})
	}
	return &day, nil
}

// List returns one page of bookings visible to the actor.
func (s *DefaultBookingService) List(ctx context.Context, actor models.Actor, q ListBookingsQuery) ([]models.BookingView, models.Pagination, error) {
	lq, err := BuildListQuery(actor, q)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	items, total, err := s.Bookings.List(ctx, lq)
	if err != nil {
		return nil, models.Pagination{}, s.storeError("list bookings", err, nil)
	}
	return s.views(ctx, items), models.NewPagination(total, lq.Page), nil
}

// ListByOwner lists one owner's bookings. Non-privileged actors may only ask
// for their own.
func (s *DefaultBookingService) ListByOwner(ctx context.Context, actor models.Actor, ownerID string, q ListBookingsQuery) ([]models.BookingView, models.Pagination, error) {
	if !actor.IsPrivileged() && ownerID != actor.ID {
		return nil, models.Pagination{}, apperr.Forbidden("you can only view your own bookings")
	}
	q.PetOwner = ownerID
	return s.List(ctx, actor, q)
}
