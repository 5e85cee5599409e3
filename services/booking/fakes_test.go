package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"barkbox/database/repository"
	bookingRepo "barkbox/database/repository/booking"
	"barkbox/models"

	"github.com/stretchr/testify/mock"
)

// memBookings is an in-memory BookingRepository that enforces the active-slot
// unique index like MongoDB does.
type memBookings struct {
	mu          sync.Mutex
	items       map[string]models.Booking
	slotQueries []bookingRepo.SlotQuery
	updates     int
}

func newMemBookings() *memBookings {
	return &memBookings{items: map[string]models.Booking{}}
}

func slotKey(b models.Booking) string {
	return fmt.Sprintf("%s|%s|%s", b.Service, b.AppointmentDay, b.AppointmentTime)
}

func (m *memBookings) slotHeld(b models.Booking) bool {
	for _, other := range m.items {
		if other.ID != b.ID && other.Active && slotKey(other) == slotKey(b) {
			return true
		}
	}
	return false
}

func (m *memBookings) Create(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.Active && m.slotHeld(*b) {
		return fmt.Errorf("insert: %w", repository.ErrDuplicate)
	}
	m.items[b.ID] = *b
	return nil
}

func (m *memBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("get: %w", repository.ErrNotFound)
	}
	return &b, nil
}

func (m *memBookings) ExistsInSlot(_ context.Context, q bookingRepo.SlotQuery) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slotQueries = append(m.slotQueries, q)
	for _, b := range m.items {
		if b.ID == q.ExcludeID || b.Status == models.StatusCancelled {
			continue
		}
		if b.Service != q.Slot.Service || b.AppointmentTime != q.Slot.Time {
			continue
		}
		if q.Exact && b.AppointmentDate.Equal(q.Slot.Date) {
			return true, nil
		}
		if !q.Exact && b.AppointmentDay == q.Slot.Day() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memBookings) Update(_ context.Context, id string, p models.BookingPatch) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Service != nil {
		b.Service = *p.Service
	}
	if p.Pet != nil {
		b.Pet = *p.Pet
	}
	if p.PetName != nil {
		b.PetName = *p.PetName
	}
	if p.AppointmentDate != nil {
		b.SetAppointmentDate(*p.AppointmentDate)
	}
	if p.AppointmentTime != nil {
		b.AppointmentTime = *p.AppointmentTime
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	if p.Price != nil {
		price := *p.Price
		b.Price = &price
	}
	b.UpdatedAt = p.UpdatedAt
	if b.Active && m.slotHeld(b) {
		return nil, repository.ErrDuplicate
	}
	m.items[id] = b
	m.updates++
	return &b, nil
}

func (m *memBookings) UpdateStatus(_ context.Context, id string, from, to models.BookingStatus, at time.Time) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[id]
	if !ok || b.Status != from {
		return nil, bookingRepo.ErrStaleStatus
	}
	b.SetStatus(to)
	b.UpdatedAt = at
	m.items[id] = b
	m.updates++
	return &b, nil
}

func (m *memBookings) DeleteUnlessStatus(_ context.Context, id string, protected models.BookingStatus) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[id]
	if !ok || b.Status == protected {
		return nil, repository.ErrNotFound
	}
	delete(m.items, id)
	return &b, nil
}

// List supports the owner filter and the default sort, which is all the
// service tests need.
func (m *memBookings) List(_ context.Context, q bookingRepo.ListQuery) ([]models.Booking, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []models.Booking
	for _, b := range m.items {
		if q.Filter.PetOwner != "" && b.PetOwner != q.Filter.PetOwner {
			continue
		}
		if q.Filter.Service != "" && b.Service != q.Filter.Service {
			continue
		}
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].AppointmentDate.Equal(all[j].AppointmentDate) {
			return all[i].AppointmentDate.After(all[j].AppointmentDate)
		}
		return all[i].ID < all[j].ID
	})
	total := int64(len(all))
	start := int(q.Page.Skip())
	if start > len(all) {
		start = len(all)
	}
	end := start + q.Page.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *memBookings) EnsureIndexes(context.Context) error { return nil }

type memOwners map[string]*models.Person

func (o memOwners) GetByID(_ context.Context, id string) (*models.Person, error) {
	if p, ok := o[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("get person: %w", repository.ErrNotFound)
}

func (o memOwners) GetSummaries(_ context.Context, ids []string) (map[string]*models.PersonSummary, error) {
	out := map[string]*models.PersonSummary{}
	for _, id := range ids {
		if p, ok := o[id]; ok {
			out[id] = p.Summary()
		}
	}
	return out, nil
}

type memPets map[string]*models.PetProfile

func (p memPets) GetByID(_ context.Context, id string) (*models.PetProfile, error) {
	if pet, ok := p[id]; ok {
		return pet, nil
	}
	return nil, fmt.Errorf("get pet: %w", repository.ErrNotFound)
}

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) BookingCreated(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockDispatcher) BookingStatusChanged(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}
