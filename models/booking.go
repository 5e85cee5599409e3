package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ServiceType is the kind of appointment a pet owner books.
type ServiceType string

const (
	ServiceVeterinary ServiceType = "veterinary"
	ServiceGrooming   ServiceType = "grooming"
	ServiceTraining   ServiceType = "training"
)

// ServiceTypes lists every bookable service.
var ServiceTypes = []ServiceType{ServiceVeterinary, ServiceGrooming, ServiceTraining}

// Valid reports whether s is a known service.
func (s ServiceType) Valid() bool {
	switch s {
	case ServiceVeterinary, ServiceGrooming, ServiceTraining:
		return true
	}
	return false
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether a booking in this status still holds its slot.
func (s BookingStatus) IsActive() bool {
	return s != StatusCancelled
}

// IsTerminal reports whether no further transition is possible.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// allowed transitions; pending may skip straight to completed.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCompleted, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether a booking may move from one status to another.
// Re-applying the current status is always allowed.
func CanTransition(from, to BookingStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DayLayout is the wire format of a calendar day.
const DayLayout = "2006-01-02"

// DayStart truncates t to midnight UTC.
func DayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD day or an RFC3339 timestamp and returns its UTC day start.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DayLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return DayStart(t), nil
}

var timeOfDayPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// ValidTimeOfDay reports whether s is a 24h HH:MM (single-digit hour allowed).
func ValidTimeOfDay(s string) bool {
	return timeOfDayPattern.MatchString(s)
}

// NormalizeTimeOfDay returns s with a two-digit hour, e.g. "9:30" -> "09:30".
func NormalizeTimeOfDay(s string) (string, error) {
	if !ValidTimeOfDay(s) {
		return "", fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	parts := strings.SplitN(s, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	return fmt.Sprintf("%02d:%s", h, parts[1]), nil
}

// Slot identifies a bookable (service, day, time) triple.
type Slot struct {
	Service ServiceType
	Date    time.Time // any instant within the day; truncated to UTC midnight by consumers
	Time    string    // normalised HH:MM
}

// Day returns the slot's day key.
func (s Slot) Day() string {
	return DayStart(s.Date).Format(DayLayout)
}

// Booking represents a scheduled appointment.
type Booking struct {
	ID              string        `bson:"id" json:"id"`
	Service         ServiceType   `bson:"service" json:"service"`
	PetOwner        string        `bson:"petOwner" json:"petOwner"`                   // Person ID of the owner
	Pet             string        `bson:"pet,omitempty" json:"pet,omitempty"`         // Optional pet profile ID
	PetName         string        `bson:"petName" json:"petName"`
	AppointmentDate time.Time     `bson:"appointmentDate" json:"appointmentDate"`     // UTC day start
	AppointmentDay  string        `bson:"appointmentDay" json:"-"`                    // YYYY-MM-DD, part of the slot index
	AppointmentTime string        `bson:"appointmentTime" json:"appointmentTime"`     // HH:MM
	Status          BookingStatus `bson:"status" json:"status"`
	Active          bool          `bson:"active" json:"-"`                            // status != cancelled
	Notes           string        `bson:"notes,omitempty" json:"notes,omitempty"`
	Price           *float64      `bson:"price,omitempty" json:"price,omitempty"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// SetAppointmentDate stores the day start of t and its derived day key.
func (b *Booking) SetAppointmentDate(t time.Time) {
	b.AppointmentDate = DayStart(t)
	b.AppointmentDay = b.AppointmentDate.Format(DayLayout)
}

// SetStatus updates the status and the derived active flag.
func (b *Booking) SetStatus(s BookingStatus) {
	b.Status = s
	b.Active = s.IsActive()
}

// Slot returns the slot this booking occupies.
func (b *Booking) Slot() Slot {
	return Slot{Service: b.Service, Date: b.AppointmentDate, Time: b.AppointmentTime}
}

// BookingPatch holds the fields an update may change; nil means unchanged.
type BookingPatch struct {
	Service         *ServiceType
	Pet             *string
	PetName         *string
	AppointmentDate *time.Time
	AppointmentTime *string
	Notes           *string
	Price           *float64
	UpdatedAt       time.Time
}

// TouchesSlot reports whether the patch changes any slot component.
func (p BookingPatch) TouchesSlot() bool {
	return p.Service != nil || p.AppointmentDate != nil || p.AppointmentTime != nil
}

// BookingView is a booking with the owner's display fields joined in.
type BookingView struct {
	*Booking
	Owner *PersonSummary `json:"owner,omitempty"`
}
