package booking

import (
	"context"

	"barkbox/models"
)

// CreateBookingRequest is the payload for a new booking. PetOwner is honoured
// only for privileged callers; everyone else books for themselves.
type CreateBookingRequest struct {
	Service         string   `json:"service" validate:"required,service"`
	PetOwner        string   `json:"petOwner" validate:"omitempty,max=64"`
	Pet             string   `json:"pet" validate:"omitempty,max=64"`
	PetName         string   `json:"petName" validate:"omitempty,min=2,max=50"`
	AppointmentDate string   `json:"appointmentDate" validate:"required"`
	AppointmentTime string   `json:"appointmentTime" validate:"required,hhmm"`
	Notes           string   `json:"notes" validate:"max=500"`
	Price           *float64 `json:"price" validate:"omitempty,gte=0"`
}

// UpdateBookingRequest carries the fields to change; absent fields are kept.
// Status is changed only through UpdateStatus.
type UpdateBookingRequest struct {
	Service         *string  `json:"service" validate:"omitempty,service"`
	Pet             *string  `json:"pet" validate:"omitempty,max=64"`
	PetName         *string  `json:"petName" validate:"omitempty,min=2,max=50"`
	AppointmentDate *string  `json:"appointmentDate"`
	AppointmentTime *string  `json:"appointmentTime" validate:"omitempty,hhmm"`
	Notes           *string  `json:"notes" validate:"omitempty,max=500"`
	Price           *float64 `json:"price" validate:"omitempty,gte=0"`
}

// UpdateStatusRequest is the payload of a status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListBookingsQuery holds the query-string parameters of a booking listing.
type ListBookingsQuery struct {
	Page      int    `form:"page" validate:"omitempty,min=1"`
	Limit     int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Service   string `form:"service" validate:"omitempty,service"`
	Status    string `form:"status" validate:"omitempty,bookingstatus"`
	PetOwner  string `form:"petOwner"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Date      string `form:"date"`
	Sort      string `form:"sort"`
}

// BookingService is the booking lifecycle and query API.
type BookingService interface {
	Create(ctx context.Context, actor models.Actor, req CreateBookingRequest) (*models.BookingView, error)
	Get(ctx context.Context, actor models.Actor, id string) (*models.BookingView, error)
	Update(ctx context.Context, actor models.Actor, id string, req UpdateBookingRequest) (*models.BookingView, error)
	UpdateStatus(ctx context.Context, actor models.Actor, id string, status string) (*models.BookingView, error)
	Delete(ctx context.Context, actor models.Actor, id string) (*models.BookingView, error)
	List(ctx context.Context, actor models.Actor, q ListBookingsQuery) ([]models.BookingView, models.Pagination, error)
	ListByOwner(ctx context.Context, actor models.Actor, ownerID string, q ListBookingsQuery) ([]models.BookingView, models.Pagination, error)
}
