package handlers

import (
	"net/http"

	"barkbox/services/booking"
	"barkbox/utils/apperr"
	"barkbox/utils/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the /api/bookings endpoints.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req booking.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.Service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Booking created successfully", view)
}

// GetBooking handles GET /bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	view, err := h.Service.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// UpdateBooking handles PUT /bookings/:id.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req booking.UpdateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.Service.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Booking updated successfully", view)
}

// UpdateBookingStatus handles PATCH /bookings/:id/status.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req booking.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.Service.UpdateStatus(c.Request.Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Booking status updated successfully", view)
}

// DeleteBooking handles DELETE /bookings/:id and returns the removed booking.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	view, err := h.Service.Delete(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Booking deleted successfully", view)
}

// ListBookings handles GET /bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	h.list(c, nil)
}

// ListBookingsByService handles GET /bookings/service/:service.
func (h *BookingHandler) ListBookingsByService(c *gin.Context) {
	h.list(c, func(q *booking.ListBookingsQuery) { q.Service = c.Param("service") })
}

// ListBookingsByDate handles GET /bookings/date/:date.
func (h *BookingHandler) ListBookingsByDate(c *gin.Context) {
	h.list(c, func(q *booking.ListBookingsQuery) {
		q.Date = c.Param("date")
		q.StartDate, q.EndDate = "", ""
	})
}

// ListBookingsByOwner handles GET /bookings/owner/:id.
func (h *BookingHandler) ListBookingsByOwner(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var q booking.ListBookingsQuery
	if !bindQuery(c, &q) {
		return
	}
	items, page, err := h.Service.ListByOwner(c.Request.Context(), actor, c.Param("id"), q)
	if err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.Paged(c, http.StatusOK, items, page)
}

func (h *BookingHandler) list(c *gin.Context, scope func(*booking.ListBookingsQuery)) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var q booking.ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Abort(c, apperr.Validation("invalid query parameters", apperr.FieldError{Field: "query", Message: err.Error()}))
		return
	}
	if scope != nil {
		scope(&q)
	}
	items, page, err := h.Service.List(c.Request.Context(), actor, q)
	if err != nil {
		response.Error(c, h.Logger, err)
		return
	}
	response.Paged(c, http.StatusOK, items, page)
}
