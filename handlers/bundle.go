package handlers

import (
	"barkbox/middleware"

	"go.uber.org/zap"
)

// HandlerBundle groups all endpoint handlers and the auth collaborators routes need.
type HandlerBundle struct {
	Tokens      middleware.TokenVerifier
	Revocations middleware.RevocationChecker
	Logger      *zap.Logger

	Persons  *PersonHandler
	Bookings *BookingHandler
	Pets     *PetHandler
	Listings *ListingHandler
	Health   *HealthHandler
}
