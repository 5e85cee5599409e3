package routes

import (
	"time"

	"barkbox/handlers"
	"barkbox/middleware"
	"barkbox/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPersonRoutes registers account endpoints.
func RegisterPersonRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	persons := api.Group("/persons")
	{
		persons.POST("/register", hb.Persons.Register)
		persons.POST("/login", hb.Persons.Login)

		// Protected routes (Require Authentication)
		protected := persons.Group("", auth)
		protected.POST("/logout", hb.Persons.Logout)
		protected.GET("", middleware.RequireRoles(models.RoleAdmin), hb.Persons.ListPersons)
		protected.GET("/:id", hb.Persons.GetPerson)
		protected.PATCH("/:id", hb.Persons.UpdatePerson)
		protected.DELETE("/:id", hb.Persons.DeletePerson)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	bookings := api.Group("/bookings", auth)
	{
		bookings.POST("", hb.Bookings.CreateBooking)
		bookings.GET("", hb.Bookings.ListBookings)
		bookings.GET("/owner/:id", hb.Bookings.ListBookingsByOwner)
		bookings.GET("/service/:service", hb.Bookings.ListBookingsByService)
		bookings.GET("/date/:date", hb.Bookings.ListBookingsByDate)
		bookings.GET("/:id", hb.Bookings.GetBooking)
		bookings.PUT("/:id", hb.Bookings.UpdateBooking)
		bookings.PATCH("/:id/status", middleware.RequireRoles(models.RoleAdmin, models.RoleVendor), hb.Bookings.UpdateBookingStatus)
		bookings.DELETE("/:id", hb.Bookings.DeleteBooking)
	}
}

// RegisterPetRoutes registers pet profile endpoints.
func RegisterPetRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	pets := api.Group("/pets", auth)
	{
		pets.POST("", hb.Pets.CreatePet)
		pets.GET("", hb.Pets.ListPets)
		pets.GET("/:id", hb.Pets.GetPet)
		pets.PATCH("/:id", hb.Pets.UpdatePet)
		pets.DELETE("/:id", hb.Pets.DeletePet)
	}
}

// RegisterListingRoutes registers dog listing endpoints. Reads are public.
func RegisterListingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	listings := api.Group("/listings")
	{
		listings.GET("", hb.Listings.ListListings)
		listings.GET("/:id", hb.Listings.GetListing)

		vendors := listings.Group("", auth, middleware.RequireRoles(models.RoleAdmin, models.RoleVendor))
		vendors.POST("", hb.Listings.CreateListing)
		vendors.PATCH("/:id", hb.Listings.UpdateListing)
		vendors.DELETE("/:id", hb.Listings.DeleteListing)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	auth := middleware.JWTAuthMiddleware(hb.Tokens, hb.Revocations, hb.Logger)
	api := r.Group("/api")
	RegisterPersonRoutes(api, hb, auth)
	RegisterBookingRoutes(api, hb, auth)
	RegisterPetRoutes(api, hb, auth)
	RegisterListingRoutes(api, hb, auth)
	RegisterHealthRoute(r, hb)
}
