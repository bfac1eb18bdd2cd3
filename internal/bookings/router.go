package bookings

import (
	"github.com/gin-gonic/gin"

	"activly/internal/shared/config"
	"activly/internal/shared/middleware"
)

func SetupBookingRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	bookingRoutes := router.Group("/bookings")

	// Public route - availability can be checked without logging in
	bookingRoutes.GET("/availability/:activityId", controller.CheckAvailability)

	// Authenticated routes
	authed := bookingRoutes.Group("")
	authed.Use(middleware.JWTAuthWithConfig(cfg))
	{
		authed.POST("", controller.CreateBooking)
		authed.GET("/me", controller.GetMyBookings)
		authed.GET("/user/:userId", controller.GetUserBookings)
		authed.GET("/:id", controller.GetBooking)
		authed.POST("/:id/cancel", controller.CancelBooking)
	}

	// Admin routes
	admin := bookingRoutes.Group("")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.POST("/:id/confirm", controller.ConfirmBooking)
		admin.GET("/activity/:activityId", controller.GetActivityBookings)
	}
}
