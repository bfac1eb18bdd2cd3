package activities

import (
	"activly/internal/shared/config"
	"activly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupActivityRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	// Public routes - anyone can browse activities
	publicActivities := router.Group("/activities")
	{
		publicActivities.GET("", controller.GetAllActivities)
		publicActivities.GET("/upcoming", controller.GetUpcomingActivities)
		publicActivities.GET("/:id", controller.GetActivity)
	}

	// Admin routes - create, update, delete and attendance management
	adminActivities := router.Group("/activities")
	adminActivities.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		adminActivities.POST("", controller.CreateActivity)
		adminActivities.PUT("/:id", controller.UpdateActivity)
		adminActivities.DELETE("/:id", controller.DeleteActivity)
		adminActivities.POST("/:id/attendance", controller.TrackAttendance)
		adminActivities.GET("/:id/attendees", controller.GetAttendees)
	}
}
