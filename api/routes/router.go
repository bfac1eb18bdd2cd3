// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"activly/internal/activities"
	"activly/internal/auth"
	"activly/internal/bookings"
	"activly/internal/notifications"
	"activly/internal/payments"
	"activly/internal/shared/config"
	"activly/internal/shared/database"
	"activly/internal/webhooks"
	"activly/pkg/cache"
	"activly/pkg/logger"
)

// Router wires the feature packages together and registers their routes.
type Router struct {
	config          *config.Config
	db              *database.DB
	cacheService    cache.Service
	gateway         payments.Gateway
	notificationSvc notifications.NotificationService
	log             *logger.Logger

	activityService activities.Service
	bookingService  bookings.Service
	authRepo        auth.Repository
}

func NewRouter(cfg *config.Config, db *database.DB, cacheService cache.Service, gateway payments.Gateway, notificationSvc notifications.NotificationService, log *logger.Logger) *Router {
	return &Router{
		config:          cfg,
		db:              db,
		cacheService:    cacheService,
		gateway:         gateway,
		notificationSvc: notificationSvc,
		log:             log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupActivityRoutes(api)
		r.setupBookingRoutes(api)
	}

	// The webhook endpoint lives outside the versioned prefix.
	r.setupWebhookRoutes(engine)

	// Cross-service wiring once everything exists.
	r.wireDependencies()
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "activly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "activly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	r.authRepo = auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(r.authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController, r.config)

	authRouter.SetupRoutes(rg)
}

func (r *Router) setupActivityRoutes(rg *gin.RouterGroup) {
	activityRepo := activities.NewRepository(r.db.GetPostgreSQL())
	r.activityService = activities.NewService(activityRepo, r.cacheService, r.log)
	activityController := activities.NewController(r.activityService)

	activities.SetupActivityRoutes(rg, activityController, r.config)
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	r.bookingService = bookings.NewService(bookingRepo, r.activityService, r.gateway, r.cacheService, r.config, r.log)
	bookingController := bookings.NewController(r.bookingService)

	bookings.SetupBookingRoutes(rg, bookingController, r.config)
}

func (r *Router) setupWebhookRoutes(engine *gin.Engine) {
	validator := payments.NewWebhookValidator(r.config.Payments.WebhookSecret)
	webhookController := webhooks.NewController(validator, r.bookingService, r.log)

	webhooks.SetupWebhookRoutes(engine, webhookController)
}

// wireDependencies closes the circular references between feature
// packages through their setter interfaces.
func (r *Router) wireDependencies() {
	if r.activityService != nil && r.bookingService != nil {
		r.activityService.SetBookingCounter(r.bookingService)
	}

	if r.bookingService != nil && r.notificationSvc != nil {
		userAdapter := auth.NewUserServiceAdapter(r.authRepo)
		notifier := notifications.NewBookingNotifier(r.notificationSvc, userAdapter)
		r.bookingService.SetNotifier(notifier)
	}
}
