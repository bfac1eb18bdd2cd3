package webhooks

import (
	"github.com/gin-gonic/gin"
)

// SetupWebhookRoutes registers the payment webhook on the engine root,
// outside the versioned API prefix, because the provider URL is
// configured once and should not move with API versions.
func SetupWebhookRoutes(engine *gin.Engine, controller Controller) {
	engine.POST("/webhook", controller.HandlePaymentWebhook)
	engine.POST("/webhook/payments", controller.HandlePaymentWebhook)
}
