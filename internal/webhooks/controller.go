package webhooks

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"activly/internal/payments"
	"activly/pkg/logger"
)

// PaymentNotifier is the slice of the booking service the webhook
// endpoint drives.
type PaymentNotifier interface {
	HandlePaymentNotification(ctx context.Context, paymentID string) error
}

type Controller interface {
	HandlePaymentWebhook(c *gin.Context)
}

type controller struct {
	validator *payments.WebhookValidator
	notifier  PaymentNotifier
	log       *logger.Logger
}

func NewController(validator *payments.WebhookValidator, notifier PaymentNotifier, log *logger.Logger) Controller {
	return &controller{
		validator: validator,
		notifier:  notifier,
		log:       log,
	}
}

type webhookBody struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// HandlePaymentWebhook receives provider notifications. After the
// signature checks out the endpoint always answers 200 so the provider
// stops retrying; processing failures are logged instead.
func (ctrl *controller) HandlePaymentWebhook(c *gin.Context) {
	rawBody, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read body"})
		return
	}

	var body webhookBody
	if len(rawBody) > 0 {
		_ = json.Unmarshal(rawBody, &body)
	}

	// The provider sends data.id both as a query parameter and in the
	// body; the query parameter wins when present.
	dataID := c.Query("data.id")
	if dataID == "" {
		dataID = body.Data.ID
	}

	xSignature := c.GetHeader("x-signature")
	xRequestID := c.GetHeader("x-request-id")

	if !ctrl.validator.ValidateSignature(xSignature, xRequestID, dataID) {
		ctrl.log.WarnWithContext(c.Request.Context(), "webhook signature validation failed", map[string]interface{}{
			"request_id": xRequestID,
		})
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	eventType := body.Type
	if eventType == "" {
		eventType = c.Query("type")
	}

	if eventType == "payment" && dataID != "" {
		if err := ctrl.notifier.HandlePaymentNotification(c.Request.Context(), dataID); err != nil {
			ctrl.log.LogPaymentEvent(c.Request.Context(), "webhook_processing_failed", dataID, map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
