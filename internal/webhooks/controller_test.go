package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"activly/internal/payments"
	"activly/pkg/logger"
)

type mockPaymentNotifier struct {
	mock.Mock
}

func (m *mockPaymentNotifier) HandlePaymentNotification(ctx context.Context, paymentID string) error {
	args := m.Called(ctx, paymentID)
	return args.Error(0)
}

const testSecret = "test-webhook-secret"

func signedHeaders(dataID, requestID, ts string) (signature string) {
	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", dataID, requestID, ts)
	h := hmac.New(sha256.New, []byte(testSecret))
	h.Write([]byte(manifest))
	return fmt.Sprintf("ts=%s,v1=%s", ts, hex.EncodeToString(h.Sum(nil)))
}

func setupWebhookTest(notifier PaymentNotifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	validator := payments.NewWebhookValidator(testSecret)
	controller := NewController(validator, notifier, logger.GetDefault())
	SetupWebhookRoutes(engine, controller)

	return engine
}

func TestWebhookValidSignatureProcessesPayment(t *testing.T) {
	notifier := new(mockPaymentNotifier)
	notifier.On("HandlePaymentNotification", mock.Anything, "12345").Return(nil)
	engine := setupWebhookTest(notifier)

	body := []byte(`{"type":"payment","data":{"id":"12345"}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook?data.id=12345", bytes.NewReader(body))
	req.Header.Set("x-signature", signedHeaders("12345", "req-1", "1700000000"))
	req.Header.Set("x-request-id", "req-1")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	notifier.AssertCalled(t, "HandlePaymentNotification", mock.Anything, "12345")
}

func TestWebhookInvalidSignatureRejected(t *testing.T) {
	notifier := new(mockPaymentNotifier)
	engine := setupWebhookTest(notifier)

	body := []byte(`{"type":"payment","data":{"id":"12345"}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook?data.id=12345", bytes.NewReader(body))
	req.Header.Set("x-signature", "ts=1700000000,v1=deadbeef")
	req.Header.Set("x-request-id", "req-1")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	notifier.AssertNotCalled(t, "HandlePaymentNotification", mock.Anything, mock.Anything)
}

func TestWebhookMissingSignatureRejected(t *testing.T) {
	notifier := new(mockPaymentNotifier)
	engine := setupWebhookTest(notifier)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte(`{}`)))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookProcessingErrorStillReturns200(t *testing.T) {
	notifier := new(mockPaymentNotifier)
	notifier.On("HandlePaymentNotification", mock.Anything, "12345").
		Return(errors.New("database unavailable"))
	engine := setupWebhookTest(notifier)

	body := []byte(`{"type":"payment","data":{"id":"12345"}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook?data.id=12345", bytes.NewReader(body))
	req.Header.Set("x-signature", signedHeaders("12345", "req-1", "1700000000"))
	req.Header.Set("x-request-id", "req-1")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	// Once the signature checks out the provider must not retry.
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookNonPaymentEventAcknowledged(t *testing.T) {
	notifier := new(mockPaymentNotifier)
	engine := setupWebhookTest(notifier)

	body := []byte(`{"type":"merchant_order","data":{"id":"777"}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook?data.id=777", bytes.NewReader(body))
	req.Header.Set("x-signature", signedHeaders("777", "req-2", "1700000000"))
	req.Header.Set("x-request-id", "req-2")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	notifier.AssertNotCalled(t, "HandlePaymentNotification", mock.Anything, mock.Anything)
}

func TestWebhookDataIDFromBodyWhenQueryMissing(t *testing.T) {
	notifier := new(mockPaymentNotifier)
	notifier.On("HandlePaymentNotification", mock.Anything, "98765").Return(nil)
	engine := setupWebhookTest(notifier)

	body := []byte(`{"type":"payment","data":{"id":"98765"}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("x-signature", signedHeaders("98765", "req-3", "1700000000"))
	req.Header.Set("x-request-id", "req-3")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	notifier.AssertCalled(t, "HandlePaymentNotification", mock.Anything, "98765")
}
