package payments

import (
	"context"
	"time"
)

// Provider payment status values we act on. Anything else is ignored by
// the confirmation flow.
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"
	StatusRefunded = "refunded"
)

// CheckoutRequest describes a hosted-checkout session to create. Amounts
// are integer minor units (cents); the adapter converts to whatever the
// provider expects.
type CheckoutRequest struct {
	AmountMinorUnits int64
	Currency         string
	Title            string
	Description      string
	SuccessURL       string
	CancelURL        string
	BookingID        string
	UserID           string
	PayerEmail       string
}

// CheckoutSession is the provider-side session the client is redirected to.
type CheckoutSession struct {
	SessionID   string
	RedirectURL string
}

// PaymentInfo is the provider's view of a payment, fetched when a webhook
// notification arrives.
type PaymentInfo struct {
	PaymentID        string
	Status           string
	StatusDetail     string
	BookingRef       string
	AmountMinorUnits int64
	Currency         string
	PayerEmail       string
	ApprovedAt       time.Time
}

// Gateway is the payment provider port. The booking orchestrator only
// talks to this interface; the Mercado Pago adapter implements it.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	GetPaymentInfo(ctx context.Context, paymentID string) (*PaymentInfo, error)
}
