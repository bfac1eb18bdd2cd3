package payments

import (
	"context"
	"math"
	"strconv"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"activly/internal/shared/apperrors"
)

// MercadoPagoGateway implements Gateway using the official Mercado Pago
// SDK (Checkout Pro preferences).
type MercadoPagoGateway struct {
	preferences preference.Client
	payments    payment.Client
}

func NewMercadoPagoGateway(accessToken string) (*MercadoPagoGateway, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, apperrors.ExternalGateway("GATEWAY_CONFIG_ERROR", "failed to configure payment gateway", err)
	}

	return &MercadoPagoGateway{
		preferences: preference.NewClient(cfg),
		payments:    payment.NewClient(cfg),
	}, nil
}

func (g *MercadoPagoGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	prefRequest := preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:       req.Title,
				Description: req.Description,
				Quantity:    1,
				UnitPrice:   minorUnitsToAmount(req.AmountMinorUnits),
				CurrencyID:  req.Currency,
			},
		},
		// ExternalReference carries the booking id back through the
		// webhook payment lookup.
		ExternalReference: req.BookingID,
		Metadata: map[string]any{
			"booking_id": req.BookingID,
			"user_id":    req.UserID,
		},
		AutoReturn: "approved",
		BackURLs: &preference.BackURLsRequest{
			Success: req.SuccessURL,
			Failure: req.CancelURL,
			Pending: req.SuccessURL,
		},
	}

	if req.PayerEmail != "" {
		prefRequest.Payer = &preference.PayerRequest{
			Email: req.PayerEmail,
		}
	}

	result, err := g.preferences.Create(ctx, prefRequest)
	if err != nil {
		return nil, apperrors.ExternalGateway("CHECKOUT_SESSION_FAILED", "failed to create checkout session", err)
	}

	return &CheckoutSession{
		SessionID:   result.ID,
		RedirectURL: result.InitPoint,
	}, nil
}

func (g *MercadoPagoGateway) GetPaymentInfo(ctx context.Context, paymentID string) (*PaymentInfo, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return nil, apperrors.Validation("INVALID_PAYMENT_ID", "invalid payment id format")
	}

	result, err := g.payments.Get(ctx, id)
	if err != nil {
		return nil, apperrors.ExternalGateway("PAYMENT_LOOKUP_FAILED", "failed to fetch payment info", err)
	}

	return &PaymentInfo{
		PaymentID:        paymentID,
		Status:           result.Status,
		StatusDetail:     result.StatusDetail,
		BookingRef:       result.ExternalReference,
		AmountMinorUnits: amountToMinorUnits(result.TransactionAmount),
		Currency:         result.CurrencyID,
		PayerEmail:       result.Payer.Email,
		ApprovedAt:       result.DateApproved,
	}, nil
}

func minorUnitsToAmount(minor int64) float64 {
	return float64(minor) / 100
}

func amountToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
