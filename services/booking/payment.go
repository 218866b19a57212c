package booking

import (
	"context"
	"errors"
	"fmt"
	"math"

	"courtbook/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"
)

// PaymentInitiator starts collecting the server-confirmed total for one
// booking and hands back a redirect URL. The provider's protocol beyond
// that is opaque to the booking core.
type PaymentInitiator interface {
	InitiatePayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentSession, error)
}

// StripePaymentInitiator implements PaymentInitiator with Stripe
// Checkout.
type StripePaymentInitiator struct {
	logger    *zap.Logger
	returnURL string
}

// NewStripePaymentInitiator builds the Stripe adapter. The global
// stripe.Key is expected to be set at startup.
func NewStripePaymentInitiator(logger *zap.Logger, returnURL string) *StripePaymentInitiator {
	return &StripePaymentInitiator{logger: logger, returnURL: returnURL}
}

// InitiatePayment creates a Checkout session for the booking amount.
func (p *StripePaymentInitiator) InitiatePayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentSession, error) {
	if err := validatePaymentRequest(req); err != nil {
		return nil, fmt.Errorf("invalid payment request: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(req.BookingID),
		SuccessURL:        stripe.String(p.returnURL),
		CancelURL:         stripe.String(p.returnURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(int64(math.Round(req.Amount * 100))),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Court booking " + req.BookingID),
					},
				},
			},
		},
	}
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	p.logger.Info("payment initiated",
		zap.String("bookingId", req.BookingID),
		zap.String("checkoutSession", s.ID))

	return &models.PaymentSession{RedirectURL: s.URL, Reference: s.ID}, nil
}

func validatePaymentRequest(req models.PaymentRequest) error {
	if req.Amount <= 0 {
		return errors.New("invalid payment amount")
	}
	if req.BookingID == "" {
		return errors.New("missing booking ID")
	}
	return nil
}
