package payment

import (
	"context"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
)

// ServiceInterface defines the contract for a payment processing service.
type ServiceInterface interface {
	ProcessPayment(ctx context.Context, amount float64, paymentMethodID, description string) (string, error)
}

// StripeService charges booking totals through Stripe PaymentIntents.
type StripeService struct{}

func NewStripeService(apiKey string) *StripeService {
	stripe.Key = apiKey
	return &StripeService{}
}

// ProcessPayment confirms a PaymentIntent for an amount in rupees. Stripe
// bills in the smallest currency unit, so rupees convert to paise.
func (s *StripeService) ProcessPayment(ctx context.Context, amount float64, paymentMethodID, description string) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("invalid payment amount %v", amount)
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(int64(math.Round(amount * 100))),
		Currency:      stripe.String(string(stripe.CurrencyINR)),
		PaymentMethod: stripe.String(paymentMethodID),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(description),
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe payment failed: %w", err)
	}
	return pi.ID, nil
}
