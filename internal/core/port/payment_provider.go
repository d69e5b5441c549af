package port

import "context"

// PaymentIntentInput carries the data needed to open a one-time payment intent.
type PaymentIntentInput struct {
	// Amount is in the currency's major unit (e.g. francs, not centimes).
	Amount       float64
	Currency     string
	Email        string
	Name         string
	Kind         string
	CotisationID string
}

// SubscriptionSetupInput carries the data needed to bootstrap a monthly
// subscription: the processor requires a saved payment method before a
// recurring subscription can be attached.
type SubscriptionSetupInput struct {
	Amount   float64
	Currency string
	Email    string
	Name     string
	Address  string
}

// SubscriptionSetup is the result of preparing a subscription.
type SubscriptionSetup struct {
	CustomerID   string
	PriceID      string
	ClientSecret string
}

// PaymentProvider abstracts the payment processor (Stripe in production).
type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, input PaymentIntentInput) (clientSecret string, err error)
	PrepareSubscription(ctx context.Context, input SubscriptionSetupInput) (*SubscriptionSetup, error)
	AttachDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error
	CreateSubscription(ctx context.Context, customerID, priceID string) (subscriptionID string, err error)
	CancelSubscriptionAtPeriodEnd(ctx context.Context, subscriptionID string) error
	PaymentMethodType(ctx context.Context, paymentMethodID string) (string, error)
}

// WebhookVerifier authenticates inbound processor callbacks.
type WebhookVerifier interface {
	// Verify checks the signature header against the payload and returns
	// the decoded event type and raw event object JSON.
	Verify(payload []byte, signatureHeader string) (eventType string, object []byte, err error)
}
