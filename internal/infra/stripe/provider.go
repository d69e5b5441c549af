package stripe

import (
	"context"
	"fmt"
	"strings"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"go.uber.org/zap"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/port"
)

// Provider implements port.PaymentProvider against the Stripe API.
//
// The API client is injected at construction; the package-level stripe.Key
// is never touched, so two providers with different keys can coexist (tests
// use a stub provider instead).
type Provider struct {
	api *client.API
	log *zap.Logger
}

// NewProvider builds a Stripe-backed payment provider from the secret key.
func NewProvider(secretKey string, log *zap.Logger) (*Provider, error) {
	if strings.TrimSpace(secretKey) == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}

	api := &client.API{}
	api.Init(secretKey, nil)

	return &Provider{api: api, log: log}, nil
}

// amounts are exposed in major units throughout the domain; Stripe wants
// the minor unit (centimes).
func toMinorUnit(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

// CreatePaymentIntent opens a one-time payment intent and returns the client secret.
func (p *Provider) CreatePaymentIntent(_ context.Context, input port.PaymentIntentInput) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(toMinorUnit(input.Amount)),
		Currency:           stripe.String(strings.ToLower(input.Currency)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		ReceiptEmail:       stripe.String(input.Email),
	}
	params.AddMetadata("name", input.Name)
	params.AddMetadata("email", input.Email)
	params.AddMetadata("payment_type", input.Kind)
	if input.CotisationID != "" {
		params.AddMetadata("cotisation_id", input.CotisationID)
	}

	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}

	return intent.ClientSecret, nil
}

// PrepareSubscription creates the customer and recurring price, then a setup
// intent to collect a reusable payment method. The subscription itself is
// created once the webhook reports the setup intent succeeded.
func (p *Provider) PrepareSubscription(_ context.Context, input port.SubscriptionSetupInput) (*port.SubscriptionSetup, error) {
	customerParams := &stripe.CustomerParams{
		Email: stripe.String(input.Email),
		Name:  stripe.String(input.Name),
	}
	if input.Address != "" {
		customerParams.Address = &stripe.AddressParams{Line1: stripe.String(input.Address)}
	}

	customer, err := p.api.Customers.New(customerParams)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	priceParams := &stripe.PriceParams{
		Currency:   stripe.String(strings.ToLower(input.Currency)),
		UnitAmount: stripe.Int64(toMinorUnit(input.Amount)),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
		},
		ProductData: &stripe.PriceProductDataParams{
			Name: stripe.String("Monthly donation"),
		},
	}

	price, err := p.api.Prices.New(priceParams)
	if err != nil {
		return nil, fmt.Errorf("create recurring price: %w", err)
	}

	setupParams := &stripe.SetupIntentParams{
		Customer:           stripe.String(customer.ID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	setupParams.AddMetadata("name", input.Name)
	setupParams.AddMetadata("email", input.Email)
	setupParams.AddMetadata("price_id", price.ID)
	setupParams.AddMetadata("amount", fmt.Sprintf("%.2f", input.Amount))

	setupIntent, err := p.api.SetupIntents.New(setupParams)
	if err != nil {
		return nil, fmt.Errorf("create setup intent: %w", err)
	}

	return &port.SubscriptionSetup{
		CustomerID:   customer.ID,
		PriceID:      price.ID,
		ClientSecret: setupIntent.ClientSecret,
	}, nil
}

// AttachDefaultPaymentMethod attaches the collected method and makes it the
// customer default for future invoices.
func (p *Provider) AttachDefaultPaymentMethod(_ context.Context, customerID, paymentMethodID string) error {
	if _, err := p.api.PaymentMethods.Attach(paymentMethodID, &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(customerID),
	}); err != nil {
		return fmt.Errorf("attach payment method: %w", err)
	}

	if _, err := p.api.Customers.Update(customerID, &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}); err != nil {
		return fmt.Errorf("set default payment method: %w", err)
	}

	return nil
}

// CreateSubscription attaches the recurring price to the customer.
func (p *Provider) CreateSubscription(_ context.Context, customerID, priceID string) (string, error) {
	sub, err := p.api.Subscriptions.New(&stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("create subscription: %w", err)
	}

	return sub.ID, nil
}

// CancelSubscriptionAtPeriodEnd requests cancellation at the end of the
// current billing period rather than immediately.
func (p *Provider) CancelSubscriptionAtPeriodEnd(_ context.Context, subscriptionID string) error {
	if _, err := p.api.Subscriptions.Update(subscriptionID, &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}); err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}
	return nil
}

// PaymentMethodType resolves the human-readable method type (card, twint, ...).
func (p *Provider) PaymentMethodType(_ context.Context, paymentMethodID string) (string, error) {
	if paymentMethodID == "" {
		return "", nil
	}

	pm, err := p.api.PaymentMethods.Get(paymentMethodID, nil)
	if err != nil {
		return "", fmt.Errorf("get payment method: %w", err)
	}

	return string(pm.Type), nil
}
