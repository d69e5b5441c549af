package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/port"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/config"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/logger"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/repository"
)

// One-time donations are collected in the association's home currency only.
const donationCurrency = "chf"

// CreateIntentInput carries the fields needed to open a one-time payment.
type CreateIntentInput struct {
	Amount       float64
	Currency     string
	Email        string
	Name         string
	Kind         domain.PaymentKind
	CotisationID string
}

// SubscriptionInput carries the fields needed to start a monthly donation.
type SubscriptionInput struct {
	Amount   float64
	Currency string
	Email    string
	Name     string
	Address  string
}

// PaymentService owns the payment lifecycle: opening intents, preparing
// subscriptions, and reconciling webhook callbacks into local records.
//
// The webhook path is the only writer of payment rows. Client-side
// confirmations are never trusted.
type PaymentService struct {
	cfg         *config.AppConfig
	payments    port.PaymentRepository
	cotisations port.CotisationRepository
	accounts    port.AccountRepository
	provider    port.PaymentProvider
	verifier    port.WebhookVerifier
	receipts    port.ReceiptRenderer
	mailer      port.Mailer
	publisher   port.EventPublisher
	recorded    func(kind string)
	log         *zap.Logger
	now         func() time.Time
}

// NewPaymentService constructs a PaymentService instance.
func NewPaymentService(
	cfg *config.AppConfig,
	payments port.PaymentRepository,
	cotisations port.CotisationRepository,
	accounts port.AccountRepository,
	provider port.PaymentProvider,
	verifier port.WebhookVerifier,
	receipts port.ReceiptRenderer,
	mailer port.Mailer,
	publisher port.EventPublisher,
	log *zap.Logger,
) *PaymentService {
	return &PaymentService{
		cfg:         cfg,
		payments:    payments,
		cotisations: cotisations,
		accounts:    accounts,
		provider:    provider,
		verifier:    verifier,
		receipts:    receipts,
		mailer:      mailer,
		publisher:   publisher,
		recorded:    func(string) {},
		log:         log,
		now:         time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *PaymentService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// WithRecordedHook registers a callback fired once per recorded payment.
func (s *PaymentService) WithRecordedHook(hook func(kind string)) {
	if hook != nil {
		s.recorded = hook
	}
}

// CreatePaymentIntent opens a one-time payment with the processor and
// returns the client secret the frontend confirms against.
//
// Donations are open to anonymous visitors; membership renewals require an
// authenticated member paying one of their own cotisations.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, actor *domain.Account, input CreateIntentInput) (string, error) {
	if input.Amount <= 0 {
		return "", ErrInvalidAmount
	}
	if !input.Kind.Valid() || input.Kind == domain.PaymentKindMonthlyDonation {
		return "", fmt.Errorf("%w: unsupported payment type", ErrInvalidAmount)
	}

	currency := strings.ToLower(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = donationCurrency
	}
	if currency != donationCurrency {
		return "", ErrUnsupportedCurrency
	}

	email := domain.NormalizeEmail(input.Email)
	if email == "" || strings.TrimSpace(input.Name) == "" {
		return "", fmt.Errorf("%w: email and name are required", ErrValidation)
	}

	cotisationID := strings.TrimSpace(input.CotisationID)
	if input.Kind == domain.PaymentKindMembershipRenewal {
		if actor == nil {
			return "", ErrForbidden
		}

		cotisation, err := s.cotisations.GetByID(ctx, cotisationID)
		if err != nil {
			return "", fmt.Errorf("lookup cotisation: %w", err)
		}
		if cotisation.UserID != actor.ID && !actor.IsAdmin() {
			return "", ErrForbidden
		}
		if input.Amount != cotisation.Amount {
			return "", fmt.Errorf("%w: amount does not match cotisation", ErrInvalidAmount)
		}
	}

	secret, err := s.provider.CreatePaymentIntent(ctx, port.PaymentIntentInput{
		Amount:       input.Amount,
		Currency:     currency,
		Email:        email,
		Name:         input.Name,
		Kind:         string(input.Kind),
		CotisationID: cotisationID,
	})
	if err != nil {
		s.log.Error("create payment intent failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	return secret, nil
}

// CreateSubscription prepares a monthly donation: customer, recurring
// price, and a setup intent collecting the card. The subscription itself is
// attached when the webhook confirms the setup intent.
func (s *PaymentService) CreateSubscription(ctx context.Context, actor *domain.Account, input SubscriptionInput) (*port.SubscriptionSetup, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	currency := strings.ToLower(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = donationCurrency
	}
	if currency != donationCurrency {
		return nil, ErrUnsupportedCurrency
	}

	email := domain.NormalizeEmail(input.Email)
	if email == "" || strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: email and name are required", ErrValidation)
	}

	setup, err := s.provider.PrepareSubscription(ctx, port.SubscriptionSetupInput{
		Amount:   input.Amount,
		Currency: currency,
		Email:    email,
		Name:     input.Name,
		Address:  input.Address,
	})
	if err != nil {
		s.log.Error("prepare subscription failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	if actor != nil {
		if err := s.accounts.SetStripeCustomerID(ctx, actor.ID, setup.CustomerID); err != nil {
			s.log.Warn("store customer id failed",
				zap.String("account_id", actor.ID),
				zap.Error(err),
			)
		}
	}

	return setup, nil
}

// CancelSubscription requests cancellation at period end and marks the
// local record canceled without waiting for the deletion webhook.
func (s *PaymentService) CancelSubscription(ctx context.Context, actor domain.Account, subscriptionID string) error {
	payment, err := s.payments.GetBySubscriptionID(ctx, subscriptionID)
	if err != nil {
		return err
	}

	owner := payment.UserID != nil && *payment.UserID == actor.ID
	sameEmail := domain.NormalizeEmail(payment.PayerEmail) == actor.Email
	if !actor.IsAdmin() && !owner && !sameEmail {
		return ErrForbidden
	}

	if err := s.provider.CancelSubscriptionAtPeriodEnd(ctx, subscriptionID); err != nil {
		s.log.Error("cancel subscription failed",
			zap.String("subscription_id", subscriptionID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	if err := s.payments.UpdateStatus(ctx, payment.ID, domain.PaymentStatusCanceled); err != nil {
		return fmt.Errorf("mark subscription canceled: %w", err)
	}

	if err := s.publisher.PublishSubscriptionCanceled(ctx, domain.SubscriptionCanceledEvent{
		PaymentID:      payment.ID,
		SubscriptionID: subscriptionID,
		CanceledAt:     s.now().UTC(),
	}); err != nil {
		s.log.Warn("publish subscription canceled failed", zap.Error(err))
	}

	return nil
}

// List returns all payments for admins.
func (s *PaymentService) List(ctx context.Context, actor domain.Account) ([]domain.Payment, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.payments.List(ctx)
}

// ListOwn returns the caller's payments.
func (s *PaymentService) ListOwn(ctx context.Context, actor domain.Account) ([]domain.Payment, error) {
	return s.payments.ListByUser(ctx, actor.ID)
}

// ReceiptPath returns the stored receipt location for a payment the actor
// may see.
func (s *PaymentService) ReceiptPath(ctx context.Context, actor domain.Account, paymentID string) (string, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return "", err
	}

	owner := payment.UserID != nil && *payment.UserID == actor.ID
	sameEmail := domain.NormalizeEmail(payment.PayerEmail) == actor.Email
	if !actor.IsAdmin() && !owner && !sameEmail {
		return "", ErrForbidden
	}

	if payment.ReceiptPath == nil || *payment.ReceiptPath == "" {
		return "", repository.ErrNotFound
	}

	return *payment.ReceiptPath, nil
}

// stripeSetupIntent is the slice of the processor object the webhook needs.
type stripeSetupIntent struct {
	ID            string            `json:"id"`
	Customer      string            `json:"customer"`
	PaymentMethod string            `json:"payment_method"`
	Metadata      map[string]string `json:"metadata"`
}

type stripePaymentIntent struct {
	ID            string            `json:"id"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	PaymentMethod string            `json:"payment_method"`
	ReceiptEmail  string            `json:"receipt_email"`
	Metadata      map[string]string `json:"metadata"`
}

type stripeSubscription struct {
	ID string `json:"id"`
}

// HandleWebhook verifies and dispatches a processor callback. Unknown event
// types are acknowledged so the processor stops retrying them; replayed
// deliveries of known events are no-ops thanks to the stripe_id uniqueness.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	eventType, object, err := s.verifier.Verify(payload, signatureHeader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookSignature, err)
	}

	switch eventType {
	case "setup_intent.succeeded":
		return s.handleSetupIntentSucceeded(ctx, object)
	case "payment_intent.succeeded":
		return s.handlePaymentIntentSucceeded(ctx, object)
	case "customer.subscription.deleted":
		return s.handleSubscriptionDeleted(ctx, object)
	default:
		s.log.Info("webhook event ignored", zap.String("event_type", eventType))
		return nil
	}
}

func (s *PaymentService) handleSetupIntentSucceeded(ctx context.Context, object []byte) error {
	var intent stripeSetupIntent
	if err := json.Unmarshal(object, &intent); err != nil {
		return fmt.Errorf("decode setup intent: %w", err)
	}

	priceID := intent.Metadata["price_id"]
	email := domain.NormalizeEmail(intent.Metadata["email"])
	name := intent.Metadata["name"]

	amount, err := strconv.ParseFloat(intent.Metadata["amount"], 64)
	if err != nil {
		return fmt.Errorf("parse setup intent amount: %w", err)
	}

	if err := s.provider.AttachDefaultPaymentMethod(ctx, intent.Customer, intent.PaymentMethod); err != nil {
		return fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	subscriptionID, err := s.provider.CreateSubscription(ctx, intent.Customer, priceID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	method, err := s.provider.PaymentMethodType(ctx, intent.PaymentMethod)
	if err != nil {
		s.log.Warn("resolve payment method failed", zap.Error(err))
		method = "card"
	}

	payment := domain.Payment{
		ID:             uuid.NewString(),
		StripeID:       intent.ID,
		Amount:         amount,
		Currency:       donationCurrency,
		Status:         domain.PaymentStatusSucceeded,
		Kind:           domain.PaymentKindMonthlyDonation,
		PaymentMethod:  method,
		PayerEmail:     email,
		PayerName:      name,
		SubscriptionID: &subscriptionID,
	}

	return s.recordPayment(ctx, payment)
}

func (s *PaymentService) handlePaymentIntentSucceeded(ctx context.Context, object []byte) error {
	var intent stripePaymentIntent
	if err := json.Unmarshal(object, &intent); err != nil {
		return fmt.Errorf("decode payment intent: %w", err)
	}

	kind := domain.PaymentKind(intent.Metadata["payment_type"])
	if !kind.Valid() {
		kind = domain.PaymentKindOneTimeDonation
	}

	email := domain.NormalizeEmail(intent.Metadata["email"])
	if email == "" {
		email = domain.NormalizeEmail(intent.ReceiptEmail)
	}

	method, err := s.provider.PaymentMethodType(ctx, intent.PaymentMethod)
	if err != nil {
		s.log.Warn("resolve payment method failed", zap.Error(err))
		method = "card"
	}

	payment := domain.Payment{
		ID:            uuid.NewString(),
		StripeID:      intent.ID,
		Amount:        float64(intent.Amount) / 100,
		Currency:      strings.ToLower(intent.Currency),
		Status:        domain.PaymentStatusSucceeded,
		Kind:          kind,
		PaymentMethod: method,
		PayerEmail:    email,
		PayerName:     intent.Metadata["name"],
	}

	if cotisationID := intent.Metadata["cotisation_id"]; cotisationID != "" {
		payment.CotisationID = &cotisationID
		if cotisation, err := s.cotisations.GetByID(ctx, cotisationID); err == nil {
			payment.UserID = &cotisation.UserID
		}
	}
	if payment.UserID == nil && email != "" {
		if account, err := s.accounts.GetByEmail(ctx, email); err == nil {
			payment.UserID = &account.ID
		}
	}

	return s.recordPayment(ctx, payment)
}

func (s *PaymentService) handleSubscriptionDeleted(ctx context.Context, object []byte) error {
	var sub stripeSubscription
	if err := json.Unmarshal(object, &sub); err != nil {
		return fmt.Errorf("decode subscription: %w", err)
	}

	payment, err := s.payments.GetBySubscriptionID(ctx, sub.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Info("subscription deletion for unknown payment",
				zap.String("subscription_id", sub.ID),
			)
			return nil
		}
		return err
	}

	if payment.Status == domain.PaymentStatusCanceled {
		return nil
	}

	if err := s.payments.UpdateStatus(ctx, payment.ID, domain.PaymentStatusCanceled); err != nil {
		return fmt.Errorf("mark subscription canceled: %w", err)
	}

	if err := s.publisher.PublishSubscriptionCanceled(ctx, domain.SubscriptionCanceledEvent{
		PaymentID:      payment.ID,
		SubscriptionID: sub.ID,
		CanceledAt:     s.now().UTC(),
	}); err != nil {
		s.log.Warn("publish subscription canceled failed", zap.Error(err))
	}

	return nil
}

// recordPayment persists the payment once, then produces the receipt and
// confirmation email. Receipt and mail failures never fail the webhook:
// the record is already durable and the delivery would only be retried
// into a duplicate.
func (s *PaymentService) recordPayment(ctx context.Context, payment domain.Payment) error {
	now := s.now().UTC()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	created, err := s.payments.CreateIfAbsent(ctx, payment)
	if err != nil {
		return fmt.Errorf("record payment: %w", err)
	}
	if !created {
		s.log.Info("webhook replay ignored", zap.String("stripe_id", payment.StripeID))
		return nil
	}

	s.recorded(string(payment.Kind))

	receiptPath := ""
	if s.receipts != nil {
		path, err := s.receipts.Render(port.ReceiptData{
			Amount:        payment.Amount,
			Currency:      payment.Currency,
			PaymentMethod: payment.PaymentMethod,
			DonorName:     payment.PayerName,
			PaymentDate:   now,
			TransactionID: payment.StripeID,
		})
		if err != nil {
			s.log.Error("render receipt failed",
				zap.String("payment_id", payment.ID),
				zap.Error(err),
			)
		} else {
			receiptPath = path
			if err := s.payments.SetReceiptPath(ctx, payment.ID, path); err != nil {
				s.log.Warn("store receipt path failed", zap.Error(err))
			}
		}
	}

	if payment.PayerEmail != "" {
		if err := s.mailer.SendPaymentConfirmation(ctx, payment.PayerEmail, payment.PayerName, payment, receiptPath); err != nil {
			s.log.Warn("send payment confirmation failed",
				zap.String("email", logger.MaskEmail(payment.PayerEmail)),
				zap.Error(err),
			)
		}
	}

	if err := s.publisher.PublishPaymentRecorded(ctx, domain.PaymentRecordedEvent{
		PaymentID:  payment.ID,
		StripeID:   payment.StripeID,
		Kind:       payment.Kind,
		Amount:     payment.Amount,
		Currency:   payment.Currency,
		PayerEmail: payment.PayerEmail,
		RecordedAt: now,
	}); err != nil {
		s.log.Warn("publish payment recorded failed", zap.Error(err))
	}

	return nil
}
