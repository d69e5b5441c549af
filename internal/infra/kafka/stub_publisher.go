package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishAccountRegistered logs assoc.account.registered events.
func (p *StubPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	p.logEvent("assoc.account.registered", event.RegisteredAt, map[string]any{
		"account_id":    event.AccountID,
		"email":         event.Email,
		"registered_at": event.RegisteredAt,
		"metadata":      event.Metadata,
	})
	return nil
}

// PublishAccountApproved logs assoc.account.approved events.
func (p *StubPublisher) PublishAccountApproved(_ context.Context, event domain.AccountApprovedEvent) error {
	p.logEvent("assoc.account.approved", event.ApprovedAt, map[string]any{
		"account_id":  event.AccountID,
		"email":       event.Email,
		"approved_by": event.ApprovedBy,
		"approved_at": event.ApprovedAt,
		"metadata":    event.Metadata,
	})
	return nil
}

// PublishPasswordChanged logs assoc.account.password.changed events.
func (p *StubPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	p.logEvent("assoc.account.password.changed", event.ChangedAt, map[string]any{
		"account_id": event.AccountID,
		"changed_at": event.ChangedAt,
		"reason":     event.Reason,
		"metadata":   event.Metadata,
	})
	return nil
}

// PublishPaymentRecorded logs assoc.payment.recorded events.
func (p *StubPublisher) PublishPaymentRecorded(_ context.Context, event domain.PaymentRecordedEvent) error {
	p.logEvent("assoc.payment.recorded", event.RecordedAt, map[string]any{
		"payment_id":  event.PaymentID,
		"stripe_id":   event.StripeID,
		"kind":        event.Kind,
		"amount":      event.Amount,
		"currency":    event.Currency,
		"payer_email": event.PayerEmail,
		"recorded_at": event.RecordedAt,
		"metadata":    event.Metadata,
	})
	return nil
}

// PublishSubscriptionCanceled logs assoc.subscription.canceled events.
func (p *StubPublisher) PublishSubscriptionCanceled(_ context.Context, event domain.SubscriptionCanceledEvent) error {
	p.logEvent("assoc.subscription.canceled", event.CanceledAt, map[string]any{
		"payment_id":      event.PaymentID,
		"subscription_id": event.SubscriptionID,
		"canceled_at":     event.CanceledAt,
		"metadata":        event.Metadata,
	})
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
