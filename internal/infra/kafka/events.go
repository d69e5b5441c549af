package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/port"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	AccountID string           `json:"account_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, accountID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		AccountID: accountID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata: envelopeMetadata{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishAccountRegistered publishes assoc.account.registered events.
func (p *EventPublisher) PublishAccountRegistered(ctx context.Context, event domain.AccountRegisteredEvent) error {
	payload := struct {
		AccountID    string         `json:"account_id"`
		Email        string         `json:"email"`
		RegisteredAt time.Time      `json:"registered_at"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		AccountID:    event.AccountID,
		Email:        event.Email,
		RegisteredAt: event.RegisteredAt.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "assoc.account.registered", event.AccountID, event.RegisteredAt, payload)
}

// PublishAccountApproved publishes assoc.account.approved events.
func (p *EventPublisher) PublishAccountApproved(ctx context.Context, event domain.AccountApprovedEvent) error {
	payload := struct {
		AccountID  string         `json:"account_id"`
		Email      string         `json:"email"`
		ApprovedBy string         `json:"approved_by"`
		ApprovedAt time.Time      `json:"approved_at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		AccountID:  event.AccountID,
		Email:      event.Email,
		ApprovedBy: event.ApprovedBy,
		ApprovedAt: event.ApprovedAt.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "assoc.account.approved", event.AccountID, event.ApprovedAt, payload)
}

// PublishPasswordChanged publishes assoc.account.password.changed events.
func (p *EventPublisher) PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error {
	payload := struct {
		AccountID string         `json:"account_id"`
		ChangedAt time.Time      `json:"changed_at"`
		Reason    string         `json:"reason"`
		Metadata  map[string]any `json:"metadata,omitempty"`
	}{
		AccountID: event.AccountID,
		ChangedAt: event.ChangedAt.UTC(),
		Reason:    event.Reason,
		Metadata:  event.Metadata,
	}

	return p.publish(ctx, event.EventID, "assoc.account.password.changed", event.AccountID, event.ChangedAt, payload)
}

// PublishPaymentRecorded publishes assoc.payment.recorded events.
func (p *EventPublisher) PublishPaymentRecorded(ctx context.Context, event domain.PaymentRecordedEvent) error {
	payload := struct {
		PaymentID  string         `json:"payment_id"`
		StripeID   string         `json:"stripe_id"`
		Kind       string         `json:"kind"`
		Amount     float64        `json:"amount"`
		Currency   string         `json:"currency"`
		PayerEmail string         `json:"payer_email"`
		RecordedAt time.Time      `json:"recorded_at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		PaymentID:  event.PaymentID,
		StripeID:   event.StripeID,
		Kind:       string(event.Kind),
		Amount:     event.Amount,
		Currency:   event.Currency,
		PayerEmail: event.PayerEmail,
		RecordedAt: event.RecordedAt.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "assoc.payment.recorded", "", event.RecordedAt, payload)
}

// PublishSubscriptionCanceled publishes assoc.subscription.canceled events.
func (p *EventPublisher) PublishSubscriptionCanceled(ctx context.Context, event domain.SubscriptionCanceledEvent) error {
	payload := struct {
		PaymentID      string         `json:"payment_id"`
		SubscriptionID string         `json:"subscription_id"`
		CanceledAt     time.Time      `json:"canceled_at"`
		Metadata       map[string]any `json:"metadata,omitempty"`
	}{
		PaymentID:      event.PaymentID,
		SubscriptionID: event.SubscriptionID,
		CanceledAt:     event.CanceledAt.UTC(),
		Metadata:       event.Metadata,
	}

	return p.publish(ctx, event.EventID, "assoc.subscription.canceled", "", event.CanceledAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
