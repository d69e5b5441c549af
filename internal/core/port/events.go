package port

import (
	"context"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishAccountRegistered(ctx context.Context, event domain.AccountRegisteredEvent) error
	PublishAccountApproved(ctx context.Context, event domain.AccountApprovedEvent) error
	PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error
	PublishPaymentRecorded(ctx context.Context, event domain.PaymentRecordedEvent) error
	PublishSubscriptionCanceled(ctx context.Context, event domain.SubscriptionCanceledEvent) error
}
