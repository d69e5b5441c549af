package domain

import "time"

// AccountRegisteredEvent represents the payload for assoc.account.registered messages.
type AccountRegisteredEvent struct {
	EventID      string
	AccountID    string
	Email        string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// AccountApprovedEvent represents the payload for assoc.account.approved messages.
type AccountApprovedEvent struct {
	EventID    string
	AccountID  string
	Email      string
	ApprovedBy string
	ApprovedAt time.Time
	Metadata   map[string]any
}

// PasswordChangedEvent represents the payload for assoc.account.password.changed messages.
type PasswordChangedEvent struct {
	EventID   string
	AccountID string
	ChangedAt time.Time
	Reason    string
	Metadata  map[string]any
}

// PaymentRecordedEvent represents the payload for assoc.payment.recorded messages.
type PaymentRecordedEvent struct {
	EventID    string
	PaymentID  string
	StripeID   string
	Kind       PaymentKind
	Amount     float64
	Currency   string
	PayerEmail string
	RecordedAt time.Time
	Metadata   map[string]any
}

// SubscriptionCanceledEvent represents the payload for assoc.subscription.canceled messages.
type SubscriptionCanceledEvent struct {
	EventID        string
	PaymentID      string
	SubscriptionID string
	CanceledAt     time.Time
	Metadata       map[string]any
}
