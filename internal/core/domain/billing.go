package domain

import "time"

// PaymentStatus tracks the lifecycle of a payment record.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
	PaymentStatusCanceled  PaymentStatus = "canceled"
)

// PaymentKind distinguishes what a payment was made for.
type PaymentKind string

const (
	PaymentKindOneTimeDonation   PaymentKind = "one_time_donation"
	PaymentKindMonthlyDonation   PaymentKind = "monthly_donation"
	PaymentKindMembershipRenewal PaymentKind = "membership_renewal"
)

// Valid reports whether the kind is one of the known values.
func (k PaymentKind) Valid() bool {
	switch k {
	case PaymentKindOneTimeDonation, PaymentKindMonthlyDonation, PaymentKindMembershipRenewal:
		return true
	}
	return false
}

// Cotisation is a membership fee record tying a member to a dues amount.
type Cotisation struct {
	ID        string
	Type      string
	Amount    float64
	UserID    string
	CreatedAt time.Time
}

// Payment is the local record of a processor-confirmed transaction.
//
// Rows are created by webhook reconciliation only and are never deleted;
// they form the financial audit trail. StripeID is unique so replayed
// webhook deliveries cannot create duplicates.
type Payment struct {
	ID             string
	StripeID       string
	Amount         float64
	Currency       string
	Status         PaymentStatus
	Kind           PaymentKind
	PaymentMethod  string
	PayerEmail     string
	PayerName      string
	UserID         *string
	CotisationID   *string
	SubscriptionID *string
	ReceiptPath    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
