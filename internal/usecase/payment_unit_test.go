package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
)

type paymentFixture struct {
	svc         *PaymentService
	payments    *paymentRepoStub
	cotisations *cotisationRepoStub
	accounts    *accountRepoStub
	provider    *providerStub
	verifier    *verifierStub
	receipts    *receiptsStub
	mailer      *mailerStub
	publisher   *publisherStub
}

func newPaymentFixture(accounts ...domain.Account) *paymentFixture {
	f := &paymentFixture{
		payments:    newPaymentRepoStub(),
		cotisations: newCotisationRepoStub(),
		accounts:    newAccountRepoStub(accounts...),
		provider:    newProviderStub(),
		verifier:    &verifierStub{},
		receipts:    &receiptsStub{},
		mailer:      newMailerStub(),
		publisher:   newPublisherStub(),
	}
	f.svc = NewPaymentService(
		testConfig(),
		f.payments,
		f.cotisations,
		f.accounts,
		f.provider,
		f.verifier,
		f.receipts,
		f.mailer,
		f.publisher,
		testLogger(),
	)
	return f
}

func TestCreatePaymentIntentForDonation(t *testing.T) {
	f := newPaymentFixture()

	secret, err := f.svc.CreatePaymentIntent(context.Background(), nil, CreateIntentInput{
		Amount: 50,
		Email:  "Donor@Example.org",
		Name:   "Jean Donor",
		Kind:   domain.PaymentKindOneTimeDonation,
	})
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	if secret != f.provider.clientSecret {
		t.Fatalf("expected client secret %q, got %q", f.provider.clientSecret, secret)
	}
	if len(f.provider.intents) != 1 {
		t.Fatalf("expected one intent, got %d", len(f.provider.intents))
	}
	intent := f.provider.intents[0]
	if intent.Currency != "chf" {
		t.Fatalf("expected default chf currency, got %q", intent.Currency)
	}
	if intent.Email != "donor@example.org" {
		t.Fatalf("expected normalized email, got %q", intent.Email)
	}
}

func TestCreatePaymentIntentValidation(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	if _, err := f.svc.CreatePaymentIntent(ctx, nil, CreateIntentInput{Amount: 0, Kind: domain.PaymentKindOneTimeDonation}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero amount: expected ErrInvalidAmount, got %v", err)
	}
	if _, err := f.svc.CreatePaymentIntent(ctx, nil, CreateIntentInput{Amount: 50, Kind: domain.PaymentKindMonthlyDonation, Email: "a@b.ch", Name: "A"}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("monthly kind: expected ErrInvalidAmount, got %v", err)
	}
	if _, err := f.svc.CreatePaymentIntent(ctx, nil, CreateIntentInput{Amount: 50, Currency: "eur", Kind: domain.PaymentKindOneTimeDonation, Email: "a@b.ch", Name: "A"}); !errors.Is(err, ErrUnsupportedCurrency) {
		t.Fatalf("eur: expected ErrUnsupportedCurrency, got %v", err)
	}
	if _, err := f.svc.CreatePaymentIntent(ctx, nil, CreateIntentInput{Amount: 50, Kind: domain.PaymentKindOneTimeDonation}); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing contact: expected ErrValidation, got %v", err)
	}
}

func TestCreatePaymentIntentProviderFailure(t *testing.T) {
	f := newPaymentFixture()
	f.provider.createIntentErr = errors.New("stripe down")

	_, err := f.svc.CreatePaymentIntent(context.Background(), nil, CreateIntentInput{
		Amount: 50,
		Email:  "donor@example.org",
		Name:   "Jean Donor",
		Kind:   domain.PaymentKindOneTimeDonation,
	})
	if !errors.Is(err, ErrPaymentProvider) {
		t.Fatalf("expected ErrPaymentProvider, got %v", err)
	}
}

func TestMembershipRenewalRequiresOwner(t *testing.T) {
	member := memberAccount("member password 5")
	other := memberAccount("member password 5")
	other.ID = uuid.NewString()
	other.Email = "other@example.org"

	f := newPaymentFixture(member, other)
	cotisation := domain.Cotisation{
		ID:     uuid.NewString(),
		Type:   "annual",
		Amount: 80,
		UserID: member.ID,
	}
	if err := f.cotisations.Create(context.Background(), cotisation); err != nil {
		t.Fatalf("seed cotisation: %v", err)
	}

	input := CreateIntentInput{
		Amount:       80,
		Email:        member.Email,
		Name:         member.FullName(),
		Kind:         domain.PaymentKindMembershipRenewal,
		CotisationID: cotisation.ID,
	}

	// Anonymous visitors cannot renew memberships.
	if _, err := f.svc.CreatePaymentIntent(context.Background(), nil, input); !errors.Is(err, ErrForbidden) {
		t.Fatalf("anonymous: expected ErrForbidden, got %v", err)
	}

	// Another member cannot pay someone else's cotisation.
	if _, err := f.svc.CreatePaymentIntent(context.Background(), &other, input); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign member: expected ErrForbidden, got %v", err)
	}

	// The amount must match the cotisation.
	wrong := input
	wrong.Amount = 20
	if _, err := f.svc.CreatePaymentIntent(context.Background(), &member, wrong); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("wrong amount: expected ErrInvalidAmount, got %v", err)
	}

	if _, err := f.svc.CreatePaymentIntent(context.Background(), &member, input); err != nil {
		t.Fatalf("owner renewal: %v", err)
	}
}

func TestCreateSubscriptionStoresCustomerID(t *testing.T) {
	member := memberAccount("member password 5")
	f := newPaymentFixture(member)

	setup, err := f.svc.CreateSubscription(context.Background(), &member, SubscriptionInput{
		Amount: 10,
		Email:  member.Email,
		Name:   member.FullName(),
	})
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	if setup.ClientSecret != f.provider.setup.ClientSecret {
		t.Fatalf("expected setup secret %q, got %q", f.provider.setup.ClientSecret, setup.ClientSecret)
	}

	stored, err := f.accounts.GetByID(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("reload account: %v", err)
	}
	if stored.StripeCustomerID == nil || *stored.StripeCustomerID != f.provider.setup.CustomerID {
		t.Fatalf("expected customer id %q on account, got %v", f.provider.setup.CustomerID, stored.StripeCustomerID)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	f := newPaymentFixture()
	f.verifier.err = errors.New("signature mismatch")

	err := f.svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=bad")
	if !errors.Is(err, ErrWebhookSignature) {
		t.Fatalf("expected ErrWebhookSignature, got %v", err)
	}
}

func TestWebhookIgnoresUnknownEvents(t *testing.T) {
	f := newPaymentFixture()
	f.verifier.eventType = "invoice.paid"
	f.verifier.object = []byte(`{}`)

	if err := f.svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("unknown event must be acknowledged, got %v", err)
	}
	if len(f.payments.payments) != 0 {
		t.Fatalf("unknown event must not write payments")
	}
}

func TestWebhookPaymentIntentSucceeded(t *testing.T) {
	member := memberAccount("member password 5")
	f := newPaymentFixture(member)
	f.verifier.eventType = "payment_intent.succeeded"
	f.verifier.object = []byte(`{
		"id": "pi_123",
		"amount": 5000,
		"currency": "CHF",
		"payment_method": "pm_1",
		"metadata": {
			"payment_type": "one_time_donation",
			"email": "member@example.org",
			"name": "Nora Keller"
		}
	}`)

	if err := f.svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("webhook: %v", err)
	}

	payment, err := f.payments.GetByStripeID(context.Background(), "pi_123")
	if err != nil {
		t.Fatalf("expected recorded payment: %v", err)
	}
	if payment.Amount != 50 {
		t.Fatalf("expected amount 50, got %v", payment.Amount)
	}
	if payment.Currency != "chf" {
		t.Fatalf("expected chf, got %q", payment.Currency)
	}
	if payment.Status != domain.PaymentStatusSucceeded {
		t.Fatalf("expected succeeded status, got %q", payment.Status)
	}
	if payment.UserID == nil || *payment.UserID != member.ID {
		t.Fatalf("expected payment linked to member %s, got %v", member.ID, payment.UserID)
	}
	if payment.ReceiptPath == nil || *payment.ReceiptPath == "" {
		t.Fatalf("expected receipt path to be stored")
	}
	if f.mailer.count("payment_confirmation") != 1 {
		t.Fatalf("expected one confirmation mail, got %d", f.mailer.count("payment_confirmation"))
	}
	if len(f.publisher.payments) != 1 || f.publisher.payments[0].StripeID != "pi_123" {
		t.Fatalf("expected one recorded event, got %+v", f.publisher.payments)
	}
}

func TestWebhookReplayIsIdempotent(t *testing.T) {
	f := newPaymentFixture()
	f.verifier.eventType = "payment_intent.succeeded"
	f.verifier.object = []byte(`{
		"id": "pi_replay",
		"amount": 2500,
		"currency": "chf",
		"receipt_email": "donor@example.org",
		"metadata": {"name": "Jean Donor"}
	}`)

	for i := 0; i < 3; i++ {
		if err := f.svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"); err != nil {
			t.Fatalf("delivery %d: %v", i+1, err)
		}
	}

	if len(f.payments.payments) != 1 {
		t.Fatalf("expected exactly one payment row, got %d", len(f.payments.payments))
	}
	if f.mailer.count("payment_confirmation") != 1 {
		t.Fatalf("replays must not re-send mail, got %d messages", f.mailer.count("payment_confirmation"))
	}
	if len(f.publisher.payments) != 1 {
		t.Fatalf("replays must not re-publish, got %d events", len(f.publisher.payments))
	}
}

func TestWebhookPaymentIntentLinksCotisation(t *testing.T) {
	member := memberAccount("member password 5")
	f := newPaymentFixture(member)
	cotisation := domain.Cotisation{
		ID:     uuid.NewString(),
		Type:   "annual",
		Amount: 80,
		UserID: member.ID,
	}
	if err := f.cotisations.Create(context.Background(), cotisation); err != nil {
		t.Fatalf("seed cotisation: %v", err)
	}

	f.verifier.eventType = "payment_intent.succeeded"
	f.verifier.object = []byte(`{
		"id": "pi_renewal",
		"amount": 8000,
		"currency": "chf",
		"metadata": {
			"payment_type": "membership_renewal",
			"cotisation_id": "` + cotisation.ID + `",
			"email": "member@example.org",
			"name": "Nora Keller"
		}
	}`)

	if err := f.svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("webhook: %v", err)
	}

	payment, err := f.payments.GetByStripeID(context.Background(), "pi_renewal")
	if err != nil {
		t.Fatalf("expected recorded payment: %v", err)
	}
	if payment.Kind != domain.PaymentKindMembershipRenewal {
		t.Fatalf("expected membership renewal, got %q", payment.Kind)
	}
	if payment.CotisationID == nil || *payment.CotisationID != cotisation.ID {
		t.Fatalf("expected cotisation link, got %v", payment.CotisationID)
	}
	if payment.UserID == nil || *payment.UserID != member.ID {
		t.Fatalf("expected user link via cotisation, got %v", payment.UserID)
	}

	ok, err := f.payments.HasSucceededMembershipPayment(context.Background(), member.ID)
	if err != nil || !ok {
		t.Fatalf("expected membership to count as paid: ok=%v err=%v", ok, err)
	}
}

func TestWebhookSetupIntentCreatesSubscription(t *testing.T) {
	f := newPaymentFixture()
	f.verifier.eventType = "setup_intent.succeeded"
	f.verifier.object = []byte(`{
		"id": "seti_1",
		"customer": "cus_9",
		"payment_method": "pm_9",
		"metadata": {
			"price_id": "price_9",
			"email": "donor@example.org",
			"name": "Jean Donor",
			"amount": "15"
		}
	}`)

	if err := f.svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("webhook: %v", err)
	}

	if len(f.provider.attached) != 1 || f.provider.attached[0] != [2]string{"cus_9", "pm_9"} {
		t.Fatalf("expected payment method attachment, got %+v", f.provider.attached)
	}
	if len(f.provider.subscriptions) != 1 || f.provider.subscriptions[0] != [2]string{"cus_9", "price_9"} {
		t.Fatalf("expected subscription creation, got %+v", f.provider.subscriptions)
	}

	payment, err := f.payments.GetByStripeID(context.Background(), "seti_1")
	if err != nil {
		t.Fatalf("expected recorded payment: %v", err)
	}
	if payment.Kind != domain.PaymentKindMonthlyDonation {
		t.Fatalf("expected monthly donation, got %q", payment.Kind)
	}
	if payment.Amount != 15 {
		t.Fatalf("expected amount 15, got %v", payment.Amount)
	}
	if payment.SubscriptionID == nil || *payment.SubscriptionID != f.provider.subscriptionID {
		t.Fatalf("expected subscription id %q, got %v", f.provider.subscriptionID, payment.SubscriptionID)
	}
}

func TestWebhookSubscriptionDeleted(t *testing.T) {
	f := newPaymentFixture()
	subscriptionID := "sub_gone"
	payment := domain.Payment{
		ID:             uuid.NewString(),
		StripeID:       "seti_gone",
		Amount:         15,
		Currency:       "chf",
		Status:         domain.PaymentStatusSucceeded,
		Kind:           domain.PaymentKindMonthlyDonation,
		PayerEmail:     "donor@example.org",
		SubscriptionID: &subscriptionID,
	}
	if _, err := f.payments.CreateIfAbsent(context.Background(), payment); err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	f.verifier.eventType = "customer.subscription.deleted"
	f.verifier.object = []byte(`{"id": "sub_gone"}`)

	if err := f.svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("webhook: %v", err)
	}

	updated, err := f.payments.GetByID(context.Background(), payment.ID)
	if err != nil {
		t.Fatalf("reload payment: %v", err)
	}
	if updated.Status != domain.PaymentStatusCanceled {
		t.Fatalf("expected canceled status, got %q", updated.Status)
	}
	if len(f.publisher.canceled) != 1 || f.publisher.canceled[0].SubscriptionID != subscriptionID {
		t.Fatalf("expected one canceled event, got %+v", f.publisher.canceled)
	}

	// A second delivery finds the record already canceled and stays quiet.
	if err := f.svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(f.publisher.canceled) != 1 {
		t.Fatalf("replay must not re-publish, got %d events", len(f.publisher.canceled))
	}
}

func TestWebhookSubscriptionDeletedUnknown(t *testing.T) {
	f := newPaymentFixture()
	f.verifier.eventType = "customer.subscription.deleted"
	f.verifier.object = []byte(`{"id": "sub_unknown"}`)

	if err := f.svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("unknown subscription must be acknowledged, got %v", err)
	}
}

func TestCancelSubscriptionOwnership(t *testing.T) {
	member := memberAccount("member password 5")
	stranger := memberAccount("member password 5")
	stranger.ID = uuid.NewString()
	stranger.Email = "stranger@example.org"

	f := newPaymentFixture(member, stranger)
	subscriptionID := "sub_live"
	payment := domain.Payment{
		ID:             uuid.NewString(),
		StripeID:       "seti_live",
		Amount:         15,
		Currency:       "chf",
		Status:         domain.PaymentStatusSucceeded,
		Kind:           domain.PaymentKindMonthlyDonation,
		PayerEmail:     member.Email,
		UserID:         &member.ID,
		SubscriptionID: &subscriptionID,
	}
	if _, err := f.payments.CreateIfAbsent(context.Background(), payment); err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	if err := f.svc.CancelSubscription(context.Background(), stranger, subscriptionID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger: expected ErrForbidden, got %v", err)
	}

	if err := f.svc.CancelSubscription(context.Background(), member, subscriptionID); err != nil {
		t.Fatalf("owner cancel: %v", err)
	}
	if len(f.provider.canceled) != 1 || f.provider.canceled[0] != subscriptionID {
		t.Fatalf("expected provider cancellation, got %+v", f.provider.canceled)
	}

	updated, err := f.payments.GetByID(context.Background(), payment.ID)
	if err != nil {
		t.Fatalf("reload payment: %v", err)
	}
	if updated.Status != domain.PaymentStatusCanceled {
		t.Fatalf("expected canceled status, got %q", updated.Status)
	}
}

func TestReceiptPathAccess(t *testing.T) {
	member := memberAccount("member password 5")
	admin := adminAccount()
	stranger := memberAccount("member password 5")
	stranger.ID = uuid.NewString()
	stranger.Email = "stranger@example.org"

	f := newPaymentFixture(member, admin, stranger)
	receiptPath := "/media/receipts/receipt_pi_r.pdf"
	payment := domain.Payment{
		ID:          uuid.NewString(),
		StripeID:    "pi_r",
		Amount:      50,
		Currency:    "chf",
		Status:      domain.PaymentStatusSucceeded,
		Kind:        domain.PaymentKindOneTimeDonation,
		PayerEmail:  member.Email,
		UserID:      &member.ID,
		ReceiptPath: &receiptPath,
	}
	if _, err := f.payments.CreateIfAbsent(context.Background(), payment); err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	if _, err := f.svc.ReceiptPath(context.Background(), stranger, payment.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger: expected ErrForbidden, got %v", err)
	}

	path, err := f.svc.ReceiptPath(context.Background(), member, payment.ID)
	if err != nil || path != receiptPath {
		t.Fatalf("owner: expected %q, got %q (%v)", receiptPath, path, err)
	}
	if _, err := f.svc.ReceiptPath(context.Background(), admin, payment.ID); err != nil {
		t.Fatalf("admin: %v", err)
	}
}

func TestListPaymentsAdminOnly(t *testing.T) {
	member := memberAccount("member password 5")
	admin := adminAccount()
	f := newPaymentFixture(member, admin)

	if _, err := f.svc.List(context.Background(), member); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for member, got %v", err)
	}
	if _, err := f.svc.List(context.Background(), admin); err != nil {
		t.Fatalf("admin list: %v", err)
	}
}

func TestRecordedHookFires(t *testing.T) {
	f := newPaymentFixture()
	var kinds []string
	f.svc.WithRecordedHook(func(kind string) { kinds = append(kinds, kind) })

	f.verifier.eventType = "payment_intent.succeeded"
	f.verifier.object = []byte(`{
		"id": "pi_hook",
		"amount": 1000,
		"currency": "chf",
		"receipt_email": "donor@example.org",
		"metadata": {"name": "Jean Donor"}
	}`)

	if err := f.svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("webhook: %v", err)
	}
	if len(kinds) != 1 || kinds[0] != string(domain.PaymentKindOneTimeDonation) {
		t.Fatalf("expected one hook call for one_time_donation, got %v", kinds)
	}
}
