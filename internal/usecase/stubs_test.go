package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/port"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/config"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/security"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/repository"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		App: config.AppSettings{
			Name: "iyffa-backend-test",
			Env:  "test",
		},
		JWT: config.JWTSettings{
			Secret:          "unit-test-signing-secret",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		RateLimit: config.RateLimitSettings{
			WindowDuration:           time.Minute,
			LoginMaxAttempts:         5,
			PasswordResetMaxAttempts: 3,
		},
		Codes: config.CodeSettings{
			Length:      6,
			TTL:         30 * time.Minute,
			MaxAttempts: 5,
		},
	}
}

func testTokens(cfg *config.AppConfig) *security.TokenManager {
	tokens, err := security.NewTokenManager(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	if err != nil {
		panic(err)
	}
	return tokens
}

func mustHash(password string) string {
	hash, err := security.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return hash
}

// accountRepoStub keeps accounts in memory, indexed by ID and email.
type accountRepoStub struct {
	accounts map[string]domain.Account
}

func newAccountRepoStub(accounts ...domain.Account) *accountRepoStub {
	repo := &accountRepoStub{accounts: make(map[string]domain.Account)}
	for _, account := range accounts {
		repo.accounts[account.ID] = account
	}
	return repo
}

func (r *accountRepoStub) Create(_ context.Context, account domain.Account) error {
	r.accounts[account.ID] = account
	return nil
}

func (r *accountRepoStub) GetByID(_ context.Context, id string) (*domain.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := account
	return &copied, nil
}

func (r *accountRepoStub) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, account := range r.accounts {
		if account.Email == email {
			copied := account
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *accountRepoStub) List(context.Context) ([]domain.Account, error) {
	out := make([]domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		out = append(out, account)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *accountRepoStub) Update(_ context.Context, account domain.Account) error {
	if _, ok := r.accounts[account.ID]; !ok {
		return repository.ErrNotFound
	}
	r.accounts[account.ID] = account
	return nil
}

func (r *accountRepoStub) UpdatePassword(_ context.Context, id, passwordHash string, changedAt time.Time) error {
	account, ok := r.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.PasswordHash = passwordHash
	account.UpdatedAt = changedAt
	r.accounts[id] = account
	return nil
}

func (r *accountRepoStub) SetActive(_ context.Context, id string, active bool) error {
	account, ok := r.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.Active = active
	r.accounts[id] = account
	return nil
}

func (r *accountRepoStub) SetTwoFactor(_ context.Context, id string, enabled bool) error {
	account, ok := r.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.TwoFactorEnabled = enabled
	r.accounts[id] = account
	return nil
}

func (r *accountRepoStub) SetStripeCustomerID(_ context.Context, id, customerID string) error {
	account, ok := r.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.StripeCustomerID = &customerID
	r.accounts[id] = account
	return nil
}

func (r *accountRepoStub) Delete(_ context.Context, id string) error {
	if _, ok := r.accounts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *accountRepoStub) CountByRole(_ context.Context, role domain.AccountRole) (int, error) {
	count := 0
	for _, account := range r.accounts {
		if account.Role == role {
			count++
		}
	}
	return count, nil
}

func (r *accountRepoStub) Count(context.Context) (int, error) {
	return len(r.accounts), nil
}

// codeStoreStub keeps pending codes in memory keyed by purpose and email.
type codeStoreStub struct {
	codes map[string]*domain.PendingCode
	now   func() time.Time
}

func newCodeStoreStub() *codeStoreStub {
	return &codeStoreStub{
		codes: make(map[string]*domain.PendingCode),
		now:   time.Now,
	}
}

func codeKey(purpose domain.CodePurpose, email string) string {
	return string(purpose) + ":" + email
}

func (s *codeStoreStub) Store(_ context.Context, purpose domain.CodePurpose, email, code string, ttl time.Duration) (*domain.PendingCode, error) {
	now := s.now().UTC()
	pending := &domain.PendingCode{
		Purpose:   purpose,
		Email:     email,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	s.codes[codeKey(purpose, email)] = pending
	return pending, nil
}

func (s *codeStoreStub) Get(_ context.Context, purpose domain.CodePurpose, email string) (*domain.PendingCode, error) {
	pending, ok := s.codes[codeKey(purpose, email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *pending
	return &copied, nil
}

func (s *codeStoreStub) Delete(_ context.Context, purpose domain.CodePurpose, email string) error {
	key := codeKey(purpose, email)
	if _, ok := s.codes[key]; !ok {
		return repository.ErrNotFound
	}
	delete(s.codes, key)
	return nil
}

func (s *codeStoreStub) IncrementAttempts(_ context.Context, purpose domain.CodePurpose, email string) (int, error) {
	pending, ok := s.codes[codeKey(purpose, email)]
	if !ok {
		return 0, repository.ErrNotFound
	}
	pending.Attempts++
	return pending.Attempts, nil
}

// denylistStub records denied token identifiers.
type denylistStub struct {
	denied map[string]time.Time
}

func newDenylistStub() *denylistStub {
	return &denylistStub{denied: make(map[string]time.Time)}
}

func (s *denylistStub) Deny(_ context.Context, jti string, until time.Time) error {
	s.denied[jti] = until
	return nil
}

func (s *denylistStub) IsDenied(_ context.Context, jti string) (bool, error) {
	_, ok := s.denied[jti]
	return ok, nil
}

// rateLimitStub implements a sliding window over an in-memory slice.
type rateLimitStub struct {
	attempts map[string][]time.Time
}

func newRateLimitStub() *rateLimitStub {
	return &rateLimitStub{attempts: make(map[string][]time.Time)}
}

func (s *rateLimitStub) TrimWindow(_ context.Context, identifier string, window time.Duration, reference time.Time) error {
	cutoff := reference.Add(-window)
	kept := s.attempts[identifier][:0]
	for _, at := range s.attempts[identifier] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	s.attempts[identifier] = kept
	return nil
}

func (s *rateLimitStub) CountAttempts(_ context.Context, identifier string, window time.Duration, reference time.Time) (int, error) {
	cutoff := reference.Add(-window)
	count := 0
	for _, at := range s.attempts[identifier] {
		if at.After(cutoff) {
			count++
		}
	}
	return count, nil
}

func (s *rateLimitStub) RecordAttempt(_ context.Context, identifier string, at time.Time) error {
	s.attempts[identifier] = append(s.attempts[identifier], at)
	return nil
}

func (s *rateLimitStub) OldestAttempt(_ context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error) {
	cutoff := reference.Add(-window)
	var oldest time.Time
	found := false
	for _, at := range s.attempts[identifier] {
		if at.After(cutoff) && (!found || at.Before(oldest)) {
			oldest = at
			found = true
		}
	}
	return oldest, found, nil
}

// sentMail records one delivered message.
type sentMail struct {
	kind string
	to   string
	code string
}

// mailerStub records outbound mail and can be told to fail per kind.
type mailerStub struct {
	sent    []sentMail
	failAll error
}

func newMailerStub() *mailerStub {
	return &mailerStub{}
}

func (m *mailerStub) record(kind, to, code string) error {
	if m.failAll != nil {
		return m.failAll
	}
	m.sent = append(m.sent, sentMail{kind: kind, to: to, code: code})
	return nil
}

func (m *mailerStub) lastCode(kind string) string {
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].kind == kind {
			return m.sent[i].code
		}
	}
	return ""
}

func (m *mailerStub) count(kind string) int {
	count := 0
	for _, msg := range m.sent {
		if msg.kind == kind {
			count++
		}
	}
	return count
}

func (m *mailerStub) SendOTPCode(_ context.Context, to, _, code string) error {
	return m.record("otp", to, code)
}

func (m *mailerStub) SendPasswordReset(_ context.Context, to, _, code string) error {
	return m.record("password_reset", to, code)
}

func (m *mailerStub) SendPasswordSetup(_ context.Context, to, _, code string) error {
	return m.record("password_setup", to, code)
}

func (m *mailerStub) SendTwoFactorSetup(_ context.Context, to, _, code string) error {
	return m.record("twofactor_setup", to, code)
}

func (m *mailerStub) SendAccountApproved(_ context.Context, to, _ string) error {
	return m.record("account_approved", to, "")
}

func (m *mailerStub) SendProjectNotice(_ context.Context, to string, _ domain.Project, _ string) error {
	return m.record("project_notice", to, "")
}

func (m *mailerStub) SendPaymentConfirmation(_ context.Context, to, _ string, _ domain.Payment, _ string) error {
	return m.record("payment_confirmation", to, "")
}

// publisherStub counts published events by type.
type publisherStub struct {
	registered []domain.AccountRegisteredEvent
	approved   []domain.AccountApprovedEvent
	passwords  []domain.PasswordChangedEvent
	payments   []domain.PaymentRecordedEvent
	canceled   []domain.SubscriptionCanceledEvent
}

func newPublisherStub() *publisherStub {
	return &publisherStub{}
}

func (p *publisherStub) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	p.registered = append(p.registered, event)
	return nil
}

func (p *publisherStub) PublishAccountApproved(_ context.Context, event domain.AccountApprovedEvent) error {
	p.approved = append(p.approved, event)
	return nil
}

func (p *publisherStub) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	p.passwords = append(p.passwords, event)
	return nil
}

func (p *publisherStub) PublishPaymentRecorded(_ context.Context, event domain.PaymentRecordedEvent) error {
	p.payments = append(p.payments, event)
	return nil
}

func (p *publisherStub) PublishSubscriptionCanceled(_ context.Context, event domain.SubscriptionCanceledEvent) error {
	p.canceled = append(p.canceled, event)
	return nil
}

// paymentRepoStub keeps payment rows in memory with stripe_id uniqueness.
type paymentRepoStub struct {
	payments map[string]domain.Payment
}

func newPaymentRepoStub() *paymentRepoStub {
	return &paymentRepoStub{payments: make(map[string]domain.Payment)}
}

func (r *paymentRepoStub) CreateIfAbsent(_ context.Context, payment domain.Payment) (bool, error) {
	for _, existing := range r.payments {
		if existing.StripeID == payment.StripeID {
			return false, nil
		}
	}
	r.payments[payment.ID] = payment
	return true, nil
}

func (r *paymentRepoStub) GetByID(_ context.Context, id string) (*domain.Payment, error) {
	payment, ok := r.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := payment
	return &copied, nil
}

func (r *paymentRepoStub) GetByStripeID(_ context.Context, stripeID string) (*domain.Payment, error) {
	for _, payment := range r.payments {
		if payment.StripeID == stripeID {
			copied := payment
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *paymentRepoStub) GetBySubscriptionID(_ context.Context, subscriptionID string) (*domain.Payment, error) {
	for _, payment := range r.payments {
		if payment.SubscriptionID != nil && *payment.SubscriptionID == subscriptionID {
			copied := payment
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *paymentRepoStub) List(context.Context) ([]domain.Payment, error) {
	out := make([]domain.Payment, 0, len(r.payments))
	for _, payment := range r.payments {
		out = append(out, payment)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *paymentRepoStub) ListByUser(_ context.Context, userID string) ([]domain.Payment, error) {
	out := make([]domain.Payment, 0)
	for _, payment := range r.payments {
		if payment.UserID != nil && *payment.UserID == userID {
			out = append(out, payment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *paymentRepoStub) UpdateStatus(_ context.Context, id string, status domain.PaymentStatus) error {
	payment, ok := r.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.Status = status
	r.payments[id] = payment
	return nil
}

func (r *paymentRepoStub) SetReceiptPath(_ context.Context, id, path string) error {
	payment, ok := r.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.ReceiptPath = &path
	r.payments[id] = payment
	return nil
}

func (r *paymentRepoStub) HasSucceededMembershipPayment(_ context.Context, userID string) (bool, error) {
	for _, payment := range r.payments {
		if payment.Kind == domain.PaymentKindMembershipRenewal &&
			payment.Status == domain.PaymentStatusSucceeded &&
			payment.UserID != nil && *payment.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *paymentRepoStub) SumSucceeded(context.Context) (float64, error) {
	var sum float64
	for _, payment := range r.payments {
		if payment.Status == domain.PaymentStatusSucceeded {
			sum += payment.Amount
		}
	}
	return sum, nil
}

func (r *paymentRepoStub) CountByUser(_ context.Context, userID string) (int, error) {
	count := 0
	for _, payment := range r.payments {
		if payment.UserID != nil && *payment.UserID == userID {
			count++
		}
	}
	return count, nil
}

// cotisationRepoStub keeps cotisation rows in memory.
type cotisationRepoStub struct {
	cotisations map[string]domain.Cotisation
}

func newCotisationRepoStub(cotisations ...domain.Cotisation) *cotisationRepoStub {
	repo := &cotisationRepoStub{cotisations: make(map[string]domain.Cotisation)}
	for _, cotisation := range cotisations {
		repo.cotisations[cotisation.ID] = cotisation
	}
	return repo
}

func (r *cotisationRepoStub) Create(_ context.Context, cotisation domain.Cotisation) error {
	r.cotisations[cotisation.ID] = cotisation
	return nil
}

func (r *cotisationRepoStub) GetByID(_ context.Context, id string) (*domain.Cotisation, error) {
	cotisation, ok := r.cotisations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := cotisation
	return &copied, nil
}

func (r *cotisationRepoStub) List(context.Context) ([]domain.Cotisation, error) {
	out := make([]domain.Cotisation, 0, len(r.cotisations))
	for _, cotisation := range r.cotisations {
		out = append(out, cotisation)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *cotisationRepoStub) ListByUser(_ context.Context, userID string) ([]domain.Cotisation, error) {
	out := make([]domain.Cotisation, 0)
	for _, cotisation := range r.cotisations {
		if cotisation.UserID == userID {
			out = append(out, cotisation)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *cotisationRepoStub) Update(_ context.Context, cotisation domain.Cotisation) error {
	if _, ok := r.cotisations[cotisation.ID]; !ok {
		return repository.ErrNotFound
	}
	r.cotisations[cotisation.ID] = cotisation
	return nil
}

func (r *cotisationRepoStub) Delete(_ context.Context, id string) error {
	if _, ok := r.cotisations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.cotisations, id)
	return nil
}

// articleRepoStub keeps articles in memory, newest first by CreatedAt.
type articleRepoStub struct {
	articles map[string]domain.Article
}

func newArticleRepoStub() *articleRepoStub {
	return &articleRepoStub{articles: make(map[string]domain.Article)}
}

func (r *articleRepoStub) Create(_ context.Context, article domain.Article) error {
	r.articles[article.ID] = article
	return nil
}

func (r *articleRepoStub) GetByID(_ context.Context, id string) (*domain.Article, error) {
	article, ok := r.articles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := article
	return &copied, nil
}

func (r *articleRepoStub) List(context.Context) ([]domain.Article, error) {
	out := make([]domain.Article, 0, len(r.articles))
	for _, article := range r.articles {
		out = append(out, article)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *articleRepoStub) ListRecent(ctx context.Context, limit int) ([]domain.Article, error) {
	out, _ := r.List(ctx)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *articleRepoStub) Update(_ context.Context, article domain.Article) error {
	if _, ok := r.articles[article.ID]; !ok {
		return repository.ErrNotFound
	}
	r.articles[article.ID] = article
	return nil
}

func (r *articleRepoStub) Delete(_ context.Context, id string) error {
	if _, ok := r.articles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.articles, id)
	return nil
}

func (r *articleRepoStub) Count(context.Context) (int, error) {
	return len(r.articles), nil
}

// projectRepoStub keeps projects in memory.
type projectRepoStub struct {
	projects map[string]domain.Project
}

func newProjectRepoStub() *projectRepoStub {
	return &projectRepoStub{projects: make(map[string]domain.Project)}
}

func (r *projectRepoStub) Create(_ context.Context, project domain.Project) error {
	r.projects[project.ID] = project
	return nil
}

func (r *projectRepoStub) GetByID(_ context.Context, id string) (*domain.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := project
	return &copied, nil
}

func (r *projectRepoStub) List(context.Context) ([]domain.Project, error) {
	out := make([]domain.Project, 0, len(r.projects))
	for _, project := range r.projects {
		out = append(out, project)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *projectRepoStub) ListRecent(ctx context.Context, limit int) ([]domain.Project, error) {
	out, _ := r.List(ctx)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *projectRepoStub) Update(_ context.Context, project domain.Project) error {
	if _, ok := r.projects[project.ID]; !ok {
		return repository.ErrNotFound
	}
	r.projects[project.ID] = project
	return nil
}

func (r *projectRepoStub) Delete(_ context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *projectRepoStub) Count(context.Context) (int, error) {
	return len(r.projects), nil
}

// documentRepoStub keeps project documents in memory.
type documentRepoStub struct {
	documents map[string]domain.Document
}

func newDocumentRepoStub() *documentRepoStub {
	return &documentRepoStub{documents: make(map[string]domain.Document)}
}

func (r *documentRepoStub) Create(_ context.Context, document domain.Document) error {
	r.documents[document.ID] = document
	return nil
}

func (r *documentRepoStub) GetByID(_ context.Context, id string) (*domain.Document, error) {
	document, ok := r.documents[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := document
	return &copied, nil
}

func (r *documentRepoStub) List(context.Context) ([]domain.Document, error) {
	out := make([]domain.Document, 0, len(r.documents))
	for _, document := range r.documents {
		out = append(out, document)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *documentRepoStub) ListByProject(_ context.Context, projectID string) ([]domain.Document, error) {
	out := make([]domain.Document, 0)
	for _, document := range r.documents {
		if document.ProjectID == projectID {
			out = append(out, document)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *documentRepoStub) Update(_ context.Context, document domain.Document) error {
	if _, ok := r.documents[document.ID]; !ok {
		return repository.ErrNotFound
	}
	r.documents[document.ID] = document
	return nil
}

func (r *documentRepoStub) Delete(_ context.Context, id string) error {
	if _, ok := r.documents[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.documents, id)
	return nil
}

// eventRepoStub keeps events in memory.
type eventRepoStub struct {
	events map[string]domain.Event
	now    func() time.Time
}

func newEventRepoStub() *eventRepoStub {
	return &eventRepoStub{events: make(map[string]domain.Event), now: time.Now}
}

func (r *eventRepoStub) Create(_ context.Context, event domain.Event) error {
	r.events[event.ID] = event
	return nil
}

func (r *eventRepoStub) GetByID(_ context.Context, id string) (*domain.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := event
	return &copied, nil
}

func (r *eventRepoStub) List(context.Context) ([]domain.Event, error) {
	out := make([]domain.Event, 0, len(r.events))
	for _, event := range r.events {
		out = append(out, event)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDatetime.Before(out[j].StartDatetime) })
	return out, nil
}

func (r *eventRepoStub) ListRecent(ctx context.Context, limit int) ([]domain.Event, error) {
	out, _ := r.List(ctx)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *eventRepoStub) CountUpcoming(context.Context) (int, error) {
	count := 0
	now := r.now()
	for _, event := range r.events {
		if event.StartDatetime.After(now) {
			count++
		}
	}
	return count, nil
}

func (r *eventRepoStub) Update(_ context.Context, event domain.Event) error {
	if _, ok := r.events[event.ID]; !ok {
		return repository.ErrNotFound
	}
	r.events[event.ID] = event
	return nil
}

func (r *eventRepoStub) Delete(_ context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *eventRepoStub) Count(context.Context) (int, error) {
	return len(r.events), nil
}

// imageRepoStub keeps event images in memory.
type imageRepoStub struct {
	images map[string]domain.Image
}

func newImageRepoStub() *imageRepoStub {
	return &imageRepoStub{images: make(map[string]domain.Image)}
}

func (r *imageRepoStub) Create(_ context.Context, image domain.Image) error {
	r.images[image.ID] = image
	return nil
}

func (r *imageRepoStub) GetByID(_ context.Context, id string) (*domain.Image, error) {
	image, ok := r.images[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := image
	return &copied, nil
}

func (r *imageRepoStub) ListByEvent(_ context.Context, eventID string) ([]domain.Image, error) {
	out := make([]domain.Image, 0)
	for _, image := range r.images {
		if image.EventID == eventID {
			out = append(out, image)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *imageRepoStub) Update(_ context.Context, image domain.Image) error {
	if _, ok := r.images[image.ID]; !ok {
		return repository.ErrNotFound
	}
	r.images[image.ID] = image
	return nil
}

func (r *imageRepoStub) Delete(_ context.Context, id string) error {
	if _, ok := r.images[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.images, id)
	return nil
}

// providerStub fakes the payment processor.
type providerStub struct {
	clientSecret    string
	setup           port.SubscriptionSetup
	subscriptionID  string
	methodType      string
	intents         []port.PaymentIntentInput
	attached        [][2]string
	subscriptions   [][2]string
	canceled        []string
	createIntentErr error
	prepareErr      error
	cancelErr       error
}

func newProviderStub() *providerStub {
	return &providerStub{
		clientSecret: "pi_secret_test",
		setup: port.SubscriptionSetup{
			CustomerID:   "cus_test",
			PriceID:      "price_test",
			ClientSecret: "seti_secret_test",
		},
		subscriptionID: "sub_test",
		methodType:     "card",
	}
}

func (p *providerStub) CreatePaymentIntent(_ context.Context, input port.PaymentIntentInput) (string, error) {
	if p.createIntentErr != nil {
		return "", p.createIntentErr
	}
	p.intents = append(p.intents, input)
	return p.clientSecret, nil
}

func (p *providerStub) PrepareSubscription(_ context.Context, _ port.SubscriptionSetupInput) (*port.SubscriptionSetup, error) {
	if p.prepareErr != nil {
		return nil, p.prepareErr
	}
	setup := p.setup
	return &setup, nil
}

func (p *providerStub) AttachDefaultPaymentMethod(_ context.Context, customerID, paymentMethodID string) error {
	p.attached = append(p.attached, [2]string{customerID, paymentMethodID})
	return nil
}

func (p *providerStub) CreateSubscription(_ context.Context, customerID, priceID string) (string, error) {
	p.subscriptions = append(p.subscriptions, [2]string{customerID, priceID})
	return p.subscriptionID, nil
}

func (p *providerStub) CancelSubscriptionAtPeriodEnd(_ context.Context, subscriptionID string) error {
	if p.cancelErr != nil {
		return p.cancelErr
	}
	p.canceled = append(p.canceled, subscriptionID)
	return nil
}

func (p *providerStub) PaymentMethodType(_ context.Context, _ string) (string, error) {
	return p.methodType, nil
}

// verifierStub returns a pre-programmed event or rejects the signature.
type verifierStub struct {
	eventType string
	object    []byte
	err       error
}

func (v *verifierStub) Verify(_ []byte, signature string) (string, []byte, error) {
	if v.err != nil {
		return "", nil, v.err
	}
	if signature == "" {
		return "", nil, errors.New("missing signature")
	}
	return v.eventType, v.object, nil
}

// receiptsStub pretends to render receipts.
type receiptsStub struct {
	rendered  []port.ReceiptData
	renderErr error
}

func (r *receiptsStub) Render(data port.ReceiptData) (string, error) {
	if r.renderErr != nil {
		return "", r.renderErr
	}
	r.rendered = append(r.rendered, data)
	return fmt.Sprintf("/media/receipts/receipt_%s.pdf", data.TransactionID), nil
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
