package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/transport/http/middleware"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/usecase"
)

// ErrorResponse is the uniform error payload. Code carries one of the
// stable machine-readable codes from the usecase package so clients can
// branch without parsing the message.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response carrying the request trace ID.
func NewErrorResponse(c *gin.Context, errorMsg string, code usecase.ErrorCode) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		Code:    string(code),
		TraceID: middleware.GetTraceID(c),
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// AccountSummary is the API view of an account. The password hash never
// leaves the service layer.
type AccountSummary struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Role             string     `json:"role"`
	Active           bool       `json:"active"`
	TwoFactorEnabled bool       `json:"two_factor_enabled"`
	CGUAccepted      bool       `json:"cgu_accepted"`
	Birthdate        *time.Time `json:"birthdate,omitempty"`
	Phone            *string    `json:"phone,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func newAccountSummary(account domain.Account) AccountSummary {
	return AccountSummary{
		ID:               account.ID,
		Email:            account.Email,
		FirstName:        account.FirstName,
		LastName:         account.LastName,
		Role:             string(account.Role),
		Active:           account.Active,
		TwoFactorEnabled: account.TwoFactorEnabled,
		CGUAccepted:      account.CGUAccepted,
		Birthdate:        account.Birthdate,
		Phone:            account.Phone,
		CreatedAt:        account.CreatedAt,
	}
}

func newAccountSummaries(accounts []domain.Account) []AccountSummary {
	out := make([]AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, newAccountSummary(account))
	}
	return out
}

// TokenPairResponse carries an issued access/refresh token pair.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func newTokenPairResponse(pair *usecase.TokenPair) *TokenPairResponse {
	if pair == nil {
		return nil
	}
	return &TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    pair.ExpiresIn,
	}
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned by login. When OTPRequired is set the tokens
// are absent and the caller must complete the one-time code step.
type LoginResponse struct {
	OTPRequired bool               `json:"otp_required"`
	Account     *AccountSummary    `json:"account,omitempty"`
	Tokens      *TokenPairResponse `json:"tokens,omitempty"`
}

// VerifyOTPRequest defines the payload for the one-time code verification endpoint.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// RefreshRequest defines the payload for the token refresh endpoint.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest defines the payload for the logout endpoint.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TwoFactorConfirmRequest carries the mailed code confirming 2FA setup.
type TwoFactorConfirmRequest struct {
	Code string `json:"code" binding:"required"`
}

// TwoFactorDisableRequest carries the password recheck for disabling 2FA.
type TwoFactorDisableRequest struct {
	Password string `json:"password" binding:"required"`
}

// PasswordResetRequest asks for a reset code to be mailed.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

// PasswordConfirmRequest completes a password reset or first-time setup.
type PasswordConfirmRequest struct {
	Email       string `json:"email" binding:"required"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// RegistrationRequest defines the membership application payload.
type RegistrationRequest struct {
	Email       string     `json:"email" binding:"required"`
	FirstName   string     `json:"first_name" binding:"required"`
	LastName    string     `json:"last_name" binding:"required"`
	Birthdate   *time.Time `json:"birthdate"`
	Phone       *string    `json:"phone"`
	CGUAccepted bool       `json:"cgu_accepted"`
}

// RegistrationResponse acknowledges a membership application.
type RegistrationResponse struct {
	Account AccountSummary `json:"account"`
	Message string         `json:"message"`
}

// UserRequest defines the admin payload for creating or updating an account.
type UserRequest struct {
	Email     string     `json:"email" binding:"required"`
	FirstName string     `json:"first_name" binding:"required"`
	LastName  string     `json:"last_name" binding:"required"`
	Password  string     `json:"password"`
	Role      string     `json:"role" binding:"required"`
	Active    *bool      `json:"active"`
	Birthdate *time.Time `json:"birthdate"`
	Phone     *string    `json:"phone"`
}

// ArticleRequest defines the payload for creating or updating an article.
type ArticleRequest struct {
	Title string `json:"title" binding:"required"`
	Text  string `json:"text" binding:"required"`
}

// ArticleResponse is the API view of an article.
type ArticleResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func newArticleResponse(article domain.Article) ArticleResponse {
	return ArticleResponse{
		ID:        article.ID,
		Title:     article.Title,
		Text:      article.Text,
		UserID:    article.UserID,
		CreatedAt: article.CreatedAt,
	}
}

func newArticleResponses(articles []domain.Article) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(articles))
	for _, article := range articles {
		out = append(out, newArticleResponse(article))
	}
	return out
}

// ProjectRequest defines the payload for creating or updating a project.
type ProjectRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget"`
}

// ProjectResponse is the API view of a project proposal.
type ProjectResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Budget      float64   `json:"budget"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func newProjectResponse(project domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Budget:      project.Budget,
		UserID:      project.UserID,
		CreatedAt:   project.CreatedAt,
	}
}

func newProjectResponses(projects []domain.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for _, project := range projects {
		out = append(out, newProjectResponse(project))
	}
	return out
}

// DocumentRequest defines the payload for attaching a document to a project.
type DocumentRequest struct {
	URL       string `json:"url" binding:"required"`
	ProjectID string `json:"project_id" binding:"required"`
}

// DocumentResponse is the API view of a project document.
type DocumentResponse struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	ProjectID string    `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}

func newDocumentResponse(document domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:        document.ID,
		URL:       document.URL,
		ProjectID: document.ProjectID,
		CreatedAt: document.CreatedAt,
	}
}

func newDocumentResponses(documents []domain.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(documents))
	for _, document := range documents {
		out = append(out, newDocumentResponse(document))
	}
	return out
}

// EventRequest defines the payload for creating or updating an event.
type EventRequest struct {
	Title         string     `json:"title" binding:"required"`
	Description   string     `json:"description"`
	StartDatetime time.Time  `json:"start_datetime" binding:"required"`
	EndDatetime   *time.Time `json:"end_datetime"`
	Location      string     `json:"location"`
	Price         float64    `json:"price"`
}

// EventResponse is the API view of an event.
type EventResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	StartDatetime time.Time  `json:"start_datetime"`
	EndDatetime   *time.Time `json:"end_datetime,omitempty"`
	Location      string     `json:"location"`
	Price         float64    `json:"price"`
	UserID        string     `json:"user_id"`
	CreatedAt     time.Time  `json:"created_at"`
}

func newEventResponse(event domain.Event) EventResponse {
	return EventResponse{
		ID:            event.ID,
		Title:         event.Title,
		Description:   event.Description,
		StartDatetime: event.StartDatetime,
		EndDatetime:   event.EndDatetime,
		Location:      event.Location,
		Price:         event.Price,
		UserID:        event.UserID,
		CreatedAt:     event.CreatedAt,
	}
}

func newEventResponses(events []domain.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, newEventResponse(event))
	}
	return out
}

// ImageRequest defines the payload for registering or updating an event picture.
type ImageRequest struct {
	FilePath string  `json:"file_path" binding:"required"`
	Position int     `json:"position"`
	AltText  *string `json:"alt_text"`
	EventID  string  `json:"event_id" binding:"required"`
}

// ImageUpdateRequest updates mutable image fields; the file itself is immutable.
type ImageUpdateRequest struct {
	Position int     `json:"position"`
	AltText  *string `json:"alt_text"`
}

// ImageResponse is the API view of an event picture.
type ImageResponse struct {
	ID        string    `json:"id"`
	FilePath  string    `json:"file_path"`
	Position  int       `json:"position"`
	AltText   *string   `json:"alt_text,omitempty"`
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

func newImageResponse(image domain.Image) ImageResponse {
	return ImageResponse{
		ID:        image.ID,
		FilePath:  image.FilePath,
		Position:  image.Position,
		AltText:   image.AltText,
		EventID:   image.EventID,
		CreatedAt: image.CreatedAt,
	}
}

func newImageResponses(images []domain.Image) []ImageResponse {
	out := make([]ImageResponse, 0, len(images))
	for _, image := range images {
		out = append(out, newImageResponse(image))
	}
	return out
}

// CotisationRequest defines the admin payload for a membership fee record.
type CotisationRequest struct {
	Type   string  `json:"type" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
	UserID string  `json:"user_id" binding:"required"`
}

// CotisationResponse is the API view of a membership fee record.
type CotisationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func newCotisationResponse(cotisation domain.Cotisation) CotisationResponse {
	return CotisationResponse{
		ID:        cotisation.ID,
		Type:      cotisation.Type,
		Amount:    cotisation.Amount,
		UserID:    cotisation.UserID,
		CreatedAt: cotisation.CreatedAt,
	}
}

func newCotisationResponses(cotisations []domain.Cotisation) []CotisationResponse {
	out := make([]CotisationResponse, 0, len(cotisations))
	for _, cotisation := range cotisations {
		out = append(out, newCotisationResponse(cotisation))
	}
	return out
}

// MembershipStatusResponse reports whether a member's dues are settled.
type MembershipStatusResponse struct {
	UserID string `json:"user_id"`
	Active bool   `json:"active"`
}

// CreateIntentRequest opens a one-off payment with the processor.
type CreateIntentRequest struct {
	Amount       float64 `json:"amount" binding:"required"`
	Currency     string  `json:"currency" binding:"required"`
	Email        string  `json:"email" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	PaymentType  string  `json:"payment_type" binding:"required"`
	CotisationID string  `json:"cotisation_id"`
}

// ClientSecretResponse returns the processor client secret the frontend
// needs to confirm the payment.
type ClientSecretResponse struct {
	ClientSecret string `json:"client_secret"`
}

// SubscriptionRequest starts a monthly donation.
type SubscriptionRequest struct {
	Amount   float64 `json:"amount" binding:"required"`
	Currency string  `json:"currency" binding:"required"`
	Email    string  `json:"email" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Address  string  `json:"address"`
}

// SubscriptionResponse returns the setup artifacts for a monthly donation.
type SubscriptionResponse struct {
	CustomerID   string `json:"customer_id"`
	PriceID      string `json:"price_id"`
	ClientSecret string `json:"client_secret"`
}

// PaymentResponse is the API view of a recorded payment.
type PaymentResponse struct {
	ID             string    `json:"id"`
	StripeID       string    `json:"stripe_id"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	Kind           string    `json:"payment_type"`
	PaymentMethod  string    `json:"payment_method"`
	PayerEmail     string    `json:"payer_email"`
	PayerName      string    `json:"payer_name"`
	UserID         *string   `json:"user_id,omitempty"`
	CotisationID   *string   `json:"cotisation_id,omitempty"`
	SubscriptionID *string   `json:"subscription_id,omitempty"`
	HasReceipt     bool      `json:"has_receipt"`
	CreatedAt      time.Time `json:"created_at"`
}

func newPaymentResponse(payment domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             payment.ID,
		StripeID:       payment.StripeID,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		Status:         string(payment.Status),
		Kind:           string(payment.Kind),
		PaymentMethod:  payment.PaymentMethod,
		PayerEmail:     payment.PayerEmail,
		PayerName:      payment.PayerName,
		UserID:         payment.UserID,
		CotisationID:   payment.CotisationID,
		SubscriptionID: payment.SubscriptionID,
		HasReceipt:     payment.ReceiptPath != nil,
		CreatedAt:      payment.CreatedAt,
	}
}

func newPaymentResponses(payments []domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		out = append(out, newPaymentResponse(payment))
	}
	return out
}

// AdminDashboardResponse aggregates the counters shown on the admin home page.
type AdminDashboardResponse struct {
	Members        int               `json:"members"`
	Articles       int               `json:"articles"`
	Projects       int               `json:"projects"`
	Events         int               `json:"events"`
	UpcomingEvents int               `json:"upcoming_events"`
	DonationTotal  float64           `json:"donation_total"`
	RecentArticles []ArticleResponse `json:"recent_articles"`
	RecentProjects []ProjectResponse `json:"recent_projects"`
	RecentEvents   []EventResponse   `json:"recent_events"`
}

// MemberDashboardResponse aggregates the member home page data.
type MemberDashboardResponse struct {
	PaymentCount     int               `json:"payment_count"`
	MembershipActive bool              `json:"membership_active"`
	RecentPayments   []PaymentResponse `json:"recent_payments"`
}

// HealthResponse reports the liveness status of the service.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports the readiness of each backing dependency.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
