package usecase

import "errors"

// ErrorCode is the stable machine-readable code attached to API error
// responses. The set is closed; handlers map every service error to
// exactly one of these.
type ErrorCode string

const (
	CodeValidationError     ErrorCode = "validation_error"
	CodeAuthenticationError ErrorCode = "authentication_error"
	CodeAuthorizationError  ErrorCode = "authorization_error"
	CodeNotFound            ErrorCode = "not_found"
	CodeConflict            ErrorCode = "conflict"
	CodeTokenExpired        ErrorCode = "token_expired"
	CodeRateLimited         ErrorCode = "rate_limited"
	CodeExternalService     ErrorCode = "external_service_error"
	CodeIntegrityError      ErrorCode = "integrity_error"
	CodeInternalError       ErrorCode = "internal_error"
)

var (
	// ErrValidation indicates the input failed a business validation rule.
	ErrValidation = errors.New("invalid input")
	// ErrInvalidCredentials indicates the provided email or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInactiveAccount indicates the account has not been approved or was deactivated.
	ErrInactiveAccount = errors.New("account is not active")
	// ErrInvalidOTP indicates the submitted one-time code does not match.
	ErrInvalidOTP = errors.New("invalid one-time code")
	// ErrCodeExpired indicates the one-time code is past its validity window.
	ErrCodeExpired = errors.New("code expired")
	// ErrTooManyAttempts indicates the caller exhausted the attempt budget.
	ErrTooManyAttempts = errors.New("too many attempts")
	// ErrRateLimited indicates the sliding window limit was hit.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrInvalidRefreshToken indicates the refresh token is malformed, revoked, or reused.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrExpiredRefreshToken indicates the refresh token has expired.
	ErrExpiredRefreshToken = errors.New("refresh token expired")
	// ErrForbidden indicates the caller lacks the right to perform the operation.
	ErrForbidden = errors.New("operation not allowed")
	// ErrEmailTaken indicates an account with the email already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrLastAdmin indicates the operation would leave the association without an administrator.
	ErrLastAdmin = errors.New("at least one administrator must remain")
	// ErrSelfDelete indicates an administrator tried to delete their own account.
	ErrSelfDelete = errors.New("cannot delete own account")
	// ErrTwoFactorAlreadyEnabled indicates 2FA setup was requested while already active.
	ErrTwoFactorAlreadyEnabled = errors.New("two-factor authentication already enabled")
	// ErrTwoFactorNotEnabled indicates a 2FA operation on an account without 2FA.
	ErrTwoFactorNotEnabled = errors.New("two-factor authentication not enabled")
	// ErrUnsupportedCurrency indicates a currency outside the accepted set.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	// ErrInvalidAmount indicates a non-positive or malformed amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrPaymentProvider wraps failures talking to the payment processor.
	ErrPaymentProvider = errors.New("payment provider error")
	// ErrWebhookSignature indicates the webhook payload failed signature verification.
	ErrWebhookSignature = errors.New("invalid webhook signature")
)
