package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/usecase"
)

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

func newErrorResponse(c *gin.Context, errorMsg string, code usecase.ErrorCode) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		Code:    string(code),
		TraceID: GetTraceID(c),
	}
}

// RequireAuth validates the Authorization header and loads the account.
func RequireAuth(authService *usecase.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing authorization header", usecase.CodeAuthenticationError))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid authorization format: expected 'Bearer <token>'", usecase.CodeAuthenticationError))
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing access token", usecase.CodeAuthenticationError))
			return
		}

		account, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, usecase.ErrInactiveAccount):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "account is not active", usecase.CodeAuthenticationError))
			case errors.Is(err, usecase.ErrInvalidCredentials):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "invalid access token", usecase.CodeAuthenticationError))
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					newErrorResponse(c, "authentication failed", usecase.CodeInternalError))
			}
			return
		}

		c.Set(AccountKey, *account)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.UserID = account.ID
		}

		c.Next()
	}
}

// OptionalAuth loads the account when a valid bearer token is present and
// lets the request through anonymously otherwise. Used on endpoints that
// serve both visitors and members, such as donation checkout.
func OptionalAuth(authService *usecase.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}

		account, err := authService.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			c.Next()
			return
		}

		c.Set(AccountKey, *account)
		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.UserID = account.ID
		}

		c.Next()
	}
}

// RequireAdmin rejects requests whose account is not an administrator.
// It must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := CurrentAccount(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required", usecase.CodeAuthenticationError))
			return
		}

		if !account.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "administrator role required", usecase.CodeAuthorizationError))
			return
		}

		c.Next()
	}
}

// CurrentAccount retrieves the authenticated account from the context.
func CurrentAccount(c *gin.Context) (domain.Account, bool) {
	val, exists := c.Get(AccountKey)
	if !exists {
		return domain.Account{}, false
	}

	account, ok := val.(domain.Account)
	return account, ok
}
