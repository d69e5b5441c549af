package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/infra/security"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/repository"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/usecase"
)

type errorCase struct {
	err     error
	status  int
	code    usecase.ErrorCode
	message string
}

// errorCases maps every service sentinel to exactly one HTTP status and
// machine-readable code. Order matters only for wrapped chains where one
// sentinel wraps another; none of these do.
var errorCases = []errorCase{
	{usecase.ErrValidation, http.StatusBadRequest, usecase.CodeValidationError, "invalid input"},
	{usecase.ErrInvalidAmount, http.StatusBadRequest, usecase.CodeValidationError, "invalid amount"},
	{usecase.ErrUnsupportedCurrency, http.StatusBadRequest, usecase.CodeValidationError, "unsupported currency"},
	{usecase.ErrWebhookSignature, http.StatusBadRequest, usecase.CodeValidationError, "invalid webhook signature"},
	{usecase.ErrInvalidCredentials, http.StatusUnauthorized, usecase.CodeAuthenticationError, "invalid credentials"},
	{usecase.ErrInactiveAccount, http.StatusUnauthorized, usecase.CodeAuthenticationError, "account is not active"},
	{usecase.ErrInvalidOTP, http.StatusUnauthorized, usecase.CodeAuthenticationError, "invalid one-time code"},
	{usecase.ErrInvalidRefreshToken, http.StatusUnauthorized, usecase.CodeAuthenticationError, "invalid refresh token"},
	{usecase.ErrCodeExpired, http.StatusUnauthorized, usecase.CodeTokenExpired, "code expired"},
	{usecase.ErrExpiredRefreshToken, http.StatusUnauthorized, usecase.CodeTokenExpired, "refresh token expired"},
	{usecase.ErrForbidden, http.StatusForbidden, usecase.CodeAuthorizationError, "operation not allowed"},
	{repository.ErrNotFound, http.StatusNotFound, usecase.CodeNotFound, "resource not found"},
	{usecase.ErrEmailTaken, http.StatusConflict, usecase.CodeConflict, "email already registered"},
	{usecase.ErrLastAdmin, http.StatusConflict, usecase.CodeConflict, "at least one administrator must remain"},
	{usecase.ErrSelfDelete, http.StatusConflict, usecase.CodeConflict, "cannot delete own account"},
	{usecase.ErrTwoFactorAlreadyEnabled, http.StatusConflict, usecase.CodeConflict, "two-factor authentication already enabled"},
	{usecase.ErrTwoFactorNotEnabled, http.StatusConflict, usecase.CodeConflict, "two-factor authentication not enabled"},
	{usecase.ErrRateLimited, http.StatusTooManyRequests, usecase.CodeRateLimited, "too many requests, try again later"},
	{usecase.ErrTooManyAttempts, http.StatusTooManyRequests, usecase.CodeRateLimited, "too many attempts"},
	{usecase.ErrPaymentProvider, http.StatusBadGateway, usecase.CodeExternalService, "payment provider unavailable"},
}

// RespondWithError resolves a service error to its HTTP representation,
// falling back to a generic 500 for anything unmapped.
func RespondWithError(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	var policyErr *security.PasswordValidationError
	if errors.As(err, &policyErr) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, policyErr.Message, usecase.CodeValidationError))
		return
	}

	for _, cs := range errorCases {
		if errors.Is(err, cs.err) {
			c.JSON(cs.status, NewErrorResponse(c, cs.message, cs.code))
			return
		}
	}

	c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "internal server error", usecase.CodeInternalError))
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, NewErrorResponse(c, message, usecase.CodeValidationError))
}

func respondUnauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required", usecase.CodeAuthenticationError))
}
