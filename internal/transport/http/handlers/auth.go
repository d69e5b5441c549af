package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/usecase"
)

// AuthHandler exposes login, one-time code verification, and token lifecycle endpoints.
type AuthHandler struct {
	auth *usecase.AuthService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes binds the authentication routes.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.login)
	r.POST("/verify-otp", h.verifyOTP)
	r.POST("/refresh", h.refresh)
	r.POST("/logout", h.logout)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid login payload")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newLoginResponse(result))
}

func (h *AuthHandler) verifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid verification payload")
		return
	}

	result, err := h.auth.VerifyOTP(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newLoginResponse(result))
}

func (h *AuthHandler) refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid refresh payload")
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTokenPairResponse(pair))
}

func (h *AuthHandler) logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid logout payload")
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func newLoginResponse(result *usecase.LoginResult) LoginResponse {
	resp := LoginResponse{OTPRequired: result.OTPRequired}
	if result.Account != nil {
		summary := newAccountSummary(*result.Account)
		resp.Account = &summary
	}
	resp.Tokens = newTokenPairResponse(result.Tokens)
	return resp
}
