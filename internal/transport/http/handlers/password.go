package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/usecase"
)

// PasswordHandler exposes the password reset and first-time setup flows.
type PasswordHandler struct {
	passwords *usecase.PasswordService
}

// NewPasswordHandler constructs PasswordHandler.
func NewPasswordHandler(passwords *usecase.PasswordService) *PasswordHandler {
	return &PasswordHandler{passwords: passwords}
}

// RegisterRoutes binds the password routes. All of them are public: the
// mailed one-time code is the proof of account ownership.
func (h *PasswordHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/reset/request", h.requestReset)
	r.POST("/reset/confirm", h.confirmReset)
	r.POST("/setup", h.setup)
}

func (h *PasswordHandler) requestReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid reset payload")
		return
	}

	if err := h.passwords.RequestReset(c.Request.Context(), req.Email); err != nil {
		RespondWithError(c, err)
		return
	}

	// The response is identical whether or not the email is known.
	c.JSON(http.StatusOK, MessageResponse{Message: "if the address is registered, a reset code has been sent"})
}

func (h *PasswordHandler) confirmReset(c *gin.Context) {
	var req PasswordConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid reset payload")
		return
	}

	if err := h.passwords.Reset(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}

func (h *PasswordHandler) setup(c *gin.Context) {
	var req PasswordConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid setup payload")
		return
	}

	if err := h.passwords.Setup(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password set"})
}
