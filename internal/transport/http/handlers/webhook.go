package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/usecase"
)

// WebhookHandler receives payment processor event deliveries.
type WebhookHandler struct {
	payments *usecase.PaymentService
	log      *zap.Logger
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(payments *usecase.PaymentService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{payments: payments, log: log}
}

// HandleStripe verifies and processes a webhook delivery. The raw body is
// required for signature verification, so the payload is read before any
// JSON binding.
func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		respondBadRequest(c, "unreadable payload")
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		respondBadRequest(c, "missing signature header")
		return
	}

	if err := h.payments.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		h.log.Warn("webhook processing failed", zap.Error(err))
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "received"})
}
