package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/domain"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/transport/http/middleware"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/usecase"
)

// PaymentHandler exposes checkout, subscription management, and payment
// records. Checkout endpoints accept anonymous donors; membership renewals
// require the caller to be authenticated, which the service enforces.
type PaymentHandler struct {
	payments *usecase.PaymentService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments *usecase.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// RegisterCheckoutRoutes binds the checkout routes. The group should carry
// optional auth so a logged-in member is recognised.
func (h *PaymentHandler) RegisterCheckoutRoutes(r *gin.RouterGroup) {
	r.POST("/create-intent", h.createIntent)
	r.POST("/subscriptions", h.createSubscription)
}

// RegisterRoutes binds the authenticated payment routes.
func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.GET("/me", h.listOwn)
	r.GET("/:id/receipt", h.receipt)
	r.DELETE("/subscriptions/:id", h.cancelSubscription)
}

func (h *PaymentHandler) createIntent(c *gin.Context) {
	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid payment payload")
		return
	}

	var actor *domain.Account
	if account, ok := middleware.CurrentAccount(c); ok {
		actor = &account
	}

	clientSecret, err := h.payments.CreatePaymentIntent(c.Request.Context(), actor, usecase.CreateIntentInput{
		Amount:       req.Amount,
		Currency:     req.Currency,
		Email:        req.Email,
		Name:         req.Name,
		Kind:         domain.PaymentKind(req.PaymentType),
		CotisationID: req.CotisationID,
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ClientSecretResponse{ClientSecret: clientSecret})
}

func (h *PaymentHandler) createSubscription(c *gin.Context) {
	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid subscription payload")
		return
	}

	var actor *domain.Account
	if account, ok := middleware.CurrentAccount(c); ok {
		actor = &account
	}

	setup, err := h.payments.CreateSubscription(c.Request.Context(), actor, usecase.SubscriptionInput{
		Amount:   req.Amount,
		Currency: req.Currency,
		Email:    req.Email,
		Name:     req.Name,
		Address:  req.Address,
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, SubscriptionResponse{
		CustomerID:   setup.CustomerID,
		PriceID:      setup.PriceID,
		ClientSecret: setup.ClientSecret,
	})
}

func (h *PaymentHandler) cancelSubscription(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	if err := h.payments.CancelSubscription(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "subscription will end at the current period"})
}

func (h *PaymentHandler) list(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	payments, err := h.payments.List(c.Request.Context(), actor)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPaymentResponses(payments))
}

func (h *PaymentHandler) listOwn(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	payments, err := h.payments.ListOwn(c.Request.Context(), actor)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPaymentResponses(payments))
}

func (h *PaymentHandler) receipt(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	path, err := h.payments.ReceiptPath(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}
