package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/transport/http/middleware"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/usecase"
)

// CotisationHandler exposes membership fee records and the derived
// membership status.
type CotisationHandler struct {
	cotisations *usecase.CotisationService
}

// NewCotisationHandler constructs CotisationHandler.
func NewCotisationHandler(cotisations *usecase.CotisationService) *CotisationHandler {
	return &CotisationHandler{cotisations: cotisations}
}

// RegisterRoutes binds the cotisation routes. The group must already require
// auth; the service restricts writes to administrators.
func (h *CotisationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.GET("/:id", h.get)
	r.POST("", h.create)
	r.PUT("/:id", h.update)
	r.DELETE("/:id", h.remove)
	r.GET("/status/:userId", h.status)
}

func (h *CotisationHandler) list(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	cotisations, err := h.cotisations.List(c.Request.Context(), actor)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCotisationResponses(cotisations))
}

func (h *CotisationHandler) get(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	cotisation, err := h.cotisations.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCotisationResponse(*cotisation))
}

func (h *CotisationHandler) create(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req CotisationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid cotisation payload")
		return
	}

	cotisation, err := h.cotisations.Create(c.Request.Context(), actor, usecase.CotisationInput{
		Type:   req.Type,
		Amount: req.Amount,
		UserID: req.UserID,
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newCotisationResponse(*cotisation))
}

func (h *CotisationHandler) update(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req CotisationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid cotisation payload")
		return
	}

	cotisation, err := h.cotisations.Update(c.Request.Context(), actor, c.Param("id"), usecase.CotisationInput{
		Type:   req.Type,
		Amount: req.Amount,
		UserID: req.UserID,
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCotisationResponse(*cotisation))
}

func (h *CotisationHandler) remove(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	if err := h.cotisations.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CotisationHandler) status(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	status, err := h.cotisations.Status(c.Request.Context(), actor, c.Param("userId"))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MembershipStatusResponse{
		UserID: status.UserID,
		Active: status.Active,
	})
}
