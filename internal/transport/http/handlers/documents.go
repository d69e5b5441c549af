package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/transport/http/middleware"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/usecase"
)

// DocumentHandler exposes the project document endpoints.
type DocumentHandler struct {
	documents *usecase.DocumentService
}

// NewDocumentHandler constructs DocumentHandler.
func NewDocumentHandler(documents *usecase.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// RegisterRoutes binds the document routes. The group must already require auth.
func (h *DocumentHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.GET("/:id", h.get)
	r.POST("", h.create)
	r.PUT("/:id", h.update)
	r.DELETE("/:id", h.remove)
}

func (h *DocumentHandler) list(c *gin.Context) {
	// Optional project filter.
	if projectID := c.Query("project_id"); projectID != "" {
		documents, err := h.documents.ListByProject(c.Request.Context(), projectID)
		if err != nil {
			RespondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, newDocumentResponses(documents))
		return
	}

	documents, err := h.documents.List(c.Request.Context())
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newDocumentResponses(documents))
}

func (h *DocumentHandler) get(c *gin.Context) {
	document, err := h.documents.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newDocumentResponse(*document))
}

func (h *DocumentHandler) create(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid document payload")
		return
	}

	document, err := h.documents.Create(c.Request.Context(), actor, usecase.DocumentInput{
		URL:       req.URL,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newDocumentResponse(*document))
}

func (h *DocumentHandler) update(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid document payload")
		return
	}

	document, err := h.documents.Update(c.Request.Context(), actor, c.Param("id"), usecase.DocumentInput{
		URL:       req.URL,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newDocumentResponse(*document))
}

func (h *DocumentHandler) remove(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	if err := h.documents.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
