package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/transport/http/middleware"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/usecase"
)

// ImageHandler exposes the event picture endpoints.
type ImageHandler struct {
	images *usecase.ImageService
}

// NewImageHandler constructs ImageHandler.
func NewImageHandler(images *usecase.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// RegisterRoutes binds the image routes. The group must already require auth.
func (h *ImageHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/:id", h.get)
	r.POST("", h.create)
	r.PUT("/:id", h.update)
	r.DELETE("/:id", h.remove)
}

func (h *ImageHandler) get(c *gin.Context) {
	image, err := h.images.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newImageResponse(*image))
}

func (h *ImageHandler) create(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid image payload")
		return
	}

	image, err := h.images.Create(c.Request.Context(), actor, usecase.ImageInput{
		FilePath: req.FilePath,
		Position: req.Position,
		AltText:  req.AltText,
		EventID:  req.EventID,
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newImageResponse(*image))
}

func (h *ImageHandler) update(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req ImageUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid image payload")
		return
	}

	image, err := h.images.Update(c.Request.Context(), actor, c.Param("id"), usecase.ImageInput{
		Position: req.Position,
		AltText:  req.AltText,
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newImageResponse(*image))
}

func (h *ImageHandler) remove(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	if err := h.images.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
