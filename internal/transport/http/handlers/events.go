package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/transport/http/middleware"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/usecase"
)

// EventHandler exposes the event endpoints. Reads are public so the site
// can show the calendar to visitors.
type EventHandler struct {
	events *usecase.EventService
	images *usecase.ImageService
}

// NewEventHandler constructs EventHandler.
func NewEventHandler(events *usecase.EventService, images *usecase.ImageService) *EventHandler {
	return &EventHandler{events: events, images: images}
}

// RegisterPublicRoutes binds the read-only event routes.
func (h *EventHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.GET("/:id", h.get)
	r.GET("/:id/images", h.listImages)
}

// RegisterRoutes binds the write routes. The group must already require auth.
func (h *EventHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.create)
	r.PUT("/:id", h.update)
	r.DELETE("/:id", h.remove)
}

func (h *EventHandler) list(c *gin.Context) {
	events, err := h.events.List(c.Request.Context())
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newEventResponses(events))
}

func (h *EventHandler) get(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newEventResponse(*event))
}

func (h *EventHandler) listImages(c *gin.Context) {
	images, err := h.images.ListByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newImageResponses(images))
}

func (h *EventHandler) create(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid event payload")
		return
	}

	event, err := h.events.Create(c.Request.Context(), actor, eventInput(req))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newEventResponse(*event))
}

func (h *EventHandler) update(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid event payload")
		return
	}

	event, err := h.events.Update(c.Request.Context(), actor, c.Param("id"), eventInput(req))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newEventResponse(*event))
}

func (h *EventHandler) remove(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	if err := h.events.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func eventInput(req EventRequest) usecase.EventInput {
	return usecase.EventInput{
		Title:         req.Title,
		Description:   req.Description,
		StartDatetime: req.StartDatetime,
		EndDatetime:   req.EndDatetime,
		Location:      req.Location,
		Price:         req.Price,
	}
}
