package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/transport/http/middleware"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/usecase"
)

// ProjectHandler exposes the project proposal endpoints.
type ProjectHandler struct {
	projects *usecase.ProjectService
}

// NewProjectHandler constructs ProjectHandler.
func NewProjectHandler(projects *usecase.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// RegisterPublicRoutes binds the read-only project routes.
func (h *ProjectHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.GET("/:id", h.get)
}

// RegisterRoutes binds the write routes. The group must already require auth.
func (h *ProjectHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.create)
	r.PUT("/:id", h.update)
	r.DELETE("/:id", h.remove)
}

func (h *ProjectHandler) list(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProjectResponses(projects))
}

func (h *ProjectHandler) get(c *gin.Context) {
	project, err := h.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProjectResponse(*project))
}

func (h *ProjectHandler) create(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid project payload")
		return
	}

	project, err := h.projects.Create(c.Request.Context(), actor, usecase.ProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newProjectResponse(*project))
}

func (h *ProjectHandler) update(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid project payload")
		return
	}

	project, err := h.projects.Update(c.Request.Context(), actor, c.Param("id"), usecase.ProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProjectResponse(*project))
}

func (h *ProjectHandler) remove(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	if err := h.projects.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
