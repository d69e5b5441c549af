package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/transport/http/middleware"
	"github.com/Gachet-A/IYFFA-Website-Back/internal/usecase"
)

// ArticleHandler exposes the news article endpoints. Reads are public,
// writes require a member account.
type ArticleHandler struct {
	articles *usecase.ArticleService
}

// NewArticleHandler constructs ArticleHandler.
func NewArticleHandler(articles *usecase.ArticleService) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

// RegisterPublicRoutes binds the read-only article routes.
func (h *ArticleHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.GET("/:id", h.get)
}

// RegisterRoutes binds the write routes. The group must already require auth.
func (h *ArticleHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.create)
	r.PUT("/:id", h.update)
	r.DELETE("/:id", h.remove)
}

func (h *ArticleHandler) list(c *gin.Context) {
	articles, err := h.articles.List(c.Request.Context())
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newArticleResponses(articles))
}

func (h *ArticleHandler) get(c *gin.Context) {
	article, err := h.articles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newArticleResponse(*article))
}

func (h *ArticleHandler) create(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid article payload")
		return
	}

	article, err := h.articles.Create(c.Request.Context(), actor, usecase.ArticleInput{
		Title: req.Title,
		Text:  req.Text,
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newArticleResponse(*article))
}

func (h *ArticleHandler) update(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid article payload")
		return
	}

	article, err := h.articles.Update(c.Request.Context(), actor, c.Param("id"), usecase.ArticleInput{
		Title: req.Title,
		Text:  req.Text,
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newArticleResponse(*article))
}

func (h *ArticleHandler) remove(c *gin.Context) {
	actor, ok := middleware.CurrentAccount(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	if err := h.articles.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
