package post

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lensfeed/core/internal/models"
	"github.com/lensfeed/core/internal/pkg/pagination"
	"github.com/lensfeed/core/internal/pkg/response"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/posts", h.create)
	r.GET("/posts", h.list)
	r.GET("/posts/:id", h.get)
	r.DELETE("/posts/:id", h.remove)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	p, err := h.service.Create(c.Request.Context(), &dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, toResponse(p, 0, 0))
}

func (h *Handler) list(c *gin.Context) {
	posts, page, err := h.service.List(c.Request.Context(), pagination.FromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	items := make([]postResponse, 0, len(posts))
	for i := range posts {
		items = append(items, h.withCounts(c, &posts[i]))
	}
	response.Paged(c, items, page)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, h.withCounts(c, p))
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) withCounts(c *gin.Context, p *models.PostModel) postResponse {
	visible, hidden, err := h.service.CountsFor(c.Request.Context(), p.ID)
	if err != nil {
		h.logger.Warn("comment counts unavailable", zap.String("post_id", p.ID), zap.Error(err))
	}
	return toResponse(p, visible, hidden)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errEmptyCaption):
		response.BadRequest(c, err.Error())
	case errors.Is(err, errPostNotFound):
		response.NotFoundMsg(c, err.Error())
	default:
		h.logger.Error("post request failed", zap.Error(err))
		response.InternalError(c, err)
	}
}
