package comment

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lensfeed/core/internal/modules/moderation"
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
	r.POST("/posts/:id/comments", h.create)
	r.GET("/posts/:id/comments", h.listVisible)
	r.GET("/posts/:id/hidden", h.listHidden)
	r.POST("/comments/:id/approve", h.approve)
	r.POST("/comments/:id/hide", h.hide)
	r.POST("/comments/:id/like", h.like)
	r.DELETE("/comments/:id", h.remove)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	cm, decision, err := h.service.Create(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Created(c, createResponse{
		Comment: toResponse(cm),
		Moderation: moderationResponse{
			Action:          decision.Action,
			SpamProbability: decision.Probability,
			Threshold:       decision.Threshold,
		},
	})
}

func (h *Handler) listVisible(c *gin.Context) {
	comments, err := h.service.ListVisible(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, toResponses(comments))
}

func (h *Handler) listHidden(c *gin.Context) {
	comments, err := h.service.ListHidden(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, toResponses(comments))
}

func (h *Handler) approve(c *gin.Context) {
	cm, err := h.service.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, toResponse(cm))
}

func (h *Handler) hide(c *gin.Context) {
	cm, err := h.service.Hide(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, toResponse(cm))
}

func (h *Handler) like(c *gin.Context) {
	cm, err := h.service.Like(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, toResponse(cm))
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errEmptyText):
		response.BadRequest(c, err.Error())
	case errors.Is(err, errPostNotFound), errors.Is(err, errCommentNotFound):
		response.NotFoundMsg(c, err.Error())
	case errors.Is(err, moderation.ErrModelUnavailable):
		response.ServiceUnavailable(c, "moderation model unavailable")
	default:
		h.logger.Error("comment request failed", zap.Error(err))
		response.InternalError(c, err)
	}
}
