package settings

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/lensfeed/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/settings")
	g.GET("", h.get)
	g.PUT("/threshold", h.updateThreshold)
}

type thresholdDTO struct {
	Threshold *float64 `json:"threshold" binding:"required"`
}

func (h *Handler) get(c *gin.Context) {
	threshold, err := h.svc.Threshold()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"threshold": threshold})
}

func (h *Handler) updateThreshold(c *gin.Context) {
	var dto thresholdDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.SetThreshold(*dto.Threshold); err != nil {
		if errors.Is(err, ErrInvalidThreshold) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	threshold, err := h.svc.Threshold()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"threshold": threshold})
}
