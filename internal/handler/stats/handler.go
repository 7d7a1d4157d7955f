// Package stats exposes GET /statistics.
package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centek/clinic-api/internal/handler"
	"github.com/centek/clinic-api/internal/service/stats"
)

type Handler struct {
	service *stats.Service
}

func NewHandler(service *stats.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/statistics", h.Statistics)
}

func (h *Handler) Statistics(c *gin.Context) {
	counts, err := h.service.Counts(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(counts))
}
