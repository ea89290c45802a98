package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/memoria-app/memoria-backend/internal/http/response"
	"github.com/memoria-app/memoria-backend/internal/service"
)

// StatsHandler serves the admin dashboard numbers.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler creates the handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// GetPlatformStats handles GET /api/admin/stats.
func (h *StatsHandler) GetPlatformStats(c *gin.Context) {
	_, role, err := identity(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	stats, err := h.stats.GetPlatformStats(c.Request.Context(), role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, stats)
}
