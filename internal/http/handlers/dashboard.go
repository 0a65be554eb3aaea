package handlers

import (
	"strconv"

	"github.com/nexify/nexify-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// DashboardOverview 仪表盘总览
func (h *Handler) DashboardOverview(c *gin.Context) {
	overview, err := h.DashboardService.GetOverview(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "load dashboard overview failed", err)
		return
	}
	response.Success(c, overview)
}

// DashboardTrends 仪表盘收入趋势
func (h *Handler) DashboardTrends(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	trends, err := h.DashboardService.GetTrends(c.Request.Context(), days)
	if err != nil {
		respondError(c, response.CodeInternal, "load dashboard trends failed", err)
		return
	}
	response.Success(c, trends)
}
