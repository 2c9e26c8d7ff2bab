package admin

import (
	"errors"
	"strconv"
	"strings"

	handlershared "github.com/luckyscan/internal/http/handlers/shared"
	"github.com/luckyscan/internal/http/response"
	"github.com/luckyscan/internal/service"

	"github.com/gin-gonic/gin"
)

// respondDashboardError 仪表盘错误统一出口
func respondDashboardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPromotionNotFound):
		respondError(c, response.CodeNotFound, "error.promotion_not_found", nil)
	case errors.Is(err, service.ErrDashboardRangeInvalid):
		respondError(c, response.CodeBadRequest, "error.dashboard_range_invalid", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}

// GetDashboardStats 获取活动统计总览
func (h *Handler) GetDashboardStats(c *gin.Context) {
	promotionID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	forceRefresh := false
	if raw := strings.TrimSpace(c.Query("refresh")); raw != "" {
		forceRefresh, _ = strconv.ParseBool(raw)
	}

	data, err := h.DashboardService.GetStats(c.Request.Context(), promotionID, forceRefresh)
	if err != nil {
		respondDashboardError(c, err)
		return
	}
	response.Success(c, data)
}

// GetDashboardRevenue 获取活动营收
func (h *Handler) GetDashboardRevenue(c *gin.Context) {
	promotionID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	data, err := h.DashboardService.GetRevenue(promotionID)
	if err != nil {
		respondDashboardError(c, err)
		return
	}
	response.Success(c, data)
}

// GetDashboardDaily 获取按日销量序列
func (h *Handler) GetDashboardDaily(c *gin.Context) {
	promotionID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	days := 0
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.dashboard_range_invalid", err)
			return
		}
		days = parsed
	}
	data, err := h.DashboardService.GetDailySeries(promotionID, days)
	if err != nil {
		respondDashboardError(c, err)
		return
	}
	response.Success(c, data)
}

// GetDashboardHourly 获取按小时参与分布
func (h *Handler) GetDashboardHourly(c *gin.Context) {
	promotionID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	data, err := h.DashboardService.GetHourlyDistribution(promotionID)
	if err != nil {
		respondDashboardError(c, err)
		return
	}
	response.Success(c, data)
}
