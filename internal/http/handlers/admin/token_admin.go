package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	handlershared "github.com/luckyscan/internal/http/handlers/shared"
	"github.com/luckyscan/internal/http/response"
	"github.com/luckyscan/internal/repository"
	"github.com/luckyscan/internal/service"

	"github.com/gin-gonic/gin"
)

// GenerateTokensRequest 批量生成券码请求
type GenerateTokensRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Prefix   string `json:"prefix"`
}

func respondTokenError(c *gin.Context, err error, fallbackKey string) {
	switch {
	case errors.Is(err, service.ErrPromotionNotFound):
		respondError(c, response.CodeNotFound, "error.promotion_not_found", nil)
	case errors.Is(err, service.ErrTokenBatchInvalid):
		respondError(c, response.CodeBadRequest, "error.token_batch_invalid", nil)
	case errors.Is(err, service.ErrTokenBatchNotFound):
		respondError(c, response.CodeNotFound, "error.token_batch_not_found", nil)
	case errors.Is(err, service.ErrExportFormat):
		respondError(c, response.CodeBadRequest, "error.export_format_invalid", nil)
	default:
		respondError(c, response.CodeInternal, fallbackKey, err)
	}
}

// GenerateTokens 为活动生成一批券码
func (h *Handler) GenerateTokens(c *gin.Context) {
	promotionID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	var req GenerateTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.TokenService.GenerateTokens(service.GenerateTokensInput{
		PromotionID: promotionID,
		Quantity:    req.Quantity,
		Prefix:      req.Prefix,
		CreatedBy:   &staffID,
	})
	if err != nil {
		respondTokenError(c, err, "error.save_failed")
		return
	}
	response.Success(c, result)
}

// ListTokens 券码列表
func (h *Handler) ListTokens(c *gin.Context) {
	promotionID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	page, pageSize := parsePageQuery(c)
	tokens, total, err := h.TokenService.ListTokens(repository.TokenListFilter{
		Page:        page,
		PageSize:    pageSize,
		PromotionID: promotionID,
		BatchID:     handlershared.ParseUintQuery(c, "batch_id"),
		Status:      strings.TrimSpace(c.Query("status")),
		Code:        strings.TrimSpace(c.Query("code")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, tokens, response.BuildPagination(page, pageSize, total))
}

// ListTokenBatches 券码批次列表
func (h *Handler) ListTokenBatches(c *gin.Context) {
	promotionID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	batches, err := h.TokenService.ListBatches(promotionID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, batches)
}

// ExportTokens 导出券码与参与链接
func (h *Handler) ExportTokens(c *gin.Context) {
	promotionID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	export, err := h.TokenService.ExportTokens(promotionID, handlershared.ParseUintQuery(c, "batch_id"), c.Query("format"))
	if err != nil {
		respondTokenError(c, err, "error.internal")
		return
	}
	requestLog(c).Infow("admin_tokens_exported", "promotion_id", promotionID, "count", export.Count)
	c.Header("Content-Type", export.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", export.Filename))
	c.Data(http.StatusOK, export.ContentType, export.Body)
}
