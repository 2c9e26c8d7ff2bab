package admin

import (
	"errors"
	"strings"
	"time"

	handlershared "github.com/luckyscan/internal/http/handlers/shared"
	"github.com/luckyscan/internal/http/response"
	"github.com/luckyscan/internal/models"
	"github.com/luckyscan/internal/repository"
	"github.com/luckyscan/internal/service"

	"github.com/gin-gonic/gin"
)

// PromotionRequest 创建/更新活动请求
type PromotionRequest struct {
	Name          string       `json:"name" binding:"required"`
	Description   string       `json:"description"`
	StartAt       string       `json:"start_at" binding:"required"`
	EndAt         string       `json:"end_at" binding:"required"`
	PlannedTokens int64        `json:"planned_tokens"`
	Status        string       `json:"status"`
	UnitPrice     models.Money `json:"unit_price"`
	UnitCost      models.Money `json:"unit_cost"`
}

func (r PromotionRequest) toInput() (service.PromotionInput, error) {
	startAt, err := time.Parse(time.RFC3339, strings.TrimSpace(r.StartAt))
	if err != nil {
		return service.PromotionInput{}, err
	}
	endAt, err := time.Parse(time.RFC3339, strings.TrimSpace(r.EndAt))
	if err != nil {
		return service.PromotionInput{}, err
	}
	return service.PromotionInput{
		Name:          r.Name,
		Description:   r.Description,
		StartAt:       startAt,
		EndAt:         endAt,
		PlannedTokens: r.PlannedTokens,
		Status:        r.Status,
		UnitPrice:     r.UnitPrice,
		UnitCost:      r.UnitCost,
	}, nil
}

func respondPromotionError(c *gin.Context, err error, fallbackKey string) {
	switch {
	case errors.Is(err, service.ErrPromotionNotFound):
		respondError(c, response.CodeNotFound, "error.promotion_not_found", nil)
	case errors.Is(err, service.ErrPromotionInvalid):
		respondError(c, response.CodeBadRequest, "error.promotion_invalid", nil)
	default:
		respondError(c, response.CodeInternal, fallbackKey, err)
	}
}

// ListPromotions 活动列表
func (h *Handler) ListPromotions(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	promotions, total, err := h.PromotionAdminService.ListPromotions(repository.PromotionListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, promotions, response.BuildPagination(page, pageSize, total))
}

// GetPromotion 活动详情
func (h *Handler) GetPromotion(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	promotion, err := h.PromotionAdminService.GetPromotion(id)
	if err != nil {
		respondPromotionError(c, err, "error.internal")
		return
	}
	response.Success(c, promotion)
}

// CreatePromotion 创建活动
func (h *Handler) CreatePromotion(c *gin.Context) {
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.promotion_invalid", err)
		return
	}
	promotion, err := h.PromotionAdminService.CreatePromotion(input)
	if err != nil {
		respondPromotionError(c, err, "error.save_failed")
		return
	}
	response.Success(c, promotion)
}

// UpdatePromotion 更新活动
func (h *Handler) UpdatePromotion(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.promotion_invalid", err)
		return
	}
	promotion, err := h.PromotionAdminService.UpdatePromotion(id, input)
	if err != nil {
		respondPromotionError(c, err, "error.save_failed")
		return
	}
	response.Success(c, promotion)
}

// DeletePromotion 删除活动
func (h *Handler) DeletePromotion(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.PromotionAdminService.DeletePromotion(id); err != nil {
		respondPromotionError(c, err, "error.delete_failed")
		return
	}
	response.Success(c, nil)
}

// ResetPromotion 清空活动数据并恢复奖品库存
func (h *Handler) ResetPromotion(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.PromotionAdminService.ResetPromotion(c.Request.Context(), id); err != nil {
		respondPromotionError(c, err, "error.reset_failed")
		return
	}
	if staffID, exists := c.Get("staff_id"); exists {
		requestLog(c).Infow("admin_promotion_reset", "promotion_id", id, "staff_id", staffID)
	}
	response.Success(c, gin.H{"reset": true})
}

// PrizeTypeRequest 创建/更新奖品请求
type PrizeTypeRequest struct {
	Name              string   `json:"name" binding:"required"`
	Description       string   `json:"description"`
	InitialStock      int64    `json:"initial_stock"`
	TargetProbability *float64 `json:"target_probability"`
	Restriction       string   `json:"restriction"`
	SortOrder         int      `json:"sort_order"`
}

func (r PrizeTypeRequest) toInput() service.PrizeTypeInput {
	return service.PrizeTypeInput{
		Name:              r.Name,
		Description:       r.Description,
		InitialStock:      r.InitialStock,
		TargetProbability: r.TargetProbability,
		Restriction:       r.Restriction,
		SortOrder:         r.SortOrder,
	}
}

func respondPrizeTypeError(c *gin.Context, err error, fallbackKey string) {
	switch {
	case errors.Is(err, service.ErrPromotionNotFound):
		respondError(c, response.CodeNotFound, "error.promotion_not_found", nil)
	case errors.Is(err, service.ErrPrizeTypeNotFound):
		respondError(c, response.CodeNotFound, "error.prize_type_not_found", nil)
	case errors.Is(err, service.ErrPrizeTypeInvalid):
		respondError(c, response.CodeBadRequest, "error.prize_type_invalid", nil)
	default:
		respondError(c, response.CodeInternal, fallbackKey, err)
	}
}

// ListPrizeTypes 活动奖品列表
func (h *Handler) ListPrizeTypes(c *gin.Context) {
	promotionID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	prizes, err := h.PromotionAdminService.ListPrizeTypes(promotionID)
	if err != nil {
		respondPrizeTypeError(c, err, "error.internal")
		return
	}
	response.Success(c, prizes)
}

// CreatePrizeType 创建奖品
func (h *Handler) CreatePrizeType(c *gin.Context) {
	promotionID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req PrizeTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	prize, err := h.PromotionAdminService.CreatePrizeType(promotionID, req.toInput())
	if err != nil {
		respondPrizeTypeError(c, err, "error.save_failed")
		return
	}
	response.Success(c, prize)
}

// UpdatePrizeType 更新奖品（初始库存不可修改）
func (h *Handler) UpdatePrizeType(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "prize_id")
	if !ok {
		return
	}
	var req PrizeTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	prize, err := h.PromotionAdminService.UpdatePrizeType(id, req.toInput())
	if err != nil {
		respondPrizeTypeError(c, err, "error.save_failed")
		return
	}
	response.Success(c, prize)
}

// DeletePrizeType 删除奖品
func (h *Handler) DeletePrizeType(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "prize_id")
	if !ok {
		return
	}
	if err := h.PromotionAdminService.DeletePrizeType(id); err != nil {
		respondPrizeTypeError(c, err, "error.delete_failed")
		return
	}
	response.Success(c, nil)
}
