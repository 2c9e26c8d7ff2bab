package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	handlershared "github.com/luckyscan/internal/http/handlers/shared"
	"github.com/luckyscan/internal/http/response"
	"github.com/luckyscan/internal/i18n"
	"github.com/luckyscan/internal/models"
	"github.com/luckyscan/internal/repository"
	"github.com/luckyscan/internal/service"

	"github.com/gin-gonic/gin"
)

// PrizeAssignmentView 兑奖码查询结果
type PrizeAssignmentView struct {
	PrizeCode    string     `json:"prize_code"`
	PromotionID  uint       `json:"promotion_id"`
	PrizeName    string     `json:"prize_name"`
	CustomerName string     `json:"customer_name"`
	CustomerTel  string     `json:"customer_phone"`
	WonAt        time.Time  `json:"won_at"`
	Redeemed     bool       `json:"redeemed"`
	RedeemedAt   *time.Time `json:"redeemed_at"`
	RedeemedBy   string     `json:"redeemed_by,omitempty"`
}

func toPrizeAssignmentView(assignment *models.PrizeAssignment) PrizeAssignmentView {
	view := PrizeAssignmentView{
		PrizeCode:   assignment.PrizeCode,
		PromotionID: assignment.PromotionID,
		WonAt:       assignment.CreatedAt,
		Redeemed:    assignment.IsRedeemed(),
		RedeemedAt:  assignment.RedeemedAt,
	}
	if assignment.PrizeType != nil {
		view.PrizeName = assignment.PrizeType.Name
	}
	if assignment.Customer != nil {
		view.CustomerName = strings.TrimSpace(assignment.Customer.FirstName + " " + assignment.Customer.LastName)
		view.CustomerTel = service.MaskPhone(assignment.Customer.Phone)
	}
	if assignment.Redeemer != nil {
		view.RedeemedBy = assignment.Redeemer.Username
	}
	return view
}

// RedeemPrizeRequest 核销请求
type RedeemPrizeRequest struct {
	PrizeCode string `json:"prize_code" binding:"required"`
}

// RedeemPrize 门店员工核销兑奖码
func (h *Handler) RedeemPrize(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	var req RedeemPrizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	assignment, err := h.PrizeRedeemService.RedeemPrize(c.Request.Context(), req.PrizeCode, staffID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPrizeCodeNotFound):
			respondError(c, response.CodeNotFound, "error.prize_not_found", nil)
		case errors.Is(err, service.ErrPrizeAlreadyClaimed):
			respondAlreadyRedeemed(c, assignment)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.T(locale, "redeem.success"), toPrizeAssignmentView(assignment))
}

// respondAlreadyRedeemed 重复核销时返回首次核销的员工与时间
func respondAlreadyRedeemed(c *gin.Context, assignment *models.PrizeAssignment) {
	if assignment == nil {
		respondError(c, response.CodeConflict, "error.prize_already_redeemed", nil)
		return
	}
	view := toPrizeAssignmentView(assignment)
	redeemedAt := ""
	if view.RedeemedAt != nil {
		redeemedAt = view.RedeemedAt.Format("2006-01-02 15:04")
	}
	msg := i18n.Sprintf(i18n.ResolveLocale(c), "redeem.already_redeemed_details", redeemedAt, view.RedeemedBy)
	response.Conflict(c, msg, gin.H{"assignment": view})
}

// LookupPrize 查询兑奖码详情
func (h *Handler) LookupPrize(c *gin.Context) {
	assignment, err := h.PrizeRedeemService.LookupPrize(c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrPrizeCodeNotFound) {
			respondError(c, response.CodeNotFound, "error.prize_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, toPrizeAssignmentView(assignment))
}

// ListAssignments 中奖凭证列表
func (h *Handler) ListAssignments(c *gin.Context) {
	promotionID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	page, pageSize := parsePageQuery(c)
	var redeemed *bool
	if raw := strings.TrimSpace(c.Query("redeemed")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		redeemed = &parsed
	}

	items, total, err := h.PrizeRedeemService.ListAssignments(repository.PrizeAssignmentListFilter{
		Page:        page,
		PageSize:    pageSize,
		PromotionID: promotionID,
		PrizeTypeID: handlershared.ParseUintQuery(c, "prize_type_id"),
		Code:        strings.TrimSpace(c.Query("code")),
		Redeemed:    redeemed,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	views := make([]PrizeAssignmentView, 0, len(items))
	for i := range items {
		views = append(views, toPrizeAssignmentView(&items[i]))
	}
	response.SuccessWithPage(c, views, response.BuildPagination(page, pageSize, total))
}
