package public

import (
	"strings"
	"time"

	"github.com/luckyscan/internal/constants"
	handlershared "github.com/luckyscan/internal/http/handlers/shared"
	"github.com/luckyscan/internal/http/response"
	"github.com/luckyscan/internal/i18n"
	"github.com/luckyscan/internal/models"
	"github.com/luckyscan/internal/service"

	"github.com/gin-gonic/gin"
)

// PublicPromotionView 落地页展示的活动信息
type PublicPromotionView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartAt     string `json:"start_at"`
	EndAt       string `json:"end_at"`
}

func toPublicPromotionView(promotion *models.Promotion) *PublicPromotionView {
	if promotion == nil {
		return nil
	}
	return &PublicPromotionView{
		ID:          promotion.ID,
		Name:        promotion.Name,
		Description: promotion.Description,
		StartAt:     promotion.StartAt.Format(time.RFC3339),
		EndAt:       promotion.EndAt.Format(time.RFC3339),
	}
}

// ValidateToken 扫码落地页校验券码
func (h *Handler) ValidateToken(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	validation, err := h.TokenService.ValidateToken(code)
	if err != nil {
		respondPlayRejected(c, err)
		return
	}
	response.Success(c, gin.H{
		"token":     validation.Token.Code,
		"status":    validation.Token.Status,
		"promotion": toPublicPromotionView(validation.Promotion),
	})
}

// RegisterCustomerRequest 顾客注册请求
type RegisterCustomerRequest struct {
	FirstName        string                              `json:"first_name" binding:"required"`
	LastName         string                              `json:"last_name" binding:"required"`
	Phone            string                              `json:"phone" binding:"required"`
	ConsentTerms     bool                                `json:"consent_terms"`
	ConsentMarketing bool                                `json:"consent_marketing"`
	CaptchaPayload   handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// RegisterCustomer 顾客注册（同一活动同一手机号重复注册视为更新）
func (h *Handler) RegisterCustomer(c *gin.Context) {
	promotionID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if !h.verifyCaptcha(c, constants.CaptchaSceneRegister, req.CaptchaPayload.ToServicePayload()) {
		return
	}

	customer, err := h.CustomerService.Register(service.RegisterCustomerInput{
		PromotionID:      promotionID,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Phone:            req.Phone,
		ConsentTerms:     req.ConsentTerms,
		ConsentMarketing: req.ConsentMarketing,
	})
	if err != nil {
		respondWithMappedError(c, err, registerErrorRules, response.CodeInternal, "error.save_failed")
		return
	}

	response.Success(c, gin.H{
		"customer_id":  customer.ID,
		"display_name": service.DisplayName(customer.FirstName, customer.LastName),
		"total_plays":  customer.TotalPlays,
		"total_wins":   customer.TotalWins,
	})
}

// PlayRequest 抽奖请求
type PlayRequest struct {
	Token       string `json:"token" binding:"required"`
	PromotionID uint   `json:"promotion_id" binding:"required"`
	CustomerID  uint   `json:"customer_id" binding:"required"`
}

// PlayPrizeView 中奖奖品信息
type PlayPrizeView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PrizeCode   string `json:"prize_code"`
}

// Play 使用券码参与一次抽奖
func (h *Handler) Play(c *gin.Context) {
	var req PlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.PlayService.Play(c.Request.Context(), service.PlayInput{
		TokenCode:   req.Token,
		PromotionID: req.PromotionID,
		CustomerID:  req.CustomerID,
	})
	if err != nil {
		respondPlayRejected(c, err)
		return
	}

	locale := i18n.ResolveLocale(c)
	data := gin.H{
		"play_id":   result.Play.ID,
		"is_winner": result.IsWinner,
		"message":   i18n.T(locale, "play.result_loss"),
	}
	if result.IsWinner && result.Assignment != nil && result.PrizeType != nil {
		data["message"] = i18n.T(locale, "play.result_win")
		data["prize"] = PlayPrizeView{
			ID:          result.PrizeType.ID,
			Name:        result.PrizeType.Name,
			Description: result.PrizeType.Description,
			PrizeCode:   result.Assignment.PrizeCode,
		}
	}
	requestLog(c).Debugw("public_play_done",
		"play_id", result.Play.ID,
		"is_winner", result.IsWinner,
		"downgraded", result.Downgraded,
	)
	response.Success(c, data)
}

// GetLeaderboard 获取活动排行榜，携带 customer_id 时附带个人排名
func (h *Handler) GetLeaderboard(c *gin.Context) {
	promotionID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	board, err := h.LeaderboardService.GetLeaderboard(c.Request.Context(), promotionID, optionalCustomerID(c))
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, board)
}
