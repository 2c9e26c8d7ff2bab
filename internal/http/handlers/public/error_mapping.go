package public

import (
	"errors"

	"github.com/luckyscan/internal/http/response"
	"github.com/luckyscan/internal/i18n"
	"github.com/luckyscan/internal/models"
	"github.com/luckyscan/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var captchaErrorRules = []mappedHandlerError{
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, key: "error.captcha_required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, key: "error.captcha_invalid"},
}

var promotionLookupErrorRules = []mappedHandlerError{
	{target: service.ErrPromotionNotFound, code: response.CodeNotFound, key: "error.promotion_not_found"},
}

var registerErrorRules = concatMappedHandlerErrors(
	promotionLookupErrorRules,
	[]mappedHandlerError{
		{target: service.ErrPromotionInactive, code: response.CodeForbidden, key: "error.promotion_inactive"},
		{target: service.ErrConsentRequired, code: response.CodeBadRequest, key: "error.consent_required"},
		{target: service.ErrCustomerInvalid, code: response.CodeBadRequest, key: "error.customer_invalid"},
	},
)

// playRejectRule 抽奖拒绝原因对应的响应码与文案
type playRejectRule struct {
	code int
	key  string
}

var playRejectRules = map[models.PlayRejectReason]playRejectRule{
	models.PlayRejectTokenNotFound:     {code: response.CodeNotFound, key: "error.token_not_found"},
	models.PlayRejectTokenUsed:         {code: response.CodeConflict, key: "error.token_used"},
	models.PlayRejectTokenMismatch:     {code: response.CodeBadRequest, key: "error.token_mismatch"},
	models.PlayRejectPromotionInactive: {code: response.CodeForbidden, key: "error.promotion_inactive"},
	models.PlayRejectCustomerNotFound:  {code: response.CodeNotFound, key: "error.customer_not_found"},
}

// respondPlayRejected 返回带原因码的拒绝响应，非拒绝错误按通用失败处理
func respondPlayRejected(c *gin.Context, err error) {
	reason := service.PlayRejectReasonOf(err)
	rule, ok := playRejectRules[reason]
	if !ok {
		respondError(c, response.CodeInternal, "error.play_failed", err)
		return
	}
	msg := i18n.T(i18n.ResolveLocale(c), rule.key)
	response.Fail(c, response.NewRejection(rule.code, msg, string(reason)))
}
