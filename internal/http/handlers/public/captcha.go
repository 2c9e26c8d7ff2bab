package public

import (
	"errors"

	"github.com/luckyscan/internal/http/response"
	"github.com/luckyscan/internal/service"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha 获取图片验证码挑战
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	if h.CaptchaService == nil {
		respondError(c, response.CodeInternal, "error.captcha_unavailable", service.ErrCaptchaConfigInvalid)
		return
	}

	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaptchaConfigInvalid):
			respondError(c, response.CodeBadRequest, "error.captcha_unavailable", nil)
		default:
			respondError(c, response.CodeInternal, "error.captcha_generate_failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}

// verifyCaptcha 校验验证码，失败时已写入响应
func (h *Handler) verifyCaptcha(c *gin.Context, scene string, payload service.CaptchaVerifyPayload) bool {
	if h.CaptchaService == nil {
		return true
	}
	if err := h.CaptchaService.Verify(scene, payload); err != nil {
		respondWithMappedError(c, err, captchaErrorRules, response.CodeInternal, "error.captcha_invalid")
		return false
	}
	return true
}
