package public

import (
	"time"

	"github.com/luckyscan/internal/cache"
	"github.com/luckyscan/internal/constants"
	"github.com/luckyscan/internal/http/response"

	"github.com/gin-gonic/gin"
)

const (
	publicConfigCacheKey = "public:config"
	publicConfigCacheTTL = 60 * time.Second
)

// GetConfig 获取前端公共配置
func (h *Handler) GetConfig(c *gin.Context) {
	var cached map[string]interface{}
	if hit, err := cache.GetJSON(c.Request.Context(), publicConfigCacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	data := map[string]interface{}{
		"languages": constants.SupportedLocales,
	}
	if h.Config != nil {
		data["app_name"] = h.Config.App.Name
		data["frontend_url"] = h.Config.App.FrontendURL
	}
	if h.CaptchaService != nil {
		data["captcha"] = h.CaptchaService.PublicSetting()
	}

	if err := cache.SetJSON(c.Request.Context(), publicConfigCacheKey, data, publicConfigCacheTTL); err != nil {
		requestLog(c).Warnw("public_config_cache_set_failed", "error", err)
	}
	response.Success(c, data)
}
