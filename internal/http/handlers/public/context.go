package public

import (
	"strconv"
	"strings"

	handlershared "github.com/luckyscan/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

// optionalCustomerID 读取可选的顾客ID，优先请求头其次查询参数
func optionalCustomerID(c *gin.Context) uint {
	raw := strings.TrimSpace(c.GetHeader("X-Customer-ID"))
	if raw == "" {
		raw = strings.TrimSpace(c.Query("customer_id"))
	}
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
