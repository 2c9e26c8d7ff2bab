package admin

import (
	"errors"

	handlershared "github.com/luckyscan/internal/http/handlers/shared"
	"github.com/luckyscan/internal/http/response"
	"github.com/luckyscan/internal/i18n"
	"github.com/luckyscan/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondErrorWithMsg(c, code, msg, err)
}

// respondWeakPassword 按密码策略返回具体提示
func respondWeakPassword(c *gin.Context, err error) {
	var policyErr *service.PasswordPolicyError
	if errors.As(err, &policyErr) {
		msg := i18n.Sprintf(i18n.ResolveLocale(c), policyErr.Key, policyErr.Args...)
		respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
		return
	}
	respondError(c, response.CodeBadRequest, "error.password_weak", nil)
}
