package shared

import (
	"strconv"
	"strings"

	"github.com/luckyscan/internal/http/response"

	"github.com/gin-gonic/gin"
)

// NormalizePagination 归一化分页参数。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// ParseUintParam 解析路径中的 uint 参数。
func ParseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(value), true
}

// ParseUintQuery 解析可选的 uint 查询参数，缺省返回 0。
func ParseUintQuery(c *gin.Context, name string) uint {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}
