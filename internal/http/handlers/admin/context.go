package admin

import (
	"strconv"

	handlershared "github.com/luckyscan/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, key, invalidKey, typeInvalidKey)
}

func getStaffID(c *gin.Context) (uint, bool) {
	return getContextUintWithKeys(c, "staff_id", "error.staff_id_invalid", "error.staff_id_type_invalid")
}

func parsePageQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return handlershared.NormalizePagination(page, pageSize)
}
