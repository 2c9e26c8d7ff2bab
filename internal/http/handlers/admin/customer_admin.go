package admin

import (
	"errors"
	"strings"

	handlershared "github.com/luckyscan/internal/http/handlers/shared"
	"github.com/luckyscan/internal/http/response"
	"github.com/luckyscan/internal/repository"
	"github.com/luckyscan/internal/service"

	"github.com/gin-gonic/gin"
)

// ListCustomers 活动参与者列表
func (h *Handler) ListCustomers(c *gin.Context) {
	promotionID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	page, pageSize := parsePageQuery(c)
	customers, total, err := h.CustomerService.ListCustomers(repository.CustomerListFilter{
		Page:        page,
		PageSize:    pageSize,
		PromotionID: promotionID,
		Keyword:     strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, customers, response.BuildPagination(page, pageSize, total))
}

// GetCustomer 参与者详情
func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "customer_id")
	if !ok {
		return
	}
	customer, err := h.CustomerService.GetCustomer(id)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			respondError(c, response.CodeNotFound, "error.customer_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, customer)
}
