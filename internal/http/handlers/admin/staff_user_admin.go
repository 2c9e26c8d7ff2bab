package admin

import (
	"errors"

	handlershared "github.com/luckyscan/internal/http/handlers/shared"
	"github.com/luckyscan/internal/http/response"
	"github.com/luckyscan/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateStaffUserRequest 创建后台账号请求
type CreateStaffUserRequest struct {
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password" binding:"required"`
	Role        string `json:"role" binding:"required"`
}

// UpdateStaffUserRequest 更新后台账号请求
type UpdateStaffUserRequest struct {
	DisplayName *string `json:"display_name"`
	Role        *string `json:"role"`
	IsActive    *bool   `json:"is_active"`
	Password    *string `json:"password"`
}

func respondStaffUserError(c *gin.Context, err error, fallbackKey string) {
	switch {
	case errors.Is(err, service.ErrStaffUserNotFound):
		respondError(c, response.CodeNotFound, "error.staff_user_not_found", nil)
	case errors.Is(err, service.ErrStaffUserExists):
		respondError(c, response.CodeConflict, "error.staff_user_exists", nil)
	case errors.Is(err, service.ErrStaffUserLastAdmin):
		respondError(c, response.CodeBadRequest, "error.staff_user_last_admin", nil)
	case errors.Is(err, service.ErrStaffUserInvalid):
		respondError(c, response.CodeBadRequest, "error.staff_user_invalid", nil)
	case errors.Is(err, service.ErrWeakPassword):
		respondWeakPassword(c, err)
	default:
		respondError(c, response.CodeInternal, fallbackKey, err)
	}
}

// ListStaffUsers 后台账号列表
func (h *Handler) ListStaffUsers(c *gin.Context) {
	users, err := h.StaffUserService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, users)
}

// CreateStaffUser 创建后台账号
func (h *Handler) CreateStaffUser(c *gin.Context) {
	var req CreateStaffUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.StaffUserService.Create(service.CreateStaffUserInput{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		Role:        req.Role,
	})
	if err != nil {
		respondStaffUserError(c, err, "error.save_failed")
		return
	}
	response.Success(c, user)
}

// UpdateStaffUser 更新后台账号
func (h *Handler) UpdateStaffUser(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStaffUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.StaffUserService.Update(id, service.UpdateStaffUserInput{
		DisplayName: req.DisplayName,
		Role:        req.Role,
		IsActive:    req.IsActive,
		Password:    req.Password,
	})
	if err != nil {
		respondStaffUserError(c, err, "error.save_failed")
		return
	}
	response.Success(c, user)
}

// DeleteStaffUser 删除后台账号
func (h *Handler) DeleteStaffUser(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	operatorID, ok := getStaffID(c)
	if !ok {
		return
	}
	if err := h.StaffUserService.Delete(id, operatorID); err != nil {
		respondStaffUserError(c, err, "error.delete_failed")
		return
	}
	response.Success(c, nil)
}
