package admin

import (
	"errors"
	"time"

	"github.com/luckyscan/internal/constants"
	handlershared "github.com/luckyscan/internal/http/handlers/shared"
	"github.com/luckyscan/internal/http/response"
	"github.com/luckyscan/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username       string                              `json:"username" binding:"required"`
	Password       string                              `json:"password" binding:"required"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string                 `json:"token"`
	User      map[string]interface{} `json:"user"`
	ExpiresAt string                 `json:"expires_at"`
}

// Login 后台账号登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if h.CaptchaService != nil {
		if captchaErr := h.CaptchaService.Verify(constants.CaptchaSceneStaffLogin, req.CaptchaPayload.ToServicePayload()); captchaErr != nil {
			switch {
			case errors.Is(captchaErr, service.ErrCaptchaRequired):
				respondError(c, response.CodeBadRequest, "error.captcha_required", nil)
			case errors.Is(captchaErr, service.ErrCaptchaInvalid):
				respondError(c, response.CodeBadRequest, "error.captcha_invalid", nil)
			default:
				respondError(c, response.CodeInternal, "error.captcha_invalid", captchaErr)
			}
			return
		}
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeUnauthorized, "error.login_failed", nil)
		case errors.Is(err, service.ErrAccountDisabled):
			respondError(c, response.CodeForbidden, "error.account_disabled", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	response.Success(c, LoginResponse{
		Token: token,
		User: map[string]interface{}{
			"id":           user.ID,
			"username":     user.Username,
			"display_name": user.DisplayName,
			"role":         user.Role,
		},
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// GetMe 获取当前登录账号
func (h *Handler) GetMe(c *gin.Context) {
	id, ok := getStaffID(c)
	if !ok {
		return
	}
	user, err := h.AuthService.GetStaffUser(id)
	if err != nil {
		if errors.Is(err, service.ErrStaffUserNotFound) {
			respondError(c, response.CodeNotFound, "error.staff_user_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, user)
}

// UpdatePasswordRequest 修改密码请求
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UpdatePassword 修改当前账号密码
func (h *Handler) UpdatePassword(c *gin.Context) {
	id, ok := getStaffID(c)
	if !ok {
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthService.ChangePassword(id, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPassword):
			respondError(c, response.CodeBadRequest, "error.password_invalid", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondWeakPassword(c, err)
		case errors.Is(err, service.ErrStaffUserNotFound):
			respondError(c, response.CodeNotFound, "error.staff_user_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.save_failed", err)
		}
		return
	}

	response.Success(c, nil)
}
