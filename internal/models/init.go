package models

import (
	"strings"

	"github.com/luckyscan/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

const defaultAdminPassword = "admin123"

// InitDefaultAdmin 初始化默认管理员账号
func InitDefaultAdmin(username, password string) error {
	var count int64
	if err := DB.Model(&StaffUser{}).Where("role = ?", StaffRoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username = "admin"
	}
	if password == "" {
		password = defaultAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := StaffUser{
		Username:     username,
		DisplayName:  "Administrator",
		PasswordHash: string(hash),
		Role:         StaffRoleAdmin,
		IsActive:     true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == defaultAdminPassword {
		logger.Warnw("default_admin_created_with_default_password", "username", username)
		logger.Warnw("default_admin_password_change_required", "username", username)
	} else {
		logger.Warnw("default_admin_created", "username", username, "password_hidden", true)
	}
	return nil
}
