package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	StaffRoleAdmin = "admin"
	StaffRoleStaff = "staff"
)

// StaffUser 后台账号（管理员与兑奖员工）
type StaffUser struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                        // 主键
	Username           string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`       // 账号
	DisplayName        string         `gorm:"type:varchar(80);not null;default:''" json:"display_name"`    // 显示名称
	PasswordHash       string         `gorm:"not null" json:"-"`                                           // 密码哈希（不返回给前端）
	Role               string         `gorm:"type:varchar(16);index;not null;default:'staff'" json:"role"` // 角色（admin/staff）
	IsActive           bool           `gorm:"not null;default:true" json:"is_active"`                      // 是否启用
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`                                 // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                                              // 该时间点前签发的 Token 失效
	LastLoginAt        *time.Time     `json:"last_login_at"`                                               // 最后登录时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                                     // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间
}

// TableName 指定表名
func (StaffUser) TableName() string {
	return "staff_users"
}

// IsAdmin 是否管理员
func (u *StaffUser) IsAdmin() bool {
	return u != nil && u.Role == StaffRoleAdmin
}
