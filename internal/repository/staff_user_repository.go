package repository

import (
	"errors"
	"strings"

	"github.com/luckyscan/internal/models"

	"gorm.io/gorm"
)

// StaffUserRepository 后台账号数据访问接口
type StaffUserRepository interface {
	GetByUsername(username string) (*models.StaffUser, error)
	GetByID(id uint) (*models.StaffUser, error)
	List() ([]models.StaffUser, error)
	CountByRole(role string) (int64, error)
	Create(user *models.StaffUser) error
	Update(user *models.StaffUser) error
	Delete(id uint) error
}

// GormStaffUserRepository GORM 实现
type GormStaffUserRepository struct {
	db *gorm.DB
}

// NewStaffUserRepository 创建后台账号仓库
func NewStaffUserRepository(db *gorm.DB) *GormStaffUserRepository {
	return &GormStaffUserRepository{db: db}
}

// GetByUsername 根据用户名获取账号
func (r *GormStaffUserRepository) GetByUsername(username string) (*models.StaffUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil
	}
	var user models.StaffUser
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByID 根据 ID 获取账号
func (r *GormStaffUserRepository) GetByID(id uint) (*models.StaffUser, error) {
	if id == 0 {
		return nil, nil
	}
	var user models.StaffUser
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// List 获取账号列表
func (r *GormStaffUserRepository) List() ([]models.StaffUser, error) {
	users := make([]models.StaffUser, 0)
	err := r.db.
		Select("id", "username", "display_name", "role", "is_active", "last_login_at", "created_at", "updated_at").
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// CountByRole 统计指定角色账号数
func (r *GormStaffUserRepository) CountByRole(role string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.StaffUser{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create 创建账号
func (r *GormStaffUserRepository) Create(user *models.StaffUser) error {
	return r.db.Create(user).Error
}

// Update 更新账号
func (r *GormStaffUserRepository) Update(user *models.StaffUser) error {
	return r.db.Save(user).Error
}

// Delete 删除账号（软删除）
func (r *GormStaffUserRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.StaffUser{}, id).Error
}
