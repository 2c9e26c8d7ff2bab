package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/luckyscan/internal/models"

	"gorm.io/gorm"
)

// PromotionRepository 活动数据访问接口
type PromotionRepository interface {
	GetByID(id uint) (*models.Promotion, error)
	List(filter PromotionListFilter) ([]models.Promotion, int64, error)
	Create(promotion *models.Promotion) error
	Update(promotion *models.Promotion) error
	Delete(id uint) error
	EndExpired(now time.Time) (int64, error)
	WithTx(tx *gorm.DB) PromotionRepository
}

// GormPromotionRepository GORM 实现
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository 创建活动仓库
func NewPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPromotionRepository) WithTx(tx *gorm.DB) PromotionRepository {
	if tx == nil {
		return r
	}
	return &GormPromotionRepository{db: tx}
}

// GetByID 获取活动
func (r *GormPromotionRepository) GetByID(id uint) (*models.Promotion, error) {
	if id == 0 {
		return nil, nil
	}
	var promotion models.Promotion
	if err := r.db.First(&promotion, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promotion, nil
}

// List 活动列表
func (r *GormPromotionRepository) List(filter PromotionListFilter) ([]models.Promotion, int64, error) {
	query := r.db.Model(&models.Promotion{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		query = query.Where("name "+likeOperatorByDialect(dbDialectName(r.db))+" ?", "%"+keyword+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	var promotions []models.Promotion
	if err := query.Order("start_at desc, id desc").Find(&promotions).Error; err != nil {
		return nil, 0, err
	}
	return promotions, total, nil
}

// Create 创建活动
func (r *GormPromotionRepository) Create(promotion *models.Promotion) error {
	if promotion == nil {
		return errors.New("invalid promotion")
	}
	return r.db.Create(promotion).Error
}

// Update 更新活动
func (r *GormPromotionRepository) Update(promotion *models.Promotion) error {
	if promotion == nil {
		return errors.New("invalid promotion")
	}
	return r.db.Save(promotion).Error
}

// Delete 删除活动（软删除）
func (r *GormPromotionRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Promotion{}, id).Error
}

// EndExpired 将已过结束时间的进行中活动置为已结束
func (r *GormPromotionRepository) EndExpired(now time.Time) (int64, error) {
	result := r.db.Model(&models.Promotion{}).
		Where("status = ? AND end_at < ?", models.PromotionStatusActive, now).
		Updates(map[string]interface{}{
			"status":     models.PromotionStatusEnded,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}
