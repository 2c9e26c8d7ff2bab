package repository

import (
	"errors"

	"github.com/luckyscan/internal/models"

	"gorm.io/gorm"
)

// PlayRepository 抽奖记录数据访问接口
type PlayRepository interface {
	Create(play *models.Play) error
	CountByPromotion(promotionID uint) (int64, error)
	CountWinners(promotionID uint) (int64, error)
	CountByToken(tokenID uint) (int64, error)
	List(filter PlayListFilter) ([]models.Play, int64, error)
	DeleteByPromotion(promotionID uint) error
	WithTx(tx *gorm.DB) PlayRepository
}

// GormPlayRepository GORM 实现
type GormPlayRepository struct {
	db *gorm.DB
}

// NewPlayRepository 创建抽奖记录仓库
func NewPlayRepository(db *gorm.DB) *GormPlayRepository {
	return &GormPlayRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPlayRepository) WithTx(tx *gorm.DB) PlayRepository {
	if tx == nil {
		return r
	}
	return &GormPlayRepository{db: tx}
}

// Create 写入抽奖记录
func (r *GormPlayRepository) Create(play *models.Play) error {
	if play == nil {
		return errors.New("invalid play")
	}
	return r.db.Create(play).Error
}

// CountByPromotion 统计活动抽奖次数
func (r *GormPlayRepository) CountByPromotion(promotionID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Play{}).Where("promotion_id = ?", promotionID).Count(&count).Error
	return count, err
}

// CountWinners 统计活动中奖次数
func (r *GormPlayRepository) CountWinners(promotionID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Play{}).Where("promotion_id = ? AND is_winner = ?", promotionID, true).Count(&count).Error
	return count, err
}

// CountByToken 统计券码对应的抽奖记录数
func (r *GormPlayRepository) CountByToken(tokenID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Play{}).Where("token_id = ?", tokenID).Count(&count).Error
	return count, err
}

// List 抽奖记录列表
func (r *GormPlayRepository) List(filter PlayListFilter) ([]models.Play, int64, error) {
	query := r.db.Model(&models.Play{})
	if filter.PromotionID > 0 {
		query = query.Where("promotion_id = ?", filter.PromotionID)
	}
	if filter.CustomerID > 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.OnlyWinners {
		query = query.Where("is_winner = ?", true)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	var plays []models.Play
	if err := query.Preload("Token").Preload("Customer").Preload("PrizeType").
		Order("id desc").Find(&plays).Error; err != nil {
		return nil, 0, err
	}
	return plays, total, nil
}

// DeleteByPromotion 删除活动下所有抽奖记录
func (r *GormPlayRepository) DeleteByPromotion(promotionID uint) error {
	if promotionID == 0 {
		return nil
	}
	return r.db.Where("promotion_id = ?", promotionID).Delete(&models.Play{}).Error
}
