package repository

import (
	"errors"

	"github.com/luckyscan/internal/models"

	"gorm.io/gorm"
)

// PrizeStockSummary 活动奖品库存汇总
type PrizeStockSummary struct {
	InitialStock   int64
	RemainingStock int64
}

// PrizeTypeRepository 奖品数据访问接口
type PrizeTypeRepository interface {
	GetByID(id uint) (*models.PrizeType, error)
	ListByPromotion(promotionID uint) ([]models.PrizeType, error)
	Create(prize *models.PrizeType) error
	Update(prize *models.PrizeType) error
	Delete(id uint) error
	ReserveStock(id uint) (int64, error)
	RestoreStock(promotionID uint) error
	SummarizeStock(promotionID uint) (PrizeStockSummary, error)
	WithTx(tx *gorm.DB) PrizeTypeRepository
}

// GormPrizeTypeRepository GORM 实现
type GormPrizeTypeRepository struct {
	db *gorm.DB
}

// NewPrizeTypeRepository 创建奖品仓库
func NewPrizeTypeRepository(db *gorm.DB) *GormPrizeTypeRepository {
	return &GormPrizeTypeRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPrizeTypeRepository) WithTx(tx *gorm.DB) PrizeTypeRepository {
	if tx == nil {
		return r
	}
	return &GormPrizeTypeRepository{db: tx}
}

// GetByID 获取奖品
func (r *GormPrizeTypeRepository) GetByID(id uint) (*models.PrizeType, error) {
	if id == 0 {
		return nil, nil
	}
	var prize models.PrizeType
	if err := r.db.First(&prize, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prize, nil
}

// ListByPromotion 按判定顺序列出活动奖品
func (r *GormPrizeTypeRepository) ListByPromotion(promotionID uint) ([]models.PrizeType, error) {
	prizes := make([]models.PrizeType, 0)
	if promotionID == 0 {
		return prizes, nil
	}
	if err := r.db.Where("promotion_id = ?", promotionID).
		Order("sort_order asc, id asc").
		Find(&prizes).Error; err != nil {
		return nil, err
	}
	return prizes, nil
}

// Create 创建奖品
func (r *GormPrizeTypeRepository) Create(prize *models.PrizeType) error {
	if prize == nil {
		return errors.New("invalid prize type")
	}
	return r.db.Create(prize).Error
}

// Update 更新奖品展示字段，库存只能通过 ReserveStock/RestoreStock 变更
func (r *GormPrizeTypeRepository) Update(prize *models.PrizeType) error {
	if prize == nil || prize.ID == 0 {
		return errors.New("invalid prize type")
	}
	return r.db.Model(&models.PrizeType{}).
		Where("id = ?", prize.ID).
		Updates(map[string]interface{}{
			"name":               prize.Name,
			"description":        prize.Description,
			"target_probability": prize.TargetProbability,
			"restriction":        prize.Restriction,
			"sort_order":         prize.SortOrder,
			"updated_at":         prize.UpdatedAt,
		}).Error
}

// Delete 删除奖品
func (r *GormPrizeTypeRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.PrizeType{}, id).Error
}

// ReserveStock 扣减一件库存，仅在剩余库存大于 0 时生效，返回影响行数
func (r *GormPrizeTypeRepository) ReserveStock(id uint) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid prize stock reserve params")
	}
	result := r.db.Model(&models.PrizeType{}).
		Where("id = ? AND remaining_stock > 0", id).
		Update("remaining_stock", gorm.Expr("remaining_stock - ?", 1))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// RestoreStock 将活动下所有奖品的剩余库存恢复为初始库存
func (r *GormPrizeTypeRepository) RestoreStock(promotionID uint) error {
	if promotionID == 0 {
		return nil
	}
	return r.db.Model(&models.PrizeType{}).
		Where("promotion_id = ?", promotionID).
		Update("remaining_stock", gorm.Expr("initial_stock")).Error
}

// SummarizeStock 汇总活动奖品库存
func (r *GormPrizeTypeRepository) SummarizeStock(promotionID uint) (PrizeStockSummary, error) {
	var summary PrizeStockSummary
	if promotionID == 0 {
		return summary, nil
	}
	err := r.db.Model(&models.PrizeType{}).
		Select("COALESCE(SUM(initial_stock), 0) as initial_stock, COALESCE(SUM(remaining_stock), 0) as remaining_stock").
		Where("promotion_id = ?", promotionID).
		Scan(&summary).Error
	return summary, err
}
