package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/luckyscan/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PrizeTypeAssignmentCount 单个奖品的发放与核销数量
type PrizeTypeAssignmentCount struct {
	PrizeTypeID uint
	Assigned    int64
	Redeemed    int64
}

// PrizeAssignmentRepository 中奖凭证数据访问接口
type PrizeAssignmentRepository interface {
	Create(assignment *models.PrizeAssignment) error
	GetByCode(code string) (*models.PrizeAssignment, error)
	GetByCodeForUpdate(code string) (*models.PrizeAssignment, error)
	MarkRedeemed(id, staffID uint, redeemedAt time.Time) (int64, error)
	CountByPromotion(promotionID uint) (int64, error)
	CountByPrizeType(promotionID uint) ([]PrizeTypeAssignmentCount, error)
	List(filter PrizeAssignmentListFilter) ([]models.PrizeAssignment, int64, error)
	DeleteByPromotion(promotionID uint) error
	WithTx(tx *gorm.DB) PrizeAssignmentRepository
}

// GormPrizeAssignmentRepository GORM 实现
type GormPrizeAssignmentRepository struct {
	db *gorm.DB
}

// NewPrizeAssignmentRepository 创建中奖凭证仓库
func NewPrizeAssignmentRepository(db *gorm.DB) *GormPrizeAssignmentRepository {
	return &GormPrizeAssignmentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPrizeAssignmentRepository) WithTx(tx *gorm.DB) PrizeAssignmentRepository {
	if tx == nil {
		return r
	}
	return &GormPrizeAssignmentRepository{db: tx}
}

// NormalizePrizeCode 统一兑奖码格式
func NormalizePrizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Create 写入中奖凭证
func (r *GormPrizeAssignmentRepository) Create(assignment *models.PrizeAssignment) error {
	if assignment == nil {
		return errors.New("invalid prize assignment")
	}
	return r.db.Create(assignment).Error
}

// GetByCode 根据兑奖码查询（含奖品、顾客与核销员工）
func (r *GormPrizeAssignmentRepository) GetByCode(code string) (*models.PrizeAssignment, error) {
	code = NormalizePrizeCode(code)
	if code == "" {
		return nil, nil
	}
	var assignment models.PrizeAssignment
	if err := r.db.Preload("PrizeType").Preload("Customer").Preload("Redeemer").
		Where("prize_code = ?", code).
		First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

// GetByCodeForUpdate 根据兑奖码加锁查询
func (r *GormPrizeAssignmentRepository) GetByCodeForUpdate(code string) (*models.PrizeAssignment, error) {
	code = NormalizePrizeCode(code)
	if code == "" {
		return nil, nil
	}
	var assignment models.PrizeAssignment
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("prize_code = ?", code).
		First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

// MarkRedeemed 核销中奖凭证，仅首次生效，返回影响行数
func (r *GormPrizeAssignmentRepository) MarkRedeemed(id, staffID uint, redeemedAt time.Time) (int64, error) {
	if id == 0 || staffID == 0 {
		return 0, errors.New("invalid prize redeem params")
	}
	result := r.db.Model(&models.PrizeAssignment{}).
		Where("id = ? AND redeemed_at IS NULL", id).
		Updates(map[string]interface{}{
			"redeemed_at": redeemedAt,
			"redeemed_by": staffID,
		})
	return result.RowsAffected, result.Error
}

// CountByPromotion 统计活动已发放奖品数
func (r *GormPrizeAssignmentRepository) CountByPromotion(promotionID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.PrizeAssignment{}).Where("promotion_id = ?", promotionID).Count(&count).Error
	return count, err
}

// CountByPrizeType 按奖品统计发放与核销数量
func (r *GormPrizeAssignmentRepository) CountByPrizeType(promotionID uint) ([]PrizeTypeAssignmentCount, error) {
	rows := make([]PrizeTypeAssignmentCount, 0)
	err := r.db.Model(&models.PrizeAssignment{}).
		Select("prize_type_id, COUNT(*) as assigned, COALESCE(SUM(CASE WHEN redeemed_at IS NOT NULL THEN 1 ELSE 0 END), 0) as redeemed").
		Where("promotion_id = ?", promotionID).
		Group("prize_type_id").
		Scan(&rows).Error
	return rows, err
}

// List 中奖凭证列表
func (r *GormPrizeAssignmentRepository) List(filter PrizeAssignmentListFilter) ([]models.PrizeAssignment, int64, error) {
	query := r.db.Model(&models.PrizeAssignment{})
	if filter.PromotionID > 0 {
		query = query.Where("promotion_id = ?", filter.PromotionID)
	}
	if filter.PrizeTypeID > 0 {
		query = query.Where("prize_type_id = ?", filter.PrizeTypeID)
	}
	if code := NormalizePrizeCode(filter.Code); code != "" {
		query = query.Where("prize_code LIKE ?", "%"+code+"%")
	}
	if filter.Redeemed != nil {
		if *filter.Redeemed {
			query = query.Where("redeemed_at IS NOT NULL")
		} else {
			query = query.Where("redeemed_at IS NULL")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	var assignments []models.PrizeAssignment
	if err := query.Preload("PrizeType").Preload("Customer").Preload("Redeemer").
		Order("id desc").Find(&assignments).Error; err != nil {
		return nil, 0, err
	}
	return assignments, total, nil
}

// DeleteByPromotion 删除活动下所有中奖凭证
func (r *GormPrizeAssignmentRepository) DeleteByPromotion(promotionID uint) error {
	if promotionID == 0 {
		return nil
	}
	return r.db.Where("promotion_id = ?", promotionID).Delete(&models.PrizeAssignment{}).Error
}
