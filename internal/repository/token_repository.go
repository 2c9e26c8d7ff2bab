package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/luckyscan/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const tokenInsertBatchSize = 500

// TokenCounts 活动券码计数
type TokenCounts struct {
	Total int64
	Used  int64
}

// TokenRepository 券码数据访问接口
type TokenRepository interface {
	CreateBatch(batch *models.TokenBatch, tokens []models.Token) (int64, error)
	GetBatchByID(id uint) (*models.TokenBatch, error)
	ListBatches(promotionID uint) ([]models.TokenBatch, error)
	GetByCode(code string) (*models.Token, error)
	GetByCodeForUpdate(code string) (*models.Token, error)
	MarkUsed(id uint, usedAt time.Time) (int64, error)
	CountByPromotion(promotionID uint) (TokenCounts, error)
	List(filter TokenListFilter) ([]models.Token, int64, error)
	ListForExport(promotionID, batchID uint) ([]models.Token, error)
	DeleteByPromotion(promotionID uint) error
	WithTx(tx *gorm.DB) TokenRepository
}

// GormTokenRepository GORM 实现
type GormTokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository 创建券码仓库
func NewTokenRepository(db *gorm.DB) *GormTokenRepository {
	return &GormTokenRepository{db: db}
}

// WithTx 绑定事务
func (r *GormTokenRepository) WithTx(tx *gorm.DB) TokenRepository {
	if tx == nil {
		return r
	}
	return &GormTokenRepository{db: tx}
}

// NormalizeTokenCode 统一券码格式
func NormalizeTokenCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CreateBatch 创建批次并写入券码，重复券码跳过，返回实际写入数量
func (r *GormTokenRepository) CreateBatch(batch *models.TokenBatch, tokens []models.Token) (int64, error) {
	if batch == nil {
		return 0, errors.New("invalid token batch")
	}
	if err := r.db.Create(batch).Error; err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, nil
	}
	for idx := range tokens {
		tokens[idx].BatchID = &batch.ID
		tokens[idx].PromotionID = batch.PromotionID
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&tokens, tokenInsertBatchSize)
	if result.Error != nil {
		return 0, result.Error
	}
	created := result.RowsAffected
	if err := r.db.Model(&models.TokenBatch{}).Where("id = ?", batch.ID).Update("created_count", created).Error; err != nil {
		return 0, err
	}
	batch.CreatedCount = int(created)
	return created, nil
}

// GetBatchByID 获取批次
func (r *GormTokenRepository) GetBatchByID(id uint) (*models.TokenBatch, error) {
	if id == 0 {
		return nil, nil
	}
	var batch models.TokenBatch
	if err := r.db.First(&batch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}

// ListBatches 列出活动的券码批次
func (r *GormTokenRepository) ListBatches(promotionID uint) ([]models.TokenBatch, error) {
	batches := make([]models.TokenBatch, 0)
	query := r.db.Model(&models.TokenBatch{})
	if promotionID > 0 {
		query = query.Where("promotion_id = ?", promotionID)
	}
	if err := query.Order("id desc").Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// GetByCode 根据券码查询
func (r *GormTokenRepository) GetByCode(code string) (*models.Token, error) {
	return r.getByCode(r.db, code)
}

// GetByCodeForUpdate 根据券码加锁查询
func (r *GormTokenRepository) GetByCodeForUpdate(code string) (*models.Token, error) {
	return r.getByCode(r.db.Clauses(clause.Locking{Strength: "UPDATE"}), code)
}

func (r *GormTokenRepository) getByCode(query *gorm.DB, code string) (*models.Token, error) {
	code = NormalizeTokenCode(code)
	if code == "" {
		return nil, nil
	}
	var token models.Token
	if err := query.Where("code = ?", code).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

// MarkUsed 标记券码已使用，仅在可用状态下生效，返回影响行数
func (r *GormTokenRepository) MarkUsed(id uint, usedAt time.Time) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid token id")
	}
	result := r.db.Model(&models.Token{}).
		Where("id = ? AND status = ?", id, models.TokenStatusAvailable).
		Updates(map[string]interface{}{
			"status":  models.TokenStatusUsed,
			"used_at": usedAt,
		})
	return result.RowsAffected, result.Error
}

// CountByPromotion 统计活动券码总数与已用数
func (r *GormTokenRepository) CountByPromotion(promotionID uint) (TokenCounts, error) {
	var counts TokenCounts
	if promotionID == 0 {
		return counts, nil
	}
	err := r.db.Model(&models.Token{}).
		Select("COUNT(*) as total, COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) as used", models.TokenStatusUsed).
		Where("promotion_id = ?", promotionID).
		Scan(&counts).Error
	return counts, err
}

// List 券码列表
func (r *GormTokenRepository) List(filter TokenListFilter) ([]models.Token, int64, error) {
	query := r.db.Model(&models.Token{})
	if filter.PromotionID > 0 {
		query = query.Where("promotion_id = ?", filter.PromotionID)
	}
	if filter.BatchID > 0 {
		query = query.Where("batch_id = ?", filter.BatchID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if code := NormalizeTokenCode(filter.Code); code != "" {
		query = query.Where("code LIKE ?", "%"+code+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	var tokens []models.Token
	if err := query.Order("id desc").Find(&tokens).Error; err != nil {
		return nil, 0, err
	}
	return tokens, total, nil
}

// ListForExport 导出用券码列表
func (r *GormTokenRepository) ListForExport(promotionID, batchID uint) ([]models.Token, error) {
	tokens := make([]models.Token, 0)
	query := r.db.Model(&models.Token{}).Where("promotion_id = ?", promotionID)
	if batchID > 0 {
		query = query.Where("batch_id = ?", batchID)
	}
	if err := query.Order("id asc").Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeleteByPromotion 删除活动下所有券码与批次
func (r *GormTokenRepository) DeleteByPromotion(promotionID uint) error {
	if promotionID == 0 {
		return nil
	}
	if err := r.db.Where("promotion_id = ?", promotionID).Delete(&models.Token{}).Error; err != nil {
		return err
	}
	return r.db.Where("promotion_id = ?", promotionID).Delete(&models.TokenBatch{}).Error
}
