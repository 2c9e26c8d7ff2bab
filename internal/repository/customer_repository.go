package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/luckyscan/internal/models"

	"gorm.io/gorm"
)

// CustomerRepository 顾客数据访问接口
type CustomerRepository interface {
	GetByID(id uint) (*models.Customer, error)
	GetByPromotionPhone(promotionID uint, phone string) (*models.Customer, error)
	Create(customer *models.Customer) error
	Update(customer *models.Customer) error
	IncrementPlay(id uint, won bool, playedAt time.Time) (int64, error)
	CountByPromotion(promotionID uint) (int64, error)
	CountParticipants(promotionID uint) (int64, error)
	TopByPlays(promotionID uint, limit int) ([]models.Customer, error)
	CountAhead(customer *models.Customer) (int64, error)
	List(filter CustomerListFilter) ([]models.Customer, int64, error)
	DeleteByPromotion(promotionID uint) error
	WithTx(tx *gorm.DB) CustomerRepository
}

// GormCustomerRepository GORM 实现
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建顾客仓库
func NewCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCustomerRepository) WithTx(tx *gorm.DB) CustomerRepository {
	if tx == nil {
		return r
	}
	return &GormCustomerRepository{db: tx}
}

// GetByID 获取顾客
func (r *GormCustomerRepository) GetByID(id uint) (*models.Customer, error) {
	if id == 0 {
		return nil, nil
	}
	var customer models.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// GetByPromotionPhone 根据活动与手机号查询顾客
func (r *GormCustomerRepository) GetByPromotionPhone(promotionID uint, phone string) (*models.Customer, error) {
	phone = strings.TrimSpace(phone)
	if promotionID == 0 || phone == "" {
		return nil, nil
	}
	var customer models.Customer
	if err := r.db.Where("promotion_id = ? AND phone = ?", promotionID, phone).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// Create 创建顾客
func (r *GormCustomerRepository) Create(customer *models.Customer) error {
	if customer == nil {
		return errors.New("invalid customer")
	}
	return r.db.Create(customer).Error
}

// Update 更新顾客身份与授权信息，计数器不在此处修改
func (r *GormCustomerRepository) Update(customer *models.Customer) error {
	if customer == nil || customer.ID == 0 {
		return errors.New("invalid customer")
	}
	return r.db.Model(&models.Customer{}).
		Where("id = ?", customer.ID).
		Updates(map[string]interface{}{
			"first_name":           customer.FirstName,
			"last_name":            customer.LastName,
			"gender":               customer.Gender,
			"gender_confidence":    customer.GenderConfidence,
			"consent_terms":        customer.ConsentTerms,
			"consent_terms_at":     customer.ConsentTermsAt,
			"consent_marketing":    customer.ConsentMarketing,
			"consent_marketing_at": customer.ConsentMarketingAt,
			"updated_at":           customer.UpdatedAt,
		}).Error
}

// IncrementPlay 累加参与次数（中奖时同时累加中奖次数）
func (r *GormCustomerRepository) IncrementPlay(id uint, won bool, playedAt time.Time) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid customer id")
	}
	updates := map[string]interface{}{
		"total_plays":  gorm.Expr("total_plays + ?", 1),
		"last_play_at": playedAt,
		"updated_at":   playedAt,
	}
	if won {
		updates["total_wins"] = gorm.Expr("total_wins + ?", 1)
	}
	result := r.db.Model(&models.Customer{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

// CountByPromotion 统计活动注册人数
func (r *GormCustomerRepository) CountByPromotion(promotionID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Customer{}).Where("promotion_id = ?", promotionID).Count(&count).Error
	return count, err
}

// CountParticipants 统计至少参与过一次的人数
func (r *GormCustomerRepository) CountParticipants(promotionID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Customer{}).Where("promotion_id = ? AND total_plays > 0", promotionID).Count(&count).Error
	return count, err
}

// TopByPlays 参与次数排行，同次数先达到者靠前
func (r *GormCustomerRepository) TopByPlays(promotionID uint, limit int) ([]models.Customer, error) {
	customers := make([]models.Customer, 0)
	if promotionID == 0 {
		return customers, nil
	}
	if limit <= 0 {
		limit = 10
	}
	if err := r.db.Where("promotion_id = ? AND total_plays > 0", promotionID).
		Order("total_plays desc, updated_at asc, id asc").
		Limit(limit).
		Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// CountAhead 统计排在指定顾客之前的人数
func (r *GormCustomerRepository) CountAhead(customer *models.Customer) (int64, error) {
	if customer == nil {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&models.Customer{}).
		Where("promotion_id = ? AND total_plays > 0", customer.PromotionID).
		Where("total_plays > ? OR (total_plays = ? AND updated_at < ?)", customer.TotalPlays, customer.TotalPlays, customer.UpdatedAt).
		Count(&count).Error
	return count, err
}

// List 顾客列表
func (r *GormCustomerRepository) List(filter CustomerListFilter) ([]models.Customer, int64, error) {
	query := r.db.Model(&models.Customer{})
	if filter.PromotionID > 0 {
		query = query.Where("promotion_id = ?", filter.PromotionID)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		operator := likeOperatorByDialect(dbDialectName(r.db))
		query = query.Where("first_name "+operator+" ? OR last_name "+operator+" ? OR phone LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	var customers []models.Customer
	if err := query.Order("id desc").Find(&customers).Error; err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// DeleteByPromotion 删除活动下所有顾客
func (r *GormCustomerRepository) DeleteByPromotion(promotionID uint) error {
	if promotionID == 0 {
		return nil
	}
	return r.db.Where("promotion_id = ?", promotionID).Delete(&models.Customer{}).Error
}
