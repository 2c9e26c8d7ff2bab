package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/luckyscan/internal/cache"
	"github.com/luckyscan/internal/gender"
	"github.com/luckyscan/internal/logger"
	"github.com/luckyscan/internal/models"
	"github.com/luckyscan/internal/repository"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PromotionAdminService 活动与奖品管理服务
type PromotionAdminService struct {
	promotionRepo  repository.PromotionRepository
	prizeRepo      repository.PrizeTypeRepository
	tokenRepo      repository.TokenRepository
	customerRepo   repository.CustomerRepository
	playRepo       repository.PlayRepository
	assignmentRepo repository.PrizeAssignmentRepository
}

// NewPromotionAdminService 创建活动管理服务
func NewPromotionAdminService(
	promotionRepo repository.PromotionRepository,
	prizeRepo repository.PrizeTypeRepository,
	tokenRepo repository.TokenRepository,
	customerRepo repository.CustomerRepository,
	playRepo repository.PlayRepository,
	assignmentRepo repository.PrizeAssignmentRepository,
) *PromotionAdminService {
	return &PromotionAdminService{
		promotionRepo:  promotionRepo,
		prizeRepo:      prizeRepo,
		tokenRepo:      tokenRepo,
		customerRepo:   customerRepo,
		playRepo:       playRepo,
		assignmentRepo: assignmentRepo,
	}
}

// PromotionInput 活动创建/更新参数
type PromotionInput struct {
	Name          string
	Description   string
	StartAt       time.Time
	EndAt         time.Time
	PlannedTokens int64
	Status        string
	UnitPrice     models.Money
	UnitCost      models.Money
}

// Validate 校验活动参数
func (in *PromotionInput) Validate() error {
	return validation.ValidateStruct(
		in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&in.StartAt, validation.Required),
		validation.Field(&in.EndAt, validation.Required, validation.By(func(value interface{}) error {
			if end, ok := value.(time.Time); ok && end.Before(in.StartAt) {
				return errors.New("must not be before start")
			}
			return nil
		})),
		validation.Field(&in.PlannedTokens, validation.Min(int64(0))),
		validation.Field(&in.Status, validation.In(models.PromotionStatusActive, models.PromotionStatusPaused, models.PromotionStatusEnded)),
	)
}

func (in *PromotionInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	if in.Status == "" {
		in.Status = models.PromotionStatusActive
	}
}

func (in *PromotionInput) moneyValid() bool {
	return !in.UnitPrice.Decimal.LessThan(decimal.Zero) && !in.UnitCost.Decimal.LessThan(decimal.Zero)
}

// ListPromotions 活动列表
func (s *PromotionAdminService) ListPromotions(filter repository.PromotionListFilter) ([]models.Promotion, int64, error) {
	return s.promotionRepo.List(filter)
}

// GetPromotion 获取活动
func (s *PromotionAdminService) GetPromotion(id uint) (*models.Promotion, error) {
	promotion, err := s.promotionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, ErrPromotionNotFound
	}
	return promotion, nil
}

// CreatePromotion 创建活动
func (s *PromotionAdminService) CreatePromotion(input PromotionInput) (*models.Promotion, error) {
	input.normalize()
	if err := input.Validate(); err != nil || !input.moneyValid() {
		return nil, ErrPromotionInvalid
	}
	promotion := &models.Promotion{
		Name:          input.Name,
		Description:   input.Description,
		StartAt:       input.StartAt,
		EndAt:         input.EndAt,
		PlannedTokens: input.PlannedTokens,
		Status:        input.Status,
		UnitPrice:     models.NewMoneyFromDecimal(input.UnitPrice.Decimal.Round(2)),
		UnitCost:      models.NewMoneyFromDecimal(input.UnitCost.Decimal.Round(2)),
	}
	if err := s.promotionRepo.Create(promotion); err != nil {
		return nil, err
	}
	logger.Infow("promotion_created", "promotion_id", promotion.ID, "name", promotion.Name)
	return promotion, nil
}

// UpdatePromotion 更新活动
func (s *PromotionAdminService) UpdatePromotion(id uint, input PromotionInput) (*models.Promotion, error) {
	promotion, err := s.GetPromotion(id)
	if err != nil {
		return nil, err
	}
	input.normalize()
	if err := input.Validate(); err != nil || !input.moneyValid() {
		return nil, ErrPromotionInvalid
	}
	promotion.Name = input.Name
	promotion.Description = input.Description
	promotion.StartAt = input.StartAt
	promotion.EndAt = input.EndAt
	promotion.PlannedTokens = input.PlannedTokens
	promotion.Status = input.Status
	promotion.UnitPrice = models.NewMoneyFromDecimal(input.UnitPrice.Decimal.Round(2))
	promotion.UnitCost = models.NewMoneyFromDecimal(input.UnitCost.Decimal.Round(2))
	if err := s.promotionRepo.Update(promotion); err != nil {
		return nil, err
	}
	_ = cache.DelDashboardStats(context.Background(), promotion.ID)
	return promotion, nil
}

// DeletePromotion 删除活动（软删除）
func (s *PromotionAdminService) DeletePromotion(id uint) error {
	if _, err := s.GetPromotion(id); err != nil {
		return err
	}
	return s.promotionRepo.Delete(id)
}

// ResetPromotion 清空活动数据并恢复库存，单事务完成
func (s *PromotionAdminService) ResetPromotion(ctx context.Context, id uint) error {
	if _, err := s.GetPromotion(id); err != nil {
		return err
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.assignmentRepo.WithTx(tx).DeleteByPromotion(id); err != nil {
			return err
		}
		if err := s.playRepo.WithTx(tx).DeleteByPromotion(id); err != nil {
			return err
		}
		if err := s.tokenRepo.WithTx(tx).DeleteByPromotion(id); err != nil {
			return err
		}
		if err := s.customerRepo.WithTx(tx).DeleteByPromotion(id); err != nil {
			return err
		}
		return s.prizeRepo.WithTx(tx).RestoreStock(id)
	})
	if err != nil {
		logger.Errorw("promotion_reset_failed", "promotion_id", id, "error", err)
		return ErrPromotionReset
	}
	if ctx == nil {
		ctx = context.Background()
	}
	_ = cache.DelLeaderboard(ctx, id)
	_ = cache.DelDashboardStats(ctx, id)
	logger.Warnw("promotion_reset", "promotion_id", id)
	return nil
}

// PrizeTypeInput 奖品创建/更新参数
type PrizeTypeInput struct {
	Name              string
	Description       string
	InitialStock      int64
	TargetProbability *float64
	Restriction       string
	SortOrder         int
}

func (in *PrizeTypeInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	restriction := strings.ToUpper(strings.TrimSpace(in.Restriction))
	switch gender.Category(restriction) {
	case gender.CategoryFemale, gender.CategoryMale:
		in.Restriction = restriction
	case "", gender.CategoryUnknown:
		in.Restriction = ""
	default:
		return ErrPrizeTypeInvalid
	}
	if in.TargetProbability != nil && (*in.TargetProbability < 0 || *in.TargetProbability > 1) {
		return ErrPrizeTypeInvalid
	}
	return validation.ValidateStruct(
		in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&in.InitialStock, validation.Min(int64(0))),
	)
}

// ListPrizeTypes 活动奖品列表（按判定顺序）
func (s *PromotionAdminService) ListPrizeTypes(promotionID uint) ([]models.PrizeType, error) {
	return s.prizeRepo.ListByPromotion(promotionID)
}

// CreatePrizeType 创建奖品，剩余库存初始化为初始库存
func (s *PromotionAdminService) CreatePrizeType(promotionID uint, input PrizeTypeInput) (*models.PrizeType, error) {
	if _, err := s.GetPromotion(promotionID); err != nil {
		return nil, err
	}
	if err := input.normalize(); err != nil {
		return nil, ErrPrizeTypeInvalid
	}
	prize := &models.PrizeType{
		PromotionID:       promotionID,
		Name:              input.Name,
		Description:       input.Description,
		InitialStock:      input.InitialStock,
		RemainingStock:    input.InitialStock,
		TargetProbability: input.TargetProbability,
		Restriction:       input.Restriction,
		SortOrder:         input.SortOrder,
	}
	if err := s.prizeRepo.Create(prize); err != nil {
		return nil, err
	}
	return prize, nil
}

// UpdatePrizeType 更新奖品展示信息，初始库存不可修改
func (s *PromotionAdminService) UpdatePrizeType(id uint, input PrizeTypeInput) (*models.PrizeType, error) {
	prize, err := s.prizeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if prize == nil {
		return nil, ErrPrizeTypeNotFound
	}
	input.InitialStock = prize.InitialStock
	if err := input.normalize(); err != nil {
		return nil, ErrPrizeTypeInvalid
	}
	prize.Name = input.Name
	prize.Description = input.Description
	prize.TargetProbability = input.TargetProbability
	prize.Restriction = input.Restriction
	prize.SortOrder = input.SortOrder
	prize.UpdatedAt = time.Now()
	if err := s.prizeRepo.Update(prize); err != nil {
		return nil, err
	}
	return prize, nil
}

// DeletePrizeType 删除奖品，已有中奖记录时拒绝
func (s *PromotionAdminService) DeletePrizeType(id uint) error {
	prize, err := s.prizeRepo.GetByID(id)
	if err != nil {
		return err
	}
	if prize == nil {
		return ErrPrizeTypeNotFound
	}
	counts, err := s.assignmentRepo.CountByPrizeType(prize.PromotionID)
	if err != nil {
		return err
	}
	for _, item := range counts {
		if item.PrizeTypeID == prize.ID && item.Assigned > 0 {
			return ErrPrizeTypeInvalid
		}
	}
	if err := s.prizeRepo.Delete(id); err != nil {
		return errors.Join(ErrPrizeTypeInvalid, err)
	}
	return nil
}

// SweepExpired 将已过结束时间的活动置为已结束
func (s *PromotionAdminService) SweepExpired(now time.Time) (int64, error) {
	ended, err := s.promotionRepo.EndExpired(now)
	if err != nil {
		logger.Errorw("promotion_sweep_failed", "error", err)
		return 0, err
	}
	if ended > 0 {
		logger.Infow("promotion_auto_ended", "count", ended)
	}
	return ended, nil
}
