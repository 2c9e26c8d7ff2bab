package service

import (
	"context"
	"errors"
	"time"

	"github.com/luckyscan/internal/cache"
	"github.com/luckyscan/internal/logger"
	"github.com/luckyscan/internal/models"
	"github.com/luckyscan/internal/repository"

	"gorm.io/gorm"
)

// PrizeRedeemService 线下兑奖服务
type PrizeRedeemService struct {
	assignmentRepo repository.PrizeAssignmentRepository
	now            func() time.Time
}

// NewPrizeRedeemService 创建兑奖服务
func NewPrizeRedeemService(assignmentRepo repository.PrizeAssignmentRepository) *PrizeRedeemService {
	return &PrizeRedeemService{
		assignmentRepo: assignmentRepo,
		now:            time.Now,
	}
}

// LookupPrize 按兑奖码查询中奖凭证
func (s *PrizeRedeemService) LookupPrize(code string) (*models.PrizeAssignment, error) {
	if s == nil || s.assignmentRepo == nil {
		return nil, ErrRedeemFailed
	}
	code = repository.NormalizePrizeCode(code)
	if code == "" {
		return nil, ErrPrizeCodeNotFound
	}
	assignment, err := s.assignmentRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, ErrPrizeCodeNotFound
	}
	return assignment, nil
}

// RedeemPrize 核销兑奖码，首次核销生效，重复核销返回首次核销信息
func (s *PrizeRedeemService) RedeemPrize(ctx context.Context, code string, staffID uint) (*models.PrizeAssignment, error) {
	if s == nil || s.assignmentRepo == nil {
		return nil, ErrRedeemFailed
	}
	code = repository.NormalizePrizeCode(code)
	if code == "" {
		return nil, ErrPrizeCodeNotFound
	}

	now := s.now()
	var promotionID uint
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.assignmentRepo.WithTx(tx)
		assignment, err := repo.GetByCodeForUpdate(code)
		if err != nil {
			return err
		}
		if assignment == nil {
			return ErrPrizeCodeNotFound
		}
		promotionID = assignment.PromotionID
		if assignment.IsRedeemed() {
			return ErrPrizeAlreadyClaimed
		}
		rows, err := repo.MarkRedeemed(assignment.ID, staffID, now)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrPrizeAlreadyClaimed
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPrizeAlreadyClaimed) {
			original, lookupErr := s.assignmentRepo.GetByCode(code)
			if lookupErr != nil {
				return nil, lookupErr
			}
			logger.Infow("prize_redeem_duplicate", "prize_code", code, "staff_id", staffID)
			return original, &AlreadyRedeemedError{Assignment: original}
		}
		if errors.Is(err, ErrPrizeCodeNotFound) {
			return nil, err
		}
		logger.Errorw("prize_redeem_failed", "prize_code", code, "staff_id", staffID, "error", err)
		return nil, ErrRedeemFailed
	}

	assignment, err := s.assignmentRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	logger.ForPromotion(promotionID, "prize_code", code).Infow("prize_redeemed", "staff_id", staffID)
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cache.DelDashboardStats(ctx, promotionID); err != nil {
		logger.ForPromotion(promotionID, "prize_code", code).Warnw("dashboard_cache_invalidate_failed", "error", err)
	}
	return assignment, nil
}

// ListAssignments 中奖凭证列表
func (s *PrizeRedeemService) ListAssignments(filter repository.PrizeAssignmentListFilter) ([]models.PrizeAssignment, int64, error) {
	if s == nil || s.assignmentRepo == nil {
		return nil, 0, ErrRedeemFailed
	}
	return s.assignmentRepo.List(filter)
}
