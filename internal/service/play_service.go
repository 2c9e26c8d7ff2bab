package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/luckyscan/internal/cache"
	"github.com/luckyscan/internal/config"
	"github.com/luckyscan/internal/engine"
	"github.com/luckyscan/internal/gender"
	"github.com/luckyscan/internal/logger"
	"github.com/luckyscan/internal/models"
	"github.com/luckyscan/internal/queue"
	"github.com/luckyscan/internal/repository"

	"gorm.io/gorm"
)

// decideFunc 判定函数签名，默认使用 engine.DetermineOutcome
type decideFunc func(snapshot engine.Snapshot, classifier gender.Classifier, rng engine.RandomSource) engine.Decision

// PlayService 抽奖事务服务
type PlayService struct {
	promotionRepo  repository.PromotionRepository
	prizeRepo      repository.PrizeTypeRepository
	tokenRepo      repository.TokenRepository
	customerRepo   repository.CustomerRepository
	playRepo       repository.PlayRepository
	assignmentRepo repository.PrizeAssignmentRepository
	classifier     gender.Classifier
	queueClient    *queue.Client
	lotteryCfg     config.LotteryConfig
	newRandom      func() engine.RandomSource
	decide         decideFunc
	now            func() time.Time
}

// NewPlayService 创建抽奖服务
func NewPlayService(
	promotionRepo repository.PromotionRepository,
	prizeRepo repository.PrizeTypeRepository,
	tokenRepo repository.TokenRepository,
	customerRepo repository.CustomerRepository,
	playRepo repository.PlayRepository,
	assignmentRepo repository.PrizeAssignmentRepository,
	classifier gender.Classifier,
	queueClient *queue.Client,
	lotteryCfg config.LotteryConfig,
) *PlayService {
	return &PlayService{
		promotionRepo:  promotionRepo,
		prizeRepo:      prizeRepo,
		tokenRepo:      tokenRepo,
		customerRepo:   customerRepo,
		playRepo:       playRepo,
		assignmentRepo: assignmentRepo,
		classifier:     classifier,
		queueClient:    queueClient,
		lotteryCfg:     lotteryCfg.Normalize(),
		decide:         engine.DetermineOutcome,
		now:            time.Now,
	}
}

// SetRandomSourceFactory 设置每次抽奖使用的随机源，nil 表示使用进程级随机源
func (s *PlayService) SetRandomSourceFactory(factory func() engine.RandomSource) {
	if s == nil {
		return
	}
	s.newRandom = factory
}

// PlayInput 抽奖请求
type PlayInput struct {
	TokenCode   string
	PromotionID uint
	CustomerID  uint
}

// PlayResult 抽奖结果
type PlayResult struct {
	IsWinner   bool
	Downgraded bool
	Play       *models.Play
	Assignment *models.PrizeAssignment
	PrizeType  *models.PrizeType
	Decision   engine.Decision
}

// playState 事务内收集的数据，提交后用于日志与异步任务
type playState struct {
	token          *models.Token
	promotion      *models.Promotion
	customer       *models.Customer
	prize          *models.PrizeType
	snapshot       engine.Snapshot
	decision       engine.Decision
	downgraded     bool
	play           *models.Play
	assignment     *models.PrizeAssignment
	remainingAfter int64
}

// Play 执行一次完整的抽奖事务：校验、判定、扣库存、落库
func (s *PlayService) Play(ctx context.Context, input PlayInput) (*PlayResult, error) {
	if s == nil || s.tokenRepo == nil {
		return nil, ErrPlayFailed
	}
	code := repository.NormalizeTokenCode(input.TokenCode)
	if code == "" {
		return nil, rejectPlay(models.PlayRejectTokenNotFound)
	}

	state := &playState{}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		return s.playInTx(tx, code, input, state)
	})
	if err != nil {
		if reason := PlayRejectReasonOf(err); reason != models.PlayRejectNone {
			logger.Infow("play_rejected",
				"token", code,
				"promotion_id", input.PromotionID,
				"customer_id", input.CustomerID,
				"reason", string(reason),
			)
			return nil, err
		}
		logger.Errorw("play_transaction_failed",
			"token", code,
			"promotion_id", input.PromotionID,
			"customer_id", input.CustomerID,
			"error", err,
		)
		return nil, ErrPlayFailed
	}

	s.logCommitted(state)
	s.afterCommit(ctx, state)

	return &PlayResult{
		IsWinner:   state.assignment != nil,
		Downgraded: state.downgraded,
		Play:       state.play,
		Assignment: state.assignment,
		PrizeType:  state.prize,
		Decision:   state.decision,
	}, nil
}

func (s *PlayService) playInTx(tx *gorm.DB, code string, input PlayInput, state *playState) error {
	tokenRepo := s.tokenRepo.WithTx(tx)
	promotionRepo := s.promotionRepo.WithTx(tx)
	prizeRepo := s.prizeRepo.WithTx(tx)
	customerRepo := s.customerRepo.WithTx(tx)
	playRepo := s.playRepo.WithTx(tx)
	assignmentRepo := s.assignmentRepo.WithTx(tx)
	now := s.now()

	// 校验
	token, err := tokenRepo.GetByCodeForUpdate(code)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	if token == nil {
		return rejectPlay(models.PlayRejectTokenNotFound)
	}
	if token.Status != models.TokenStatusAvailable {
		return rejectPlay(models.PlayRejectTokenUsed)
	}
	if input.PromotionID != 0 && token.PromotionID != input.PromotionID {
		return rejectPlay(models.PlayRejectTokenMismatch)
	}
	promotion, err := promotionRepo.GetByID(token.PromotionID)
	if err != nil {
		return fmt.Errorf("load promotion: %w", err)
	}
	if !promotion.IsOpenAt(now) {
		return rejectPlay(models.PlayRejectPromotionInactive)
	}
	customer, err := customerRepo.GetByID(input.CustomerID)
	if err != nil {
		return fmt.Errorf("load customer: %w", err)
	}
	if customer == nil || customer.PromotionID != token.PromotionID {
		return rejectPlay(models.PlayRejectCustomerNotFound)
	}
	state.token = token
	state.promotion = promotion
	state.customer = customer

	// 判定
	snapshot, prizes, err := s.loadSnapshot(token.PromotionID, promotion, customer, tokenRepo, prizeRepo, assignmentRepo)
	if err != nil {
		return err
	}
	state.snapshot = snapshot
	var rng engine.RandomSource
	if s.newRandom != nil {
		rng = s.newRandom()
	}
	decision := s.decide(snapshot, s.classifier, rng)
	state.decision = decision

	// 扣减库存
	var prize *models.PrizeType
	if decision.Win {
		prize = findPrize(prizes, decision.PrizeTypeID)
		rows, err := prizeRepo.ReserveStock(decision.PrizeTypeID)
		if err != nil {
			return fmt.Errorf("reserve stock: %w", err)
		}
		if rows == 0 || prize == nil {
			state.downgraded = true
			prize = nil
			logger.Infow("play_reservation_lost",
				"promotion_id", token.PromotionID,
				"token", token.Code,
				"prize_type_id", decision.PrizeTypeID,
			)
		} else {
			state.remainingAfter = prize.RemainingStock - 1
			prize.RemainingStock = state.remainingAfter
		}
	}

	// 落库
	play := &models.Play{
		PromotionID:    token.PromotionID,
		TokenID:        token.ID,
		CustomerID:     customer.ID,
		IsWinner:       prize != nil,
		Outcome:        string(decision.Outcome),
		Downgraded:     state.downgraded,
		Category:       string(decision.Category),
		Fatigue:        decision.Modifiers.Fatigue,
		Pacing:         decision.Modifiers.Pacing,
		GlobalModifier: decision.Modifiers.Global,
		Draw:           decision.Draw,
		WinMass:        decision.WinMass,
		CreatedAt:      now,
	}
	if prize != nil {
		prizeID := prize.ID
		play.PrizeTypeID = &prizeID
	} else if state.downgraded {
		play.Outcome = string(engine.OutcomeLoss)
	}
	if err := playRepo.Create(play); err != nil {
		return fmt.Errorf("create play: %w", err)
	}
	state.play = play

	if prize != nil {
		prizeCode, err := generatePrizeCode(token.Code)
		if err != nil {
			return fmt.Errorf("generate prize code: %w", err)
		}
		assignment := &models.PrizeAssignment{
			PromotionID: token.PromotionID,
			PlayID:      play.ID,
			CustomerID:  customer.ID,
			PrizeTypeID: prize.ID,
			PrizeCode:   prizeCode,
			CreatedAt:   now,
		}
		if err := assignmentRepo.Create(assignment); err != nil {
			return fmt.Errorf("create prize assignment: %w", err)
		}
		assignment.PrizeType = prize
		state.assignment = assignment
		state.prize = prize
	}

	rows, err := tokenRepo.MarkUsed(token.ID, now)
	if err != nil {
		return fmt.Errorf("mark token used: %w", err)
	}
	if rows == 0 {
		return rejectPlay(models.PlayRejectTokenUsed)
	}
	if _, err := customerRepo.IncrementPlay(customer.ID, prize != nil, now); err != nil {
		return fmt.Errorf("increment customer plays: %w", err)
	}
	return nil
}

// loadSnapshot 在同一事务内读取判定所需的券码、库存与中奖计数
func (s *PlayService) loadSnapshot(
	promotionID uint,
	promotion *models.Promotion,
	customer *models.Customer,
	tokenRepo repository.TokenRepository,
	prizeRepo repository.PrizeTypeRepository,
	assignmentRepo repository.PrizeAssignmentRepository,
) (engine.Snapshot, []models.PrizeType, error) {
	prizes, err := prizeRepo.ListByPromotion(promotionID)
	if err != nil {
		return engine.Snapshot{}, nil, fmt.Errorf("load prizes: %w", err)
	}
	counts, err := tokenRepo.CountByPromotion(promotionID)
	if err != nil {
		return engine.Snapshot{}, nil, fmt.Errorf("count tokens: %w", err)
	}
	assigned, err := assignmentRepo.CountByPromotion(promotionID)
	if err != nil {
		return engine.Snapshot{}, nil, fmt.Errorf("count assignments: %w", err)
	}

	totalTokens := counts.Total
	if promotion != nil && promotion.PlannedTokens > totalTokens {
		totalTokens = promotion.PlannedTokens
	}
	candidates := make([]engine.PrizeCandidate, 0, len(prizes))
	for _, prize := range prizes {
		candidates = append(candidates, engine.PrizeCandidate{
			ID:             prize.ID,
			InitialStock:   prize.InitialStock,
			RemainingStock: prize.RemainingStock,
			Restriction:    gender.ParseCategory(prize.Restriction),
		})
	}
	return engine.Snapshot{
		TotalTokens:    totalTokens,
		UsedTokens:     counts.Used,
		PrizesAssigned: assigned,
		Prizes:         candidates,
		Customer: engine.CustomerHistory{
			TotalPlays: customer.TotalPlays,
			TotalWins:  customer.TotalWins,
			Category:   gender.ParseCategory(customer.Gender),
			FirstName:  customer.FirstName,
		},
	}, prizes, nil
}

func findPrize(prizes []models.PrizeType, id uint) *models.PrizeType {
	for i := range prizes {
		if prizes[i].ID == id {
			return &prizes[i]
		}
	}
	return nil
}

func (s *PlayService) logCommitted(state *playState) {
	if state == nil || state.play == nil {
		return
	}
	decision := state.decision
	logger.Infow("play_committed",
		"promotion_id", state.play.PromotionID,
		"play_id", state.play.ID,
		"customer_id", state.play.CustomerID,
		"is_winner", state.play.IsWinner,
		"outcome", decision.Outcome,
		"downgraded", state.downgraded,
		"category", decision.Category,
		"fatigue", decision.Modifiers.Fatigue,
		"pacing", decision.Modifiers.Pacing,
		"global_modifier", decision.Modifiers.Global,
		"draw", decision.Draw,
		"win_mass", decision.WinMass,
		"eligible_count", decision.EligibleCount,
		"tokens_remaining", decision.TokensRemaining,
		"prizes_assigned", state.snapshot.PrizesAssigned,
	)
}

// afterCommit 提交后刷新缓存并推送异步任务，失败只记录日志
func (s *PlayService) afterCommit(ctx context.Context, state *playState) {
	if state == nil || state.play == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	promotionID := state.play.PromotionID
	log := logger.ForPromotion(promotionID, "play_id", state.play.ID)
	if err := cache.DelLeaderboard(ctx, promotionID); err != nil {
		log.Warnw("leaderboard_cache_invalidate_failed", "error", err)
	}
	if err := cache.DelDashboardStats(ctx, promotionID); err != nil {
		log.Warnw("dashboard_cache_invalidate_failed", "error", err)
	}
	if err := s.queueClient.EnqueueLeaderboardRefresh(queue.LeaderboardRefreshPayload{PromotionID: promotionID}); err != nil {
		logger.Warnw("leaderboard_refresh_enqueue_failed", "promotion_id", promotionID, "error", err)
	}
	if state.assignment == nil || state.prize == nil {
		return
	}
	if err := s.queueClient.EnqueuePlayWinnerNotify(queue.PlayWinnerNotifyPayload{
		PromotionID:  promotionID,
		PlayID:       state.play.ID,
		AssignmentID: state.assignment.ID,
		PrizeCode:    state.assignment.PrizeCode,
	}); err != nil {
		logger.Warnw("winner_notify_enqueue_failed", "play_id", state.play.ID, "error", err)
	}
	if state.remainingAfter <= int64(s.lotteryCfg.StockAlertThreshold) {
		logger.Warnw("prize_stock_low",
			"promotion_id", promotionID,
			"prize_type_id", state.prize.ID,
			"remaining_stock", state.remainingAfter,
		)
		if err := s.queueClient.EnqueuePrizeStockAlert(queue.PrizeStockAlertPayload{
			PromotionID: promotionID,
			PrizeTypeID: state.prize.ID,
		}); err != nil {
			logger.Warnw("prize_stock_alert_enqueue_failed", "prize_type_id", state.prize.ID, "error", err)
		}
	}
}

// IsPlayRejected 判断错误是否为校验拒绝
func IsPlayRejected(err error) bool {
	var rejected *PlayRejectedError
	return errors.As(err, &rejected)
}
