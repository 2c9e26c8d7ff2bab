package worker

import (
	"context"
	"encoding/json"

	"github.com/luckyscan/internal/logger"
	"github.com/luckyscan/internal/provider"
	"github.com/luckyscan/internal/queue"
	"github.com/luckyscan/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskLeaderboardRefresh, c.handleLeaderboardRefresh)
	mux.HandleFunc(queue.TaskPrizeStockAlert, c.handlePrizeStockAlert)
	mux.HandleFunc(queue.TaskPlayWinnerNotify, c.handlePlayWinnerNotify)
}

func (c *Consumer) handleLeaderboardRefresh(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_leaderboard_refresh_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.LeaderboardRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_leaderboard_refresh_unmarshal_failed", "error", err)
		return err
	}
	if payload.PromotionID == 0 {
		logger.Debugw("worker_leaderboard_refresh_skip_invalid_payload", "promotion_id", payload.PromotionID)
		return nil
	}
	if c.LeaderboardService == nil {
		logger.Warnw("worker_leaderboard_refresh_skip_service_nil", "promotion_id", payload.PromotionID)
		return nil
	}
	entries, err := c.LeaderboardService.Refresh(ctx, payload.PromotionID)
	if err != nil {
		logger.Warnw("worker_leaderboard_refresh_failed", "promotion_id", payload.PromotionID, "error", err)
		return err
	}
	logger.Debugw("worker_leaderboard_refreshed", "promotion_id", payload.PromotionID, "entries", len(entries))
	return nil
}

func (c *Consumer) handlePrizeStockAlert(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_prize_stock_alert_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PrizeStockAlertPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_prize_stock_alert_unmarshal_failed", "error", err)
		return err
	}
	if payload.PrizeTypeID == 0 {
		logger.Debugw("worker_prize_stock_alert_skip_invalid_payload", "prize_type_id", payload.PrizeTypeID)
		return nil
	}
	prize, err := c.PrizeTypeRepo.GetByID(payload.PrizeTypeID)
	if err != nil {
		logger.Warnw("worker_prize_stock_alert_fetch_failed", "prize_type_id", payload.PrizeTypeID, "error", err)
		return err
	}
	if prize == nil {
		logger.Debugw("worker_prize_stock_alert_skip_prize_not_found", "prize_type_id", payload.PrizeTypeID)
		return nil
	}
	logger.Warnw("prize_stock_alert",
		"promotion_id", prize.PromotionID,
		"prize_type_id", prize.ID,
		"prize_name", prize.Name,
		"remaining_stock", prize.RemainingStock,
		"initial_stock", prize.InitialStock,
	)
	return nil
}

func (c *Consumer) handlePlayWinnerNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_winner_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PlayWinnerNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_winner_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.PrizeCode == "" {
		logger.Debugw("worker_winner_notify_skip_invalid_payload", "play_id", payload.PlayID)
		return nil
	}
	assignment, err := c.PrizeAssignmentRepo.GetByCode(payload.PrizeCode)
	if err != nil {
		logger.Warnw("worker_winner_notify_fetch_failed", "prize_code", payload.PrizeCode, "error", err)
		return err
	}
	if assignment == nil {
		logger.Debugw("worker_winner_notify_skip_assignment_not_found", "prize_code", payload.PrizeCode)
		return nil
	}
	winner := ""
	if assignment.Customer != nil {
		winner = service.DisplayName(assignment.Customer.FirstName, assignment.Customer.LastName)
	}
	prizeName := ""
	if assignment.PrizeType != nil {
		prizeName = assignment.PrizeType.Name
	}
	logger.Infow("prize_winner",
		"promotion_id", assignment.PromotionID,
		"play_id", payload.PlayID,
		"prize_code", assignment.PrizeCode,
		"prize_name", prizeName,
		"winner", winner,
	)
	return nil
}
