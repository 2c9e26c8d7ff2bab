package queue

import (
	"encoding/json"

	"github.com/luckyscan/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskLeaderboardRefresh 排行榜缓存刷新任务
	TaskLeaderboardRefresh = constants.TaskLeaderboardRefresh
	// TaskPrizeStockAlert 奖品库存预警任务
	TaskPrizeStockAlert = constants.TaskPrizeStockAlert
	// TaskPlayWinnerNotify 中奖通知任务
	TaskPlayWinnerNotify = constants.TaskPlayWinnerNotify
)

// LeaderboardRefreshPayload 排行榜刷新载荷
type LeaderboardRefreshPayload struct {
	PromotionID uint `json:"promotion_id"`
}

// PrizeStockAlertPayload 库存预警载荷
type PrizeStockAlertPayload struct {
	PromotionID uint `json:"promotion_id"`
	PrizeTypeID uint `json:"prize_type_id"`
}

// PlayWinnerNotifyPayload 中奖通知载荷
type PlayWinnerNotifyPayload struct {
	PromotionID  uint   `json:"promotion_id"`
	PlayID       uint   `json:"play_id"`
	AssignmentID uint   `json:"assignment_id"`
	PrizeCode    string `json:"prize_code"`
}

// NewLeaderboardRefreshTask 创建排行榜刷新任务
func NewLeaderboardRefreshTask(payload LeaderboardRefreshPayload) (*asynq.Task, error) {
	return newJSONTask(TaskLeaderboardRefresh, payload)
}

// NewPrizeStockAlertTask 创建库存预警任务
func NewPrizeStockAlertTask(payload PrizeStockAlertPayload) (*asynq.Task, error) {
	return newJSONTask(TaskPrizeStockAlert, payload)
}

// NewPlayWinnerNotifyTask 创建中奖通知任务
func NewPlayWinnerNotifyTask(payload PlayWinnerNotifyPayload) (*asynq.Task, error) {
	return newJSONTask(TaskPlayWinnerNotify, payload)
}

func newJSONTask(taskType string, payload interface{}) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, body), nil
}
