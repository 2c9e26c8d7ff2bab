package queue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/luckyscan/internal/config"
	"github.com/luckyscan/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
	// CriticalQueue 高优先级队列名称
	CriticalQueue = constants.QueueCritical

	leaderboardRefreshDebounce = 5 * time.Second
)

// Client 队列客户端封装
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}, nil
	}
	opt := buildRedisOpt(cfg)
	client := asynq.NewClient(opt)
	return &Client{
		client:       client,
		enabled:      true,
		defaultQueue: DefaultQueue,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueLeaderboardRefresh 推送排行榜刷新任务，短时间内同一活动只保留一个任务
func (c *Client) EnqueueLeaderboardRefresh(payload LeaderboardRefreshPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewLeaderboardRefreshTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(task,
		asynq.Queue(c.defaultQueue),
		asynq.TaskID(fmt.Sprintf("leaderboard:%d:%d", payload.PromotionID, time.Now().Unix()/int64(leaderboardRefreshDebounce.Seconds()))),
		asynq.ProcessIn(leaderboardRefreshDebounce),
		asynq.MaxRetry(1),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// EnqueuePrizeStockAlert 推送库存预警任务
func (c *Client) EnqueuePrizeStockAlert(payload PrizeStockAlertPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewPrizeStockAlertTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(task, asynq.Queue(CriticalQueue), asynq.MaxRetry(3))
	return err
}

// EnqueuePlayWinnerNotify 推送中奖通知任务
func (c *Client) EnqueuePlayWinnerNotify(payload PlayWinnerNotifyPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewPlayWinnerNotifyTask(payload)
	if err != nil {
		return err
	}
	options := append([]asynq.Option{asynq.Queue(c.defaultQueue)}, opts...)
	_, err = c.client.Enqueue(task, options...)
	return err
}

// BuildServerConfig 构建 worker 服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
