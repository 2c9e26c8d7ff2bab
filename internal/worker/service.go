package worker

import (
	"context"
	"errors"
	"time"

	"github.com/luckyscan/internal/config"
	"github.com/luckyscan/internal/logger"
	"github.com/luckyscan/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.PromotionAdminService != nil {
		go RunPromotionSweepLoop(ctx, s.consumer, sweepInterval(s.consumer))
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func sweepInterval(c *Consumer) time.Duration {
	seconds := 60
	if c != nil && c.Container != nil && c.Config != nil {
		seconds = c.Config.Lottery.Normalize().SweepIntervalSeconds
	}
	return time.Duration(seconds) * time.Second
}

// RunPromotionSweepLoop 周期性结束已过期的活动，ctx 取消后退出
func RunPromotionSweepLoop(ctx context.Context, c *Consumer, interval time.Duration) {
	if c == nil || c.Container == nil || c.PromotionAdminService == nil {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}
	runOnce := func() {
		if _, err := c.PromotionAdminService.SweepExpired(time.Now()); err != nil {
			logger.Warnw("worker_promotion_sweep_failed", "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
