package app

import (
	"context"
	"time"

	"github.com/luckyscan/internal/config"
	"github.com/luckyscan/internal/worker"
)

// SweepService 队列关闭时在进程内巡检过期活动
type SweepService struct {
	consumer *worker.Consumer
	interval time.Duration
	done     chan struct{}
}

// NewSweepService 创建巡检服务
func NewSweepService(consumer *worker.Consumer, lotteryCfg config.LotteryConfig) *SweepService {
	return &SweepService{
		consumer: consumer,
		interval: time.Duration(lotteryCfg.Normalize().SweepIntervalSeconds) * time.Second,
		done:     make(chan struct{}),
	}
}

// Name 服务名称
func (s *SweepService) Name() string {
	return "sweeper"
}

// Start 阻塞运行直到 ctx 取消
func (s *SweepService) Start(ctx context.Context) error {
	defer close(s.done)
	worker.RunPromotionSweepLoop(ctx, s.consumer, s.interval)
	<-ctx.Done()
	return nil
}

// Stop 等待巡检循环退出
func (s *SweepService) Stop(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
