package app

import (
	"errors"

	"github.com/luckyscan/internal/config"
	"github.com/luckyscan/internal/logger"
	"github.com/luckyscan/internal/provider"
	"github.com/luckyscan/internal/router"
	"github.com/luckyscan/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if !isValidMode(mode) {
		return nil, errors.New("unknown mode: " + mode)
	}

	container := provider.NewContainer(cfg)
	if err := container.SyncStaffRoles(); err != nil {
		logger.Warnw("app_sync_staff_roles_failed", "error", err)
	}

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		services = append(services, NewHTTPService(addr, engine))
	}

	// 初始化 Worker 服务，队列关闭时仅保留活动过期巡检
	if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		if cfg.Queue.Enabled {
			workerService, err := worker.NewService(&cfg.Queue, consumer)
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		} else {
			logger.Warnw("app_queue_disabled", "fallback", "in_process_sweeper")
			services = append(services, NewSweepService(consumer, cfg.Lottery))
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	runner := NewRunner(services...)
	runner.onStop = func() {
		if container.QueueClient != nil {
			if err := container.QueueClient.Close(); err != nil {
				logger.Warnw("app_queue_client_close_failed", "error", err)
			}
		}
	}
	return runner, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}

func isValidMode(mode string) bool {
	switch mode {
	case ModeAll, ModeAPI, ModeWorker:
		return true
	default:
		return false
	}
}
