package app

import (
	"os"
	"strings"
	"time"

	"github.com/luckyscan/internal/config"
	"github.com/luckyscan/internal/logger"

	"go.uber.org/zap"
)

// 启动模式
const (
	ModeAll    = "all"    // HTTP 与 Worker
	ModeAPI    = "api"    // 仅 HTTP
	ModeWorker = "worker" // 仅异步任务与巡检
)

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// normalizeOptions 补齐默认参数
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	opts.Mode = strings.ToLower(strings.TrimSpace(opts.Mode))
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	return opts
}
