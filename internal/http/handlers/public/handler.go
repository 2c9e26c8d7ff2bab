package public

import "github.com/luckyscan/internal/provider"

// Handler 公开接口处理器入口
// 说明：该处理器用于扫码落地页、注册、抽奖与排行榜等顾客侧 API。
type Handler struct {
	*provider.Container
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
