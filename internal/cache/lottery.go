package cache

import (
	"context"
	"fmt"
	"time"
)

func leaderboardKey(promotionID uint) string {
	return fmt.Sprintf("leaderboard:%d", promotionID)
}

func dashboardStatsKey(promotionID uint) string {
	return fmt.Sprintf("dashboard:stats:%d", promotionID)
}

// GetLeaderboard 读取排行榜缓存
func GetLeaderboard(ctx context.Context, promotionID uint, dest interface{}) (bool, error) {
	if promotionID == 0 {
		return false, nil
	}
	return GetJSON(ctx, leaderboardKey(promotionID), dest)
}

// SetLeaderboard 写入排行榜缓存
func SetLeaderboard(ctx context.Context, promotionID uint, value interface{}, ttl time.Duration) error {
	if promotionID == 0 {
		return nil
	}
	return SetJSON(ctx, leaderboardKey(promotionID), value, ttl)
}

// DelLeaderboard 删除排行榜缓存
func DelLeaderboard(ctx context.Context, promotionID uint) error {
	if promotionID == 0 {
		return nil
	}
	return Del(ctx, leaderboardKey(promotionID))
}

// GetDashboardStats 读取仪表盘统计缓存
func GetDashboardStats(ctx context.Context, promotionID uint, dest interface{}) (bool, error) {
	if promotionID == 0 {
		return false, nil
	}
	return GetJSON(ctx, dashboardStatsKey(promotionID), dest)
}

// SetDashboardStats 写入仪表盘统计缓存
func SetDashboardStats(ctx context.Context, promotionID uint, value interface{}, ttl time.Duration) error {
	if promotionID == 0 {
		return nil
	}
	return SetJSON(ctx, dashboardStatsKey(promotionID), value, ttl)
}

// DelDashboardStats 删除仪表盘统计缓存
func DelDashboardStats(ctx context.Context, promotionID uint) error {
	if promotionID == 0 {
		return nil
	}
	return Del(ctx, dashboardStatsKey(promotionID))
}
