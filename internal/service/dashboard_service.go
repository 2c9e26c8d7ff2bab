package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/luckyscan/internal/cache"
	"github.com/luckyscan/internal/models"
	"github.com/luckyscan/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	dashboardCacheTTL      = 45 * time.Second
	dashboardMaxSeriesDays = 90
)

// DashboardService 活动仪表盘服务
// 说明：聚合券码、参与、奖品与营收数据。
type DashboardService struct {
	repo          repository.DashboardRepository
	promotionRepo repository.PromotionRepository
	location      *time.Location
	now           func() time.Time
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository, promotionRepo repository.PromotionRepository, timezone string) *DashboardService {
	location := time.Local
	if tz := strings.TrimSpace(timezone); tz != "" {
		if parsed, err := time.LoadLocation(tz); err == nil {
			location = parsed
		}
	}
	return &DashboardService{repo: repo, promotionRepo: promotionRepo, location: location, now: time.Now}
}

// DashboardStats 活动统计
type DashboardStats struct {
	PromotionID     uint                  `json:"promotion_id"`
	TotalTokens     int64                 `json:"total_tokens"`
	UsedTokens      int64                 `json:"used_tokens"`
	AvailableTokens int64                 `json:"available_tokens"`
	TotalPrizes     int64                 `json:"total_prizes"`
	RemainingPrizes int64                 `json:"remaining_prizes"`
	Winners         int64                 `json:"winners"`
	Participants    int64                 `json:"participants"`
	Registered      int64                 `json:"registered"`
	Redeemed        int64                 `json:"redeemed"`
	WinRate         string                `json:"win_rate"`
	UsageRate       string                `json:"usage_rate"`
	Prizes          []DashboardPrizeStats `json:"prizes"`
}

// DashboardPrizeStats 单个奖品统计
type DashboardPrizeStats struct {
	PrizeTypeID    uint   `json:"prize_type_id"`
	Name           string `json:"name"`
	Restriction    string `json:"restriction"`
	InitialStock   int64  `json:"initial_stock"`
	RemainingStock int64  `json:"remaining_stock"`
	Assigned       int64  `json:"assigned"`
	Redeemed       int64  `json:"redeemed"`
}

// DashboardRevenue 营收统计
type DashboardRevenue struct {
	PromotionID       uint   `json:"promotion_id"`
	UnitsSold         int64  `json:"units_sold"`
	UnitPrice         string `json:"unit_price"`
	UnitCost          string `json:"unit_cost"`
	Revenue           string `json:"revenue"`
	Cost              string `json:"cost"`
	GrossMargin       string `json:"gross_margin"`
	MarginPercent     string `json:"margin_percent"`
	ActiveDays        int64  `json:"active_days"`
	DailyAverageUnits string `json:"daily_average_units"`
	DailyAverageSales string `json:"daily_average_revenue"`
}

// DashboardDailyPoint 每日销售点
type DashboardDailyPoint struct {
	Date            string `json:"date"`
	Plays           int64  `json:"plays"`
	Winners         int64  `json:"winners"`
	Revenue         string `json:"revenue"`
	VsYesterday     int64  `json:"vs_yesterday"`
	VsYesterdayRate string `json:"vs_yesterday_rate"`
}

// DashboardHourlyPoint 按小时分布点
type DashboardHourlyPoint struct {
	Hour  int   `json:"hour"`
	Plays int64 `json:"plays"`
}

// GetStats 获取活动统计
func (s *DashboardService) GetStats(ctx context.Context, promotionID uint, forceRefresh bool) (*DashboardStats, error) {
	if _, err := s.loadPromotion(promotionID); err != nil {
		return nil, err
	}
	if !forceRefresh {
		var cached DashboardStats
		hit, cacheErr := cache.GetDashboardStats(ctx, promotionID, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	overview, err := s.repo.GetOverview(promotionID)
	if err != nil {
		return nil, err
	}
	prizeRows, err := s.repo.GetPrizeBreakdown(promotionID)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		PromotionID:     promotionID,
		TotalTokens:     overview.TotalTokens,
		UsedTokens:      overview.UsedTokens,
		AvailableTokens: overview.TotalTokens - overview.UsedTokens,
		TotalPrizes:     overview.PrizesInitial,
		RemainingPrizes: overview.PrizesRemaining,
		Winners:         overview.Winners,
		Participants:    overview.Participants,
		Registered:      overview.Customers,
		Redeemed:        overview.PrizesRedeemed,
		WinRate:         formatPercentValue(ratioPercent(overview.Winners, overview.TotalPlays)),
		UsageRate:       formatPercentValue(ratioPercent(overview.UsedTokens, overview.TotalTokens)),
		Prizes:          make([]DashboardPrizeStats, 0, len(prizeRows)),
	}
	for _, row := range prizeRows {
		stats.Prizes = append(stats.Prizes, DashboardPrizeStats{
			PrizeTypeID:    row.PrizeTypeID,
			Name:           row.Name,
			Restriction:    row.Restriction,
			InitialStock:   row.InitialStock,
			RemainingStock: row.RemainingStock,
			Assigned:       row.Assigned,
			Redeemed:       row.Redeemed,
		})
	}

	_ = cache.SetDashboardStats(ctx, promotionID, stats, dashboardCacheTTL)
	return stats, nil
}

// GetRevenue 营收统计：售出件数即已使用券码数
func (s *DashboardService) GetRevenue(promotionID uint) (*DashboardRevenue, error) {
	promotion, err := s.loadPromotion(promotionID)
	if err != nil {
		return nil, err
	}
	overview, err := s.repo.GetOverview(promotionID)
	if err != nil {
		return nil, err
	}

	units := overview.UsedTokens
	revenue := promotion.UnitPrice.MulInt(units).Decimal
	cost := promotion.UnitCost.MulInt(units).Decimal
	margin := revenue.Sub(cost)
	marginPercent := decimal.Zero
	if revenue.GreaterThan(decimal.Zero) {
		marginPercent = margin.Div(revenue).Mul(decimal.NewFromInt(100))
	}
	days := activeDays(promotion, s.now())
	dayCount := decimal.NewFromInt(days)

	return &DashboardRevenue{
		PromotionID:       promotionID,
		UnitsSold:         units,
		UnitPrice:         promotion.UnitPrice.Decimal.StringFixed(2),
		UnitCost:          promotion.UnitCost.Decimal.StringFixed(2),
		Revenue:           revenue.StringFixed(2),
		Cost:              cost.StringFixed(2),
		GrossMargin:       margin.StringFixed(2),
		MarginPercent:     marginPercent.StringFixed(2),
		ActiveDays:        days,
		DailyAverageUnits: decimal.NewFromInt(units).Div(dayCount).StringFixed(2),
		DailyAverageSales: revenue.Div(dayCount).StringFixed(2),
	}, nil
}

// GetDailySeries 最近 days 天的每日参与数与环比
func (s *DashboardService) GetDailySeries(promotionID uint, days int) ([]DashboardDailyPoint, error) {
	promotion, err := s.loadPromotion(promotionID)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 7
	}
	if days > dashboardMaxSeriesDays {
		return nil, ErrDashboardRangeInvalid
	}
	localNow := s.now().In(s.location)
	todayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, s.location)
	// 多取一天用于计算第一天的环比
	startAt := todayStart.AddDate(0, 0, -days)
	endAt := todayStart.AddDate(0, 0, 1)

	rows, err := s.repo.GetDailyPlays(promotionID, startAt, endAt)
	if err != nil {
		return nil, err
	}
	rowMap := make(map[string]repository.DashboardDailyPlayRow, len(rows))
	for _, row := range rows {
		rowMap[strings.TrimSpace(row.Day)] = row
	}

	points := make([]DashboardDailyPoint, 0, days)
	previous := rowMap[startAt.Format("2006-01-02")].Plays
	for cursor := startAt.AddDate(0, 0, 1); cursor.Before(endAt); cursor = cursor.AddDate(0, 0, 1) {
		day := cursor.Format("2006-01-02")
		row := rowMap[day]
		delta := row.Plays - previous
		points = append(points, DashboardDailyPoint{
			Date:            day,
			Plays:           row.Plays,
			Winners:         row.Winners,
			Revenue:         promotion.UnitPrice.MulInt(row.Plays).Decimal.StringFixed(2),
			VsYesterday:     delta,
			VsYesterdayRate: formatPercentValue(ratioPercent(delta, previous)),
		})
		previous = row.Plays
	}
	return points, nil
}

// GetHourlyDistribution 24 小时参与分布
func (s *DashboardService) GetHourlyDistribution(promotionID uint) ([]DashboardHourlyPoint, error) {
	if _, err := s.loadPromotion(promotionID); err != nil {
		return nil, err
	}
	rows, err := s.repo.GetHourlyPlays(promotionID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	points := make([]DashboardHourlyPoint, 24)
	for hour := range points {
		points[hour].Hour = hour
	}
	for _, row := range rows {
		if row.Hour < 0 || row.Hour > 23 {
			continue
		}
		points[row.Hour].Plays += row.Plays
	}
	return points, nil
}

func (s *DashboardService) loadPromotion(promotionID uint) (*models.Promotion, error) {
	if s == nil || s.repo == nil || s.promotionRepo == nil {
		return nil, fmt.Errorf("dashboard service unavailable")
	}
	promotion, err := s.promotionRepo.GetByID(promotionID)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, ErrPromotionNotFound
	}
	return promotion, nil
}

// activeDays 活动已进行的天数，至少为 1
func activeDays(promotion *models.Promotion, now time.Time) int64 {
	if promotion == nil || now.Before(promotion.StartAt) {
		return 1
	}
	end := now
	if promotion.EndAt.Before(end) {
		end = promotion.EndAt
	}
	days := int64(end.Sub(promotion.StartAt).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

func ratioPercent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func formatPercentValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
