package repository

import (
	"fmt"
	"time"

	"github.com/luckyscan/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview(promotionID uint) (DashboardOverviewRow, error)
	GetPrizeBreakdown(promotionID uint) ([]DashboardPrizeRow, error)
	GetDailyPlays(promotionID uint, startAt, endAt time.Time) ([]DashboardDailyPlayRow, error)
	GetHourlyPlays(promotionID uint, startAt, endAt time.Time) ([]DashboardHourlyPlayRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	TotalTokens     int64
	UsedTokens      int64
	TotalPlays      int64
	Winners         int64
	Customers       int64
	Participants    int64
	PrizesInitial   int64
	PrizesRemaining int64
	PrizesAssigned  int64
	PrizesRedeemed  int64
	FirstPlayAt     *time.Time
	LastPlayAt      *time.Time
}

// DashboardPrizeRow 单个奖品统计
type DashboardPrizeRow struct {
	PrizeTypeID    uint
	Name           string
	Restriction    string
	InitialStock   int64
	RemainingStock int64
	Assigned       int64
	Redeemed       int64
}

// DashboardDailyPlayRow 每日参与统计
type DashboardDailyPlayRow struct {
	Day     string
	Plays   int64
	Winners int64
}

// DashboardHourlyPlayRow 按小时参与统计
type DashboardHourlyPlayRow struct {
	Hour  int
	Plays int64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

func playBase(db *gorm.DB, promotionID uint, startAt, endAt time.Time) *gorm.DB {
	query := db.Model(&models.Play{}).Where("promotion_id = ?", promotionID)
	if !startAt.IsZero() {
		query = query.Where("created_at >= ?", startAt)
	}
	if !endAt.IsZero() {
		query = query.Where("created_at < ?", endAt)
	}
	return query
}

// GetOverview 获取活动总览统计
func (r *GormDashboardRepository) GetOverview(promotionID uint) (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}

	var tokens TokenCounts
	if err := r.db.Model(&models.Token{}).
		Select("COUNT(*) as total, COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) as used", models.TokenStatusUsed).
		Where("promotion_id = ?", promotionID).
		Scan(&tokens).Error; err != nil {
		return result, err
	}
	result.TotalTokens = tokens.Total
	result.UsedTokens = tokens.Used

	if err := playBase(r.db, promotionID, time.Time{}, time.Time{}).Count(&result.TotalPlays).Error; err != nil {
		return result, err
	}
	if err := playBase(r.db, promotionID, time.Time{}, time.Time{}).
		Where("is_winner = ?", true).
		Count(&result.Winners).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Customer{}).Where("promotion_id = ?", promotionID).Count(&result.Customers).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Customer{}).
		Where("promotion_id = ? AND total_plays > 0", promotionID).
		Count(&result.Participants).Error; err != nil {
		return result, err
	}

	var stock PrizeStockSummary
	if err := r.db.Model(&models.PrizeType{}).
		Select("COALESCE(SUM(initial_stock), 0) as initial_stock, COALESCE(SUM(remaining_stock), 0) as remaining_stock").
		Where("promotion_id = ?", promotionID).
		Scan(&stock).Error; err != nil {
		return result, err
	}
	result.PrizesInitial = stock.InitialStock
	result.PrizesRemaining = stock.RemainingStock

	if err := r.db.Model(&models.PrizeAssignment{}).Where("promotion_id = ?", promotionID).Count(&result.PrizesAssigned).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.PrizeAssignment{}).
		Where("promotion_id = ? AND redeemed_at IS NOT NULL", promotionID).
		Count(&result.PrizesRedeemed).Error; err != nil {
		return result, err
	}

	var first models.Play
	if err := playBase(r.db, promotionID, time.Time{}, time.Time{}).Order("created_at asc").Limit(1).Find(&first).Error; err != nil {
		return result, err
	}
	if first.ID > 0 {
		createdAt := first.CreatedAt
		result.FirstPlayAt = &createdAt
	}
	var last models.Play
	if err := playBase(r.db, promotionID, time.Time{}, time.Time{}).Order("created_at desc").Limit(1).Find(&last).Error; err != nil {
		return result, err
	}
	if last.ID > 0 {
		createdAt := last.CreatedAt
		result.LastPlayAt = &createdAt
	}
	return result, nil
}

// GetPrizeBreakdown 获取奖品维度统计，顺序与判定顺序一致
func (r *GormDashboardRepository) GetPrizeBreakdown(promotionID uint) ([]DashboardPrizeRow, error) {
	var prizes []models.PrizeType
	if err := r.db.Where("promotion_id = ?", promotionID).Order("sort_order asc, id asc").Find(&prizes).Error; err != nil {
		return nil, err
	}

	var counts []PrizeTypeAssignmentCount
	if err := r.db.Model(&models.PrizeAssignment{}).
		Select("prize_type_id, COUNT(*) as assigned, COALESCE(SUM(CASE WHEN redeemed_at IS NOT NULL THEN 1 ELSE 0 END), 0) as redeemed").
		Where("promotion_id = ?", promotionID).
		Group("prize_type_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	countMap := make(map[uint]PrizeTypeAssignmentCount, len(counts))
	for _, item := range counts {
		countMap[item.PrizeTypeID] = item
	}

	result := make([]DashboardPrizeRow, 0, len(prizes))
	for _, prize := range prizes {
		count := countMap[prize.ID]
		result = append(result, DashboardPrizeRow{
			PrizeTypeID:    prize.ID,
			Name:           prize.Name,
			Restriction:    prize.Restriction,
			InitialStock:   prize.InitialStock,
			RemainingStock: prize.RemainingStock,
			Assigned:       count.Assigned,
			Redeemed:       count.Redeemed,
		})
	}
	return result, nil
}

// GetDailyPlays 获取每日参与与中奖数
func (r *GormDashboardRepository) GetDailyPlays(promotionID uint, startAt, endAt time.Time) ([]DashboardDailyPlayRow, error) {
	dayExpr := dayExprByDialect(dbDialectName(r.db), "created_at")
	var rows []DashboardDailyPlayRow
	if err := playBase(r.db, promotionID, startAt, endAt).
		Select(fmt.Sprintf("%s as day, COUNT(*) as plays, COALESCE(SUM(CASE WHEN is_winner = ? THEN 1 ELSE 0 END), 0) as winners", dayExpr), true).
		Group(dayExpr).
		Order("day asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetHourlyPlays 获取按小时分布的参与数
func (r *GormDashboardRepository) GetHourlyPlays(promotionID uint, startAt, endAt time.Time) ([]DashboardHourlyPlayRow, error) {
	hourExpr := hourExprByDialect(dbDialectName(r.db), "created_at")
	var rows []DashboardHourlyPlayRow
	if err := playBase(r.db, promotionID, startAt, endAt).
		Select(fmt.Sprintf("%s as hour, COUNT(*) as plays", hourExpr)).
		Group(hourExpr).
		Order("hour asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
