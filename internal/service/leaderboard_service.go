package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/luckyscan/internal/cache"
	"github.com/luckyscan/internal/config"
	"github.com/luckyscan/internal/logger"
	"github.com/luckyscan/internal/models"
	"github.com/luckyscan/internal/repository"
)

// LeaderboardService 参与排行榜服务
type LeaderboardService struct {
	customerRepo repository.CustomerRepository
	lotteryCfg   config.LotteryConfig
}

// NewLeaderboardService 创建排行榜服务
func NewLeaderboardService(customerRepo repository.CustomerRepository, lotteryCfg config.LotteryConfig) *LeaderboardService {
	return &LeaderboardService{
		customerRepo: customerRepo,
		lotteryCfg:   lotteryCfg.Normalize(),
	}
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	CustomerID uint   `json:"-"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Plays      int64  `json:"plays"`
	IsMe       bool   `json:"is_me"`
}

// LeaderboardMyStats 当前参与者的排名
type LeaderboardMyStats struct {
	Rank  int64 `json:"rank"`
	Plays int64 `json:"plays"`
	Wins  int64 `json:"wins"`
}

// Leaderboard 排行榜结果
type Leaderboard struct {
	PromotionID uint                `json:"promotion_id"`
	Entries     []LeaderboardEntry  `json:"leaderboard"`
	MyStats     *LeaderboardMyStats `json:"my_stats"`
}

// GetLeaderboard 读取排行榜，customerID 非零时附带个人排名
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, promotionID, customerID uint) (*Leaderboard, error) {
	entries, err := s.topEntries(ctx, promotionID)
	if err != nil {
		return nil, err
	}
	result := &Leaderboard{PromotionID: promotionID, Entries: make([]LeaderboardEntry, len(entries))}
	copy(result.Entries, entries)
	if customerID == 0 {
		return result, nil
	}
	for i := range result.Entries {
		result.Entries[i].IsMe = result.Entries[i].CustomerID == customerID
	}
	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.PromotionID != promotionID {
		return result, nil
	}
	ahead, err := s.customerRepo.CountAhead(customer)
	if err != nil {
		return nil, err
	}
	result.MyStats = &LeaderboardMyStats{
		Rank:  ahead + 1,
		Plays: customer.TotalPlays,
		Wins:  customer.TotalWins,
	}
	return result, nil
}

// Refresh 重建排行榜缓存
func (s *LeaderboardService) Refresh(ctx context.Context, promotionID uint) ([]LeaderboardEntry, error) {
	entries, err := s.loadEntries(promotionID)
	if err != nil {
		return nil, err
	}
	s.storeCache(ctx, promotionID, entries)
	return entries, nil
}

func (s *LeaderboardService) topEntries(ctx context.Context, promotionID uint) ([]LeaderboardEntry, error) {
	var cached []leaderboardCacheEntry
	hit, err := cache.GetLeaderboard(ctx, promotionID, &cached)
	if err != nil {
		logger.Warnw("leaderboard_cache_get_failed", "promotion_id", promotionID, "error", err)
	}
	if hit {
		entries := make([]LeaderboardEntry, 0, len(cached))
		for _, item := range cached {
			entries = append(entries, item.toEntry())
		}
		return entries, nil
	}
	entries, err := s.loadEntries(promotionID)
	if err != nil {
		return nil, err
	}
	s.storeCache(ctx, promotionID, entries)
	return entries, nil
}

func (s *LeaderboardService) storeCache(ctx context.Context, promotionID uint, entries []LeaderboardEntry) {
	payload := make([]leaderboardCacheEntry, 0, len(entries))
	for _, entry := range entries {
		payload = append(payload, newLeaderboardCacheEntry(entry))
	}
	ttl := time.Duration(s.lotteryCfg.LeaderboardCacheSeconds) * time.Second
	if err := cache.SetLeaderboard(ctx, promotionID, payload, ttl); err != nil {
		logger.Warnw("leaderboard_cache_set_failed", "promotion_id", promotionID, "error", err)
	}
}

func (s *LeaderboardService) loadEntries(promotionID uint) ([]LeaderboardEntry, error) {
	customers, err := s.customerRepo.TopByPlays(promotionID, s.lotteryCfg.LeaderboardSize)
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(customers))
	for idx, customer := range customers {
		entries = append(entries, buildLeaderboardEntry(idx+1, customer))
	}
	return entries, nil
}

// leaderboardCacheEntry 缓存结构，保留顾客ID用于标记 is_me
type leaderboardCacheEntry struct {
	Rank       int    `json:"rank"`
	CustomerID uint   `json:"customer_id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Plays      int64  `json:"plays"`
}

func newLeaderboardCacheEntry(entry LeaderboardEntry) leaderboardCacheEntry {
	return leaderboardCacheEntry{
		Rank:       entry.Rank,
		CustomerID: entry.CustomerID,
		Name:       entry.Name,
		Phone:      entry.Phone,
		Plays:      entry.Plays,
	}
}

func (e leaderboardCacheEntry) toEntry() LeaderboardEntry {
	return LeaderboardEntry{
		Rank:       e.Rank,
		CustomerID: e.CustomerID,
		Name:       e.Name,
		Phone:      e.Phone,
		Plays:      e.Plays,
	}
}

func buildLeaderboardEntry(rank int, customer models.Customer) LeaderboardEntry {
	return LeaderboardEntry{
		Rank:       rank,
		CustomerID: customer.ID,
		Name:       DisplayName(customer.FirstName, customer.LastName),
		Phone:      MaskPhone(customer.Phone),
		Plays:      customer.TotalPlays,
	}
}

// DisplayName 公开展示的姓名，形如 "Giulia R."
func DisplayName(firstName, lastName string) string {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if lastName == "" {
		return firstName
	}
	initial, _ := utf8.DecodeRuneInString(lastName)
	return firstName + " " + strings.ToUpper(string(initial)) + "."
}

// MaskPhone 仅保留手机号后四位
func MaskPhone(phone string) string {
	digits := []rune(strings.TrimSpace(phone))
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	return "*** *** " + string(digits)
}
