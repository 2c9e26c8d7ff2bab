package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/luckyscan/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupLotteryRepositoryTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.StaffUser{},
		&models.Promotion{},
		&models.PrizeType{},
		&models.TokenBatch{},
		&models.Token{},
		&models.Customer{},
		&models.Play{},
		&models.PrizeAssignment{},
	); err != nil {
		t.Fatalf("migrate lottery models failed: %v", err)
	}
	return db
}

func createRepoPromotion(t *testing.T, db *gorm.DB) *models.Promotion {
	t.Helper()
	now := time.Now().UTC()
	promotion := &models.Promotion{
		Name:    "Autunno",
		StartAt: now.Add(-72 * time.Hour),
		EndAt:   now.Add(72 * time.Hour),
		Status:  models.PromotionStatusActive,
	}
	if err := db.Create(promotion).Error; err != nil {
		t.Fatalf("create promotion failed: %v", err)
	}
	return promotion
}

func createRepoPlay(t *testing.T, db *gorm.DB, promotionID, tokenID, customerID uint, prizeTypeID *uint, createdAt time.Time) *models.Play {
	t.Helper()
	play := &models.Play{
		PromotionID: promotionID,
		TokenID:     tokenID,
		CustomerID:  customerID,
		IsWinner:    prizeTypeID != nil,
		PrizeTypeID: prizeTypeID,
		CreatedAt:   createdAt,
	}
	if err := db.Create(play).Error; err != nil {
		t.Fatalf("create play failed: %v", err)
	}
	return play
}

func TestDashboardOverviewAndBreakdown(t *testing.T) {
	db := setupLotteryRepositoryTest(t)
	repo := NewDashboardRepository(db)
	promotion := createRepoPromotion(t, db)

	bag := &models.PrizeType{PromotionID: promotion.ID, Name: "Borsa", InitialStock: 3, RemainingStock: 2, SortOrder: 2}
	tie := &models.PrizeType{PromotionID: promotion.ID, Name: "Cravatta", InitialStock: 2, RemainingStock: 2, Restriction: "M", SortOrder: 1}
	for _, prize := range []*models.PrizeType{bag, tie} {
		if err := db.Create(prize).Error; err != nil {
			t.Fatalf("create prize failed: %v", err)
		}
	}
	tokens := []models.Token{
		{PromotionID: promotion.ID, Code: "OV0001", Status: models.TokenStatusUsed},
		{PromotionID: promotion.ID, Code: "OV0002", Status: models.TokenStatusUsed},
		{PromotionID: promotion.ID, Code: "OV0003", Status: models.TokenStatusAvailable},
	}
	if err := db.Create(&tokens).Error; err != nil {
		t.Fatalf("create tokens failed: %v", err)
	}
	customer := &models.Customer{PromotionID: promotion.ID, Phone: "+393330000001", FirstName: "Giulia", TotalPlays: 2, TotalWins: 1}
	idle := &models.Customer{PromotionID: promotion.ID, Phone: "+393330000002", FirstName: "Luca"}
	for _, c := range []*models.Customer{customer, idle} {
		if err := db.Create(c).Error; err != nil {
			t.Fatalf("create customer failed: %v", err)
		}
	}

	base := time.Now().UTC().Add(-time.Hour)
	win := createRepoPlay(t, db, promotion.ID, tokens[0].ID, customer.ID, &bag.ID, base)
	createRepoPlay(t, db, promotion.ID, tokens[1].ID, customer.ID, nil, base.Add(10*time.Minute))
	redeemedAt := time.Now().UTC()
	assignment := &models.PrizeAssignment{
		PromotionID: promotion.ID,
		PlayID:      win.ID,
		CustomerID:  customer.ID,
		PrizeTypeID: bag.ID,
		PrizeCode:   "WIN-OVER-0001",
		RedeemedAt:  &redeemedAt,
	}
	if err := db.Create(assignment).Error; err != nil {
		t.Fatalf("create assignment failed: %v", err)
	}

	overview, err := repo.GetOverview(promotion.ID)
	if err != nil {
		t.Fatalf("get overview failed: %v", err)
	}
	if overview.TotalTokens != 3 || overview.UsedTokens != 2 {
		t.Fatalf("token counts want 3/2 got %d/%d", overview.TotalTokens, overview.UsedTokens)
	}
	if overview.TotalPlays != 2 || overview.Winners != 1 {
		t.Fatalf("play counts want 2/1 got %d/%d", overview.TotalPlays, overview.Winners)
	}
	if overview.Customers != 2 || overview.Participants != 1 {
		t.Fatalf("customer counts want 2/1 got %d/%d", overview.Customers, overview.Participants)
	}
	if overview.PrizesInitial != 5 || overview.PrizesRemaining != 4 || overview.PrizesAssigned != 1 || overview.PrizesRedeemed != 1 {
		t.Fatalf("unexpected prize counts: %+v", overview)
	}
	if overview.FirstPlayAt == nil || overview.LastPlayAt == nil || !overview.LastPlayAt.After(*overview.FirstPlayAt) {
		t.Fatalf("first/last play should be set in order: %+v", overview)
	}

	rows, err := repo.GetPrizeBreakdown(promotion.ID)
	if err != nil {
		t.Fatalf("get breakdown failed: %v", err)
	}
	if len(rows) != 2 || rows[0].Name != "Cravatta" || rows[1].Name != "Borsa" {
		t.Fatalf("breakdown should follow sort order, got %+v", rows)
	}
	if rows[1].Assigned != 1 || rows[1].Redeemed != 1 || rows[0].Assigned != 0 {
		t.Fatalf("unexpected breakdown counts: %+v", rows)
	}

	empty, err := repo.GetOverview(promotion.ID + 100)
	if err != nil {
		t.Fatalf("overview of unknown promotion failed: %v", err)
	}
	if empty.TotalPlays != 0 || empty.FirstPlayAt != nil {
		t.Fatalf("unknown promotion should be empty, got %+v", empty)
	}
}

func TestDashboardDailyAndHourlyPlays(t *testing.T) {
	db := setupLotteryRepositoryTest(t)
	repo := NewDashboardRepository(db)
	promotion := createRepoPromotion(t, db)
	customer := &models.Customer{PromotionID: promotion.ID, Phone: "+393330000003", FirstName: "Sara"}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	prize := &models.PrizeType{PromotionID: promotion.ID, Name: "Buono", InitialStock: 5, RemainingStock: 5}
	if err := db.Create(prize).Error; err != nil {
		t.Fatalf("create prize failed: %v", err)
	}

	day1 := time.Date(2026, 3, 10, 9, 15, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 11, 18, 40, 0, 0, time.UTC)
	stamps := []struct {
		at  time.Time
		win bool
	}{
		{at: day1, win: true},
		{at: day1.Add(20 * time.Minute), win: false},
		{at: day2, win: false},
	}
	for idx, item := range stamps {
		token := &models.Token{PromotionID: promotion.ID, Code: fmt.Sprintf("DAY%03d", idx), Status: models.TokenStatusUsed}
		if err := db.Create(token).Error; err != nil {
			t.Fatalf("create token failed: %v", err)
		}
		var prizeID *uint
		if item.win {
			prizeID = &prize.ID
		}
		createRepoPlay(t, db, promotion.ID, token.ID, customer.ID, prizeID, item.at)
	}

	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	daily, err := repo.GetDailyPlays(promotion.ID, from, to)
	if err != nil {
		t.Fatalf("daily plays failed: %v", err)
	}
	if len(daily) != 2 {
		t.Fatalf("daily rows want 2 got %+v", daily)
	}
	if daily[0].Day != "2026-03-10" || daily[0].Plays != 2 || daily[0].Winners != 1 {
		t.Fatalf("unexpected first day: %+v", daily[0])
	}
	if daily[1].Day != "2026-03-11" || daily[1].Plays != 1 || daily[1].Winners != 0 {
		t.Fatalf("unexpected second day: %+v", daily[1])
	}

	hourly, err := repo.GetHourlyPlays(promotion.ID, from, to)
	if err != nil {
		t.Fatalf("hourly plays failed: %v", err)
	}
	if len(hourly) != 2 || hourly[0].Hour != 9 || hourly[0].Plays != 2 || hourly[1].Hour != 18 {
		t.Fatalf("unexpected hourly rows: %+v", hourly)
	}

	narrow, err := repo.GetDailyPlays(promotion.ID, day2.Add(-time.Hour), to)
	if err != nil {
		t.Fatalf("narrow daily plays failed: %v", err)
	}
	if len(narrow) != 1 || narrow[0].Day != "2026-03-11" {
		t.Fatalf("range filter should keep only the second day, got %+v", narrow)
	}
}
