package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/luckyscan/internal/config"
	"github.com/luckyscan/internal/gender"
	"github.com/luckyscan/internal/models"
	"github.com/luckyscan/internal/queue"
	"github.com/luckyscan/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type lotteryFixture struct {
	db             *gorm.DB
	promotionRepo  *repository.GormPromotionRepository
	prizeRepo      *repository.GormPrizeTypeRepository
	tokenRepo      *repository.GormTokenRepository
	customerRepo   *repository.GormCustomerRepository
	playRepo       *repository.GormPlayRepository
	assignmentRepo *repository.GormPrizeAssignmentRepository
	staffRepo      *repository.GormStaffUserRepository
	dashboardRepo  *repository.GormDashboardRepository
	promotion      *models.Promotion
}

func setupLotteryServiceTest(t *testing.T) *lotteryFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
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
	models.DB = db

	now := time.Now()
	promotion := &models.Promotion{
		Name:      "Gratta e Vinci Estate",
		StartAt:   now.Add(-24 * time.Hour),
		EndAt:     now.Add(24 * time.Hour),
		Status:    models.PromotionStatusActive,
		UnitPrice: models.NewMoneyFromDecimal(decimal.RequireFromString("2.50")),
		UnitCost:  models.NewMoneyFromDecimal(decimal.RequireFromString("1.00")),
	}
	if err := db.Create(promotion).Error; err != nil {
		t.Fatalf("create promotion failed: %v", err)
	}

	return &lotteryFixture{
		db:             db,
		promotionRepo:  repository.NewPromotionRepository(db),
		prizeRepo:      repository.NewPrizeTypeRepository(db),
		tokenRepo:      repository.NewTokenRepository(db),
		customerRepo:   repository.NewCustomerRepository(db),
		playRepo:       repository.NewPlayRepository(db),
		assignmentRepo: repository.NewPrizeAssignmentRepository(db),
		staffRepo:      repository.NewStaffUserRepository(db),
		dashboardRepo:  repository.NewDashboardRepository(db),
		promotion:      promotion,
	}
}

func (f *lotteryFixture) newPlayService(t *testing.T) *PlayService {
	t.Helper()
	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	return NewPlayService(
		f.promotionRepo,
		f.prizeRepo,
		f.tokenRepo,
		f.customerRepo,
		f.playRepo,
		f.assignmentRepo,
		gender.NewNameListClassifier(),
		queueClient,
		config.LotteryConfig{StockAlertThreshold: 1},
	)
}

func (f *lotteryFixture) createPrize(t *testing.T, name string, stock int64, restriction string, sortOrder int) *models.PrizeType {
	t.Helper()
	prize := &models.PrizeType{
		PromotionID:    f.promotion.ID,
		Name:           name,
		InitialStock:   stock,
		RemainingStock: stock,
		Restriction:    restriction,
		SortOrder:      sortOrder,
	}
	if err := f.db.Create(prize).Error; err != nil {
		t.Fatalf("create prize failed: %v", err)
	}
	return prize
}

func (f *lotteryFixture) createTokens(t *testing.T, codes ...string) []models.Token {
	t.Helper()
	tokens := make([]models.Token, 0, len(codes))
	for _, code := range codes {
		token := models.Token{
			PromotionID: f.promotion.ID,
			Code:        code,
			Status:      models.TokenStatusAvailable,
		}
		if err := f.db.Create(&token).Error; err != nil {
			t.Fatalf("create token %s failed: %v", code, err)
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func (f *lotteryFixture) createCustomer(t *testing.T, firstName, lastName, phone, category string) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		PromotionID:  f.promotion.ID,
		Phone:        phone,
		FirstName:    firstName,
		LastName:     lastName,
		Gender:       category,
		ConsentTerms: true,
	}
	if err := f.db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	return customer
}

func (f *lotteryFixture) reloadPrize(t *testing.T, id uint) *models.PrizeType {
	t.Helper()
	prize, err := f.prizeRepo.GetByID(id)
	if err != nil || prize == nil {
		t.Fatalf("reload prize failed: %v", err)
	}
	return prize
}

func (f *lotteryFixture) count(t *testing.T, model interface{}, where string, args ...interface{}) int64 {
	t.Helper()
	var total int64
	query := f.db.Model(model)
	if where != "" {
		query = query.Where(where, args...)
	}
	if err := query.Count(&total).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return total
}
