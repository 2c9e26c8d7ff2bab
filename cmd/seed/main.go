package main

import (
	"errors"
	"time"

	"github.com/luckyscan/internal/config"
	"github.com/luckyscan/internal/logger"
	"github.com/luckyscan/internal/models"
	"github.com/luckyscan/internal/provider"
	"github.com/luckyscan/internal/service"

	_ "github.com/joho/godotenv/autoload"
	"github.com/shopspring/decimal"
)

const demoPromotionName = "Gratta e Vinci Demo"

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.LogLevel, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.InitDefaultAdmin(cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword); err != nil {
		stdLog.Fatalf("Failed to init admin: %v", err)
	}

	// 种子数据不需要异步队列
	cfg.Queue.Enabled = false
	c := provider.NewContainer(cfg)
	if err := c.SyncStaffRoles(); err != nil {
		stdLog.Printf("Failed to sync staff roles: %v", err)
	}

	// 门店员工账号
	if _, err := c.StaffUserService.Create(service.CreateStaffUserInput{
		Username:    "cassa",
		DisplayName: "Cassa 1",
		Password:    "cassa2024",
		Role:        models.StaffRoleStaff,
	}); err != nil {
		if errors.Is(err, service.ErrStaffUserExists) {
			stdLog.Printf("Staff user already exists: cassa")
		} else {
			stdLog.Printf("Failed to create staff user: %v", err)
		}
	} else {
		stdLog.Printf("Created staff user: cassa")
	}

	// 演示活动
	var existing models.Promotion
	if err := models.DB.Where("name = ?", demoPromotionName).First(&existing).Error; err == nil {
		stdLog.Printf("Promotion already exists: %s (id=%d)", demoPromotionName, existing.ID)
		return
	}

	now := time.Now()
	promotion, err := c.PromotionAdminService.CreatePromotion(service.PromotionInput{
		Name:          demoPromotionName,
		Description:   "Scansiona il QR sullo scontrino e scopri subito se hai vinto",
		StartAt:       now.Add(-time.Hour),
		EndAt:         now.AddDate(0, 1, 0),
		PlannedTokens: 500,
		UnitPrice:     models.NewMoneyFromDecimal(decimal.RequireFromString("2.50")),
		UnitCost:      models.NewMoneyFromDecimal(decimal.RequireFromString("0.80")),
	})
	if err != nil {
		stdLog.Fatalf("Failed to create promotion: %v", err)
	}
	stdLog.Printf("Created promotion: %s (id=%d)", promotion.Name, promotion.ID)

	prizes := []service.PrizeTypeInput{
		{Name: "Borsa in pelle", Description: "Borsa a mano edizione limitata", InitialStock: 5, Restriction: "F", SortOrder: 1},
		{Name: "Cravatta in seta", Description: "Cravatta fatta a mano", InitialStock: 5, Restriction: "M", SortOrder: 2},
		{Name: "Buono 10 euro", Description: "Valido su tutto il negozio", InitialStock: 20, SortOrder: 3},
	}
	for _, input := range prizes {
		prize, err := c.PromotionAdminService.CreatePrizeType(promotion.ID, input)
		if err != nil {
			stdLog.Printf("Failed to create prize %s: %v", input.Name, err)
			continue
		}
		stdLog.Printf("Created prize: %s (stock=%d)", prize.Name, prize.InitialStock)
	}

	result, err := c.TokenService.GenerateTokens(service.GenerateTokensInput{
		PromotionID: promotion.ID,
		Quantity:    100,
	})
	if err != nil {
		stdLog.Fatalf("Failed to generate tokens: %v", err)
	}
	stdLog.Printf("Generated %d tokens (batch=%d)", result.Created, result.Batch.ID)
}
