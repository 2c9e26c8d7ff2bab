package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/luckyscan/internal/config"
	"github.com/luckyscan/internal/models"
	"github.com/luckyscan/internal/provider"
	"github.com/luckyscan/internal/queue"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupWorkerTest(t *testing.T) *Consumer {
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
	models.DB = db
	if err := models.AutoMigrate(); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	cfg := &config.Config{
		JWT:     config.JWTConfig{SecretKey: "worker-test-secret"},
		Captcha: config.CaptchaConfig{Provider: "none"},
	}
	return NewConsumer(provider.NewContainer(cfg))
}

func newTask(t *testing.T, taskType string, payload interface{}) *asynq.Task {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	return asynq.NewTask(taskType, body)
}

func createPromotion(t *testing.T, endAt time.Time) *models.Promotion {
	t.Helper()
	promotion := &models.Promotion{
		Name:    "Primavera",
		StartAt: endAt.Add(-48 * time.Hour),
		EndAt:   endAt,
		Status:  models.PromotionStatusActive,
	}
	if err := models.DB.Create(promotion).Error; err != nil {
		t.Fatalf("create promotion failed: %v", err)
	}
	return promotion
}

func TestLeaderboardRefreshTask(t *testing.T) {
	c := setupWorkerTest(t)
	promotion := createPromotion(t, time.Now().Add(time.Hour))

	if err := c.handleLeaderboardRefresh(context.Background(), asynq.NewTask(queue.TaskLeaderboardRefresh, []byte("{"))); err == nil {
		t.Fatalf("malformed payload should fail")
	}
	if err := c.handleLeaderboardRefresh(context.Background(), newTask(t, queue.TaskLeaderboardRefresh, queue.LeaderboardRefreshPayload{})); err != nil {
		t.Fatalf("empty promotion id should be skipped, got %v", err)
	}
	task := newTask(t, queue.TaskLeaderboardRefresh, queue.LeaderboardRefreshPayload{PromotionID: promotion.ID})
	if err := c.handleLeaderboardRefresh(context.Background(), task); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
}

func TestPrizeStockAlertAndWinnerNotifySkipMissingRows(t *testing.T) {
	c := setupWorkerTest(t)

	alert := newTask(t, queue.TaskPrizeStockAlert, queue.PrizeStockAlertPayload{PromotionID: 1, PrizeTypeID: 404})
	if err := c.handlePrizeStockAlert(context.Background(), alert); err != nil {
		t.Fatalf("missing prize type should be skipped, got %v", err)
	}
	notify := newTask(t, queue.TaskPlayWinnerNotify, queue.PlayWinnerNotifyPayload{PlayID: 1, PrizeCode: "WIN-NONE-0000"})
	if err := c.handlePlayWinnerNotify(context.Background(), notify); err != nil {
		t.Fatalf("missing assignment should be skipped, got %v", err)
	}
	if err := c.handlePlayWinnerNotify(context.Background(), newTask(t, queue.TaskPlayWinnerNotify, queue.PlayWinnerNotifyPayload{})); err != nil {
		t.Fatalf("empty prize code should be skipped, got %v", err)
	}
}

func TestPrizeStockAlertExistingPrize(t *testing.T) {
	c := setupWorkerTest(t)
	promotion := createPromotion(t, time.Now().Add(time.Hour))
	prize := &models.PrizeType{PromotionID: promotion.ID, Name: "Borsa", InitialStock: 5, RemainingStock: 1}
	if err := models.DB.Create(prize).Error; err != nil {
		t.Fatalf("create prize failed: %v", err)
	}
	alert := newTask(t, queue.TaskPrizeStockAlert, queue.PrizeStockAlertPayload{PromotionID: promotion.ID, PrizeTypeID: prize.ID})
	if err := c.handlePrizeStockAlert(context.Background(), alert); err != nil {
		t.Fatalf("stock alert failed: %v", err)
	}
}

func TestPromotionSweepLoopEndsExpired(t *testing.T) {
	c := setupWorkerTest(t)
	expired := createPromotion(t, time.Now().Add(-time.Hour))
	running := createPromotion(t, time.Now().Add(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	RunPromotionSweepLoop(ctx, c, time.Hour)

	var reloaded models.Promotion
	if err := models.DB.First(&reloaded, expired.ID).Error; err != nil {
		t.Fatalf("reload expired failed: %v", err)
	}
	if reloaded.Status != models.PromotionStatusEnded {
		t.Fatalf("expired promotion want ended got %s", reloaded.Status)
	}
	var reloadedRunning models.Promotion
	if err := models.DB.First(&reloadedRunning, running.ID).Error; err != nil {
		t.Fatalf("reload running failed: %v", err)
	}
	if reloadedRunning.Status != models.PromotionStatusActive {
		t.Fatalf("running promotion must stay active, got %s", reloadedRunning.Status)
	}
}

func TestSweepIntervalFallsBackToDefault(t *testing.T) {
	if got := sweepInterval(nil); got != time.Minute {
		t.Fatalf("nil consumer interval want 1m got %s", got)
	}
}
