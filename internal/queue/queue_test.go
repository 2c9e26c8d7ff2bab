package queue

import (
	"encoding/json"
	"testing"

	"github.com/luckyscan/internal/config"
)

func TestNewPlayWinnerNotifyTask(t *testing.T) {
	task, err := NewPlayWinnerNotifyTask(PlayWinnerNotifyPayload{PromotionID: 3, PlayID: 9, AssignmentID: 4, PrizeCode: "WIN-ABC-1F2E"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != TaskPlayWinnerNotify {
		t.Fatalf("task type want %s got %s", TaskPlayWinnerNotify, task.Type())
	}
	var payload PlayWinnerNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("decode payload failed: %v", err)
	}
	if payload.PlayID != 9 || payload.PrizeCode != "WIN-ABC-1F2E" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueLeaderboardRefresh(LeaderboardRefreshPayload{PromotionID: 1}); err != nil {
		t.Fatalf("disabled enqueue should be noop, got %v", err)
	}
	if err := client.EnqueuePrizeStockAlert(PrizeStockAlertPayload{PromotionID: 1, PrizeTypeID: 2}); err != nil {
		t.Fatalf("disabled enqueue should be noop, got %v", err)
	}
	var nilClient *Client
	if err := nilClient.EnqueuePlayWinnerNotify(PlayWinnerNotifyPayload{}); err != nil {
		t.Fatalf("nil client enqueue should be noop, got %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("addr want 127.0.0.1:6379 got %s", opt.Addr)
	}
	if cfg.Concurrency != 10 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}
