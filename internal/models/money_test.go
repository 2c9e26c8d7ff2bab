package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMoneyMulIntAndJSON(t *testing.T) {
	price, err := NewMoneyFromString("2.50")
	if err != nil {
		t.Fatalf("parse money failed: %v", err)
	}
	total := price.MulInt(3)
	if total.String() != "7.50" {
		t.Fatalf("want 7.50 got %s", total.String())
	}

	raw, err := json.Marshal(total)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(raw) != `"7.50"` {
		t.Fatalf("unexpected json %s", raw)
	}

	var decoded Money
	if err := json.Unmarshal([]byte(`0.845`), &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.String() != "0.85" {
		t.Fatalf("want 0.85 got %s", decoded.String())
	}
}

func TestPromotionIsOpenAt(t *testing.T) {
	promotion := &Promotion{Status: PromotionStatusActive}
	promotion.StartAt = mustTime(t, "2026-01-01T00:00:00Z")
	promotion.EndAt = mustTime(t, "2026-01-31T23:59:59Z")

	if !promotion.IsOpenAt(mustTime(t, "2026-01-15T12:00:00Z")) {
		t.Fatalf("promotion should be open inside window")
	}
	if !promotion.IsOpenAt(promotion.StartAt) || !promotion.IsOpenAt(promotion.EndAt) {
		t.Fatalf("window bounds should be inclusive")
	}
	if promotion.IsOpenAt(mustTime(t, "2026-02-01T00:00:00Z")) {
		t.Fatalf("promotion should be closed after end")
	}
	promotion.Status = PromotionStatusPaused
	if promotion.IsOpenAt(mustTime(t, "2026-01-15T12:00:00Z")) {
		t.Fatalf("paused promotion should be closed")
	}
	var missing *Promotion
	if missing.IsOpenAt(mustTime(t, "2026-01-15T12:00:00Z")) {
		t.Fatalf("nil promotion should be closed")
	}
}

func mustTime(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t.Fatalf("parse time failed: %v", err)
	}
	return parsed
}
