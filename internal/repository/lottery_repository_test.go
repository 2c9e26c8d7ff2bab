package repository

import (
	"testing"
	"time"

	"github.com/luckyscan/internal/models"
)

func TestTokenRepositoryBatchAndMarkUsed(t *testing.T) {
	db := setupLotteryRepositoryTest(t)
	repo := NewTokenRepository(db)
	promotion := createRepoPromotion(t, db)

	first := &models.TokenBatch{BatchNo: "B-001", PromotionID: promotion.ID, Quantity: 2}
	created, err := repo.CreateBatch(first, []models.Token{{Code: "AAA111"}, {Code: "BBB222"}})
	if err != nil || created != 2 {
		t.Fatalf("first batch want 2 created, got %d err=%v", created, err)
	}
	second := &models.TokenBatch{BatchNo: "B-002", PromotionID: promotion.ID, Quantity: 2}
	created, err = repo.CreateBatch(second, []models.Token{{Code: "BBB222"}, {Code: "CCC333"}})
	if err != nil {
		t.Fatalf("second batch failed: %v", err)
	}
	if created != 1 || second.CreatedCount != 1 {
		t.Fatalf("duplicate code should be skipped, created=%d count=%d", created, second.CreatedCount)
	}

	token, err := repo.GetByCode(" aaa111 ")
	if err != nil || token == nil {
		t.Fatalf("lookup should normalize case and spaces, token=%v err=%v", token, err)
	}
	if token.BatchID == nil || *token.BatchID != first.ID {
		t.Fatalf("token should belong to first batch, got %+v", token.BatchID)
	}

	usedAt := time.Now()
	rows, err := repo.MarkUsed(token.ID, usedAt)
	if err != nil || rows != 1 {
		t.Fatalf("first mark used want 1 row, got %d err=%v", rows, err)
	}
	rows, err = repo.MarkUsed(token.ID, usedAt)
	if err != nil || rows != 0 {
		t.Fatalf("second mark used must not update, got %d err=%v", rows, err)
	}

	counts, err := repo.CountByPromotion(promotion.ID)
	if err != nil {
		t.Fatalf("count tokens failed: %v", err)
	}
	if counts.Total != 3 || counts.Used != 1 {
		t.Fatalf("token counts want 3/1 got %+v", counts)
	}

	items, total, err := repo.List(TokenListFilter{PromotionID: promotion.ID, Status: models.TokenStatusAvailable, Page: 1, PageSize: 10})
	if err != nil || total != 2 || len(items) != 2 {
		t.Fatalf("available list want 2, total=%d err=%v", total, err)
	}
	exported, err := repo.ListForExport(promotion.ID, second.ID)
	if err != nil || len(exported) != 1 || exported[0].Code != "CCC333" {
		t.Fatalf("batch export want CCC333 only, got %+v err=%v", exported, err)
	}

	if err := repo.DeleteByPromotion(promotion.ID); err != nil {
		t.Fatalf("delete by promotion failed: %v", err)
	}
	batches, err := repo.ListBatches(promotion.ID)
	if err != nil || len(batches) != 0 {
		t.Fatalf("batches should be removed, got %d err=%v", len(batches), err)
	}
}

func TestPrizeTypeReserveStockStopsAtZero(t *testing.T) {
	db := setupLotteryRepositoryTest(t)
	repo := NewPrizeTypeRepository(db)
	promotion := createRepoPromotion(t, db)
	prize := &models.PrizeType{PromotionID: promotion.ID, Name: "Foulard", InitialStock: 2, RemainingStock: 2}
	if err := repo.Create(prize); err != nil {
		t.Fatalf("create prize failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		rows, err := repo.ReserveStock(prize.ID)
		if err != nil || rows != 1 {
			t.Fatalf("reserve %d want 1 row got %d err=%v", i, rows, err)
		}
	}
	rows, err := repo.ReserveStock(prize.ID)
	if err != nil || rows != 0 {
		t.Fatalf("reserve on empty stock must not update, got %d err=%v", rows, err)
	}

	summary, err := repo.SummarizeStock(promotion.ID)
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if summary.InitialStock != 2 || summary.RemainingStock != 0 {
		t.Fatalf("summary want 2/0 got %+v", summary)
	}

	if err := repo.RestoreStock(promotion.ID); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	reloaded, err := repo.GetByID(prize.ID)
	if err != nil || reloaded == nil || reloaded.RemainingStock != 2 {
		t.Fatalf("restore should reset remaining to initial, got %+v err=%v", reloaded, err)
	}
}

func TestCustomerRepositoryRanking(t *testing.T) {
	db := setupLotteryRepositoryTest(t)
	repo := NewCustomerRepository(db)
	promotion := createRepoPromotion(t, db)

	base := time.Now().Add(-time.Hour)
	customers := []*models.Customer{
		{PromotionID: promotion.ID, Phone: "+39111", FirstName: "Anna"},
		{PromotionID: promotion.ID, Phone: "+39222", FirstName: "Bruno"},
		{PromotionID: promotion.ID, Phone: "+39333", FirstName: "Carla"},
	}
	for _, c := range customers {
		if err := repo.Create(c); err != nil {
			t.Fatalf("create customer failed: %v", err)
		}
	}
	play := func(c *models.Customer, times int, at time.Time) {
		for i := 0; i < times; i++ {
			if _, err := repo.IncrementPlay(c.ID, false, at); err != nil {
				t.Fatalf("increment failed: %v", err)
			}
		}
	}
	play(customers[0], 2, base.Add(2*time.Minute))
	play(customers[1], 2, base.Add(time.Minute))

	top, err := repo.TopByPlays(promotion.ID, 10)
	if err != nil {
		t.Fatalf("top by plays failed: %v", err)
	}
	if len(top) != 2 || top[0].FirstName != "Bruno" || top[1].FirstName != "Anna" {
		t.Fatalf("tie should favour the earlier player, got %+v", top)
	}

	anna, err := repo.GetByPromotionPhone(promotion.ID, "+39111")
	if err != nil || anna == nil {
		t.Fatalf("lookup by phone failed: %v", err)
	}
	ahead, err := repo.CountAhead(anna)
	if err != nil || ahead != 1 {
		t.Fatalf("one customer should rank ahead of Anna, got %d err=%v", ahead, err)
	}
	participants, err := repo.CountParticipants(promotion.ID)
	if err != nil || participants != 2 {
		t.Fatalf("participants want 2 got %d err=%v", participants, err)
	}

	items, total, err := repo.List(CustomerListFilter{PromotionID: promotion.ID, Keyword: "carl", Page: 1, PageSize: 10})
	if err != nil || total != 1 || items[0].FirstName != "Carla" {
		t.Fatalf("keyword search want Carla, total=%d err=%v", total, err)
	}
}

func TestPrizeAssignmentRedeemOnce(t *testing.T) {
	db := setupLotteryRepositoryTest(t)
	repo := NewPrizeAssignmentRepository(db)
	promotion := createRepoPromotion(t, db)
	staff := &models.StaffUser{Username: "cassa", PasswordHash: "x", Role: models.StaffRoleStaff, IsActive: true}
	if err := db.Create(staff).Error; err != nil {
		t.Fatalf("create staff failed: %v", err)
	}
	assignment := &models.PrizeAssignment{PromotionID: promotion.ID, PlayID: 1, CustomerID: 1, PrizeTypeID: 1, PrizeCode: "WIN-ABCD-1234"}
	if err := repo.Create(assignment); err != nil {
		t.Fatalf("create assignment failed: %v", err)
	}

	rows, err := repo.MarkRedeemed(assignment.ID, staff.ID, time.Now())
	if err != nil || rows != 1 {
		t.Fatalf("first redeem want 1 row got %d err=%v", rows, err)
	}
	rows, err = repo.MarkRedeemed(assignment.ID, staff.ID+1, time.Now())
	if err != nil || rows != 0 {
		t.Fatalf("second redeem must not update, got %d err=%v", rows, err)
	}

	found, err := repo.GetByCode(" win-abcd-1234 ")
	if err != nil || found == nil {
		t.Fatalf("lookup should normalize code, err=%v", err)
	}
	if !found.IsRedeemed() || found.Redeemer == nil || found.Redeemer.Username != "cassa" {
		t.Fatalf("redeemer should be preloaded, got %+v", found)
	}

	counts, err := repo.CountByPrizeType(promotion.ID)
	if err != nil || len(counts) != 1 || counts[0].Assigned != 1 || counts[0].Redeemed != 1 {
		t.Fatalf("unexpected counts %+v err=%v", counts, err)
	}
}

func TestPromotionEndExpired(t *testing.T) {
	db := setupLotteryRepositoryTest(t)
	repo := NewPromotionRepository(db)
	now := time.Now()
	expired := &models.Promotion{Name: "Vecchia", StartAt: now.Add(-48 * time.Hour), EndAt: now.Add(-time.Hour), Status: models.PromotionStatusActive}
	running := &models.Promotion{Name: "Nuova", StartAt: now.Add(-time.Hour), EndAt: now.Add(time.Hour), Status: models.PromotionStatusActive}
	for _, p := range []*models.Promotion{expired, running} {
		if err := repo.Create(p); err != nil {
			t.Fatalf("create promotion failed: %v", err)
		}
	}
	ended, err := repo.EndExpired(now)
	if err != nil || ended != 1 {
		t.Fatalf("end expired want 1 got %d err=%v", ended, err)
	}
	items, total, err := repo.List(PromotionListFilter{Keyword: "nuo", Page: 1, PageSize: 10})
	if err != nil || total != 1 || items[0].Status != models.PromotionStatusActive {
		t.Fatalf("keyword list want the running promotion, total=%d err=%v", total, err)
	}
}
