package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/luckyscan/internal/engine"
	"github.com/luckyscan/internal/gender"
	"github.com/luckyscan/internal/models"
	"github.com/luckyscan/internal/repository"

	"gorm.io/gorm"
)

func alwaysWin(prizeID uint) decideFunc {
	return func(snapshot engine.Snapshot, classifier gender.Classifier, rng engine.RandomSource) engine.Decision {
		return engine.Decision{
			Win:             true,
			PrizeTypeID:     prizeID,
			Outcome:         engine.OutcomeWin,
			Category:        gender.CategoryUnknown,
			Modifiers:       engine.Modifiers{Fatigue: 1, Pacing: 1, Global: 1},
			TokensRemaining: snapshot.TokensRemaining(),
		}
	}
}

func TestPlayWinCreatesAssignmentAndConsumesToken(t *testing.T) {
	f := setupLotteryServiceTest(t)
	prize := f.createPrize(t, "Borsa", 3, "", 1)
	f.createTokens(t, "ABC123", "ABC124")
	customer := f.createCustomer(t, "Giulia", "Rossi", "+393331112233", "F")

	svc := f.newPlayService(t)
	svc.SetRandomSourceFactory(func() engine.RandomSource { return engine.NewSequenceSource(0) })

	result, err := svc.Play(context.Background(), PlayInput{TokenCode: "abc123", PromotionID: f.promotion.ID, CustomerID: customer.ID})
	if err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if !result.IsWinner || result.Assignment == nil {
		t.Fatalf("expected win with assignment, got %+v", result)
	}
	if !strings.HasPrefix(result.Assignment.PrizeCode, "WIN-ABC123-") {
		t.Fatalf("unexpected prize code: %s", result.Assignment.PrizeCode)
	}
	if result.Play.Fatigue != 1 {
		t.Fatalf("first play fatigue want 1 got %v", result.Play.Fatigue)
	}
	if got := f.reloadPrize(t, prize.ID).RemainingStock; got != 2 {
		t.Fatalf("remaining stock want 2 got %d", got)
	}

	token, err := f.tokenRepo.GetByCode("ABC123")
	if err != nil || token == nil {
		t.Fatalf("reload token failed: %v", err)
	}
	if token.Status != models.TokenStatusUsed || token.UsedAt == nil {
		t.Fatalf("token should be used, got %+v", token)
	}
	reloaded, err := f.customerRepo.GetByID(customer.ID)
	if err != nil {
		t.Fatalf("reload customer failed: %v", err)
	}
	if reloaded.TotalPlays != 1 || reloaded.TotalWins != 1 || reloaded.LastPlayAt == nil {
		t.Fatalf("customer counters not updated: %+v", reloaded)
	}
}

func TestPlayLossWhenDrawAboveWinMass(t *testing.T) {
	f := setupLotteryServiceTest(t)
	prize := f.createPrize(t, "Portachiavi", 1, "", 1)
	tokens := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		tokens = append(tokens, "LOSS0"+string(rune('0'+i)))
	}
	f.createTokens(t, tokens...)
	customer := f.createCustomer(t, "Marco", "Bianchi", "+393331112244", "M")

	svc := f.newPlayService(t)
	svc.SetRandomSourceFactory(func() engine.RandomSource { return engine.NewSequenceSource(0.99) })

	result, err := svc.Play(context.Background(), PlayInput{TokenCode: "LOSS00", CustomerID: customer.ID})
	if err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if result.IsWinner || result.Assignment != nil {
		t.Fatalf("expected loss, got %+v", result)
	}
	if result.Play.Outcome != string(engine.OutcomeLoss) {
		t.Fatalf("outcome want loss got %s", result.Play.Outcome)
	}
	if got := f.reloadPrize(t, prize.ID).RemainingStock; got != 1 {
		t.Fatalf("stock should be untouched, got %d", got)
	}
	if n := f.count(t, &models.Play{}, "promotion_id = ?", f.promotion.ID); n != 1 {
		t.Fatalf("losing play must be recorded, got %d", n)
	}
}

func TestPlaySingleUseToken(t *testing.T) {
	f := setupLotteryServiceTest(t)
	f.createPrize(t, "Borsa", 5, "", 1)
	f.createTokens(t, "ONCE01")
	customer := f.createCustomer(t, "Anna", "Verdi", "+393331112255", "F")

	svc := f.newPlayService(t)
	if _, err := svc.Play(context.Background(), PlayInput{TokenCode: "ONCE01", CustomerID: customer.ID}); err != nil {
		t.Fatalf("first play failed: %v", err)
	}
	_, err := svc.Play(context.Background(), PlayInput{TokenCode: "ONCE01", CustomerID: customer.ID})
	if !errors.Is(err, ErrTokenUsed) {
		t.Fatalf("replay should be TOKEN_USED, got %v", err)
	}
	if reason := PlayRejectReasonOf(err); reason != models.PlayRejectTokenUsed {
		t.Fatalf("reason want TOKEN_USED got %q", reason)
	}
	if n := f.count(t, &models.Play{}, ""); n != 1 {
		t.Fatalf("replay must not create play, got %d", n)
	}
	reloaded, _ := f.customerRepo.GetByID(customer.ID)
	if reloaded.TotalPlays != 1 {
		t.Fatalf("replay must not increment plays, got %d", reloaded.TotalPlays)
	}
}

func TestPlayRejectReasons(t *testing.T) {
	f := setupLotteryServiceTest(t)
	f.createPrize(t, "Borsa", 5, "", 1)
	f.createTokens(t, "REJ001", "REJ002", "REJ003")
	customer := f.createCustomer(t, "Luca", "Neri", "+393331112266", "M")

	other := &models.Promotion{
		Name:    "Inverno",
		StartAt: time.Now().Add(-time.Hour),
		EndAt:   time.Now().Add(time.Hour),
		Status:  models.PromotionStatusActive,
	}
	if err := f.db.Create(other).Error; err != nil {
		t.Fatalf("create other promotion failed: %v", err)
	}
	foreign := &models.Customer{PromotionID: other.ID, Phone: "+393339999999", FirstName: "Sara", LastName: "Blu"}
	if err := f.db.Create(foreign).Error; err != nil {
		t.Fatalf("create foreign customer failed: %v", err)
	}

	svc := f.newPlayService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		input  PlayInput
		reason models.PlayRejectReason
		target error
	}{
		{name: "unknown token", input: PlayInput{TokenCode: "NOPE99", CustomerID: customer.ID}, reason: models.PlayRejectTokenNotFound, target: ErrTokenNotFound},
		{name: "blank token", input: PlayInput{TokenCode: "   ", CustomerID: customer.ID}, reason: models.PlayRejectTokenNotFound, target: ErrTokenNotFound},
		{name: "wrong promotion", input: PlayInput{TokenCode: "REJ001", PromotionID: other.ID, CustomerID: customer.ID}, reason: models.PlayRejectTokenMismatch, target: ErrTokenMismatch},
		{name: "unknown customer", input: PlayInput{TokenCode: "REJ001", CustomerID: 9999}, reason: models.PlayRejectCustomerNotFound, target: ErrCustomerNotFound},
		{name: "customer of other promotion", input: PlayInput{TokenCode: "REJ001", CustomerID: foreign.ID}, reason: models.PlayRejectCustomerNotFound, target: ErrCustomerNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Play(ctx, tc.input)
			if !IsPlayRejected(err) {
				t.Fatalf("expected rejection, got %v", err)
			}
			if got := PlayRejectReasonOf(err); got != tc.reason {
				t.Fatalf("reason want %s got %s", tc.reason, got)
			}
			if !errors.Is(err, tc.target) {
				t.Fatalf("error should unwrap to %v, got %v", tc.target, err)
			}
		})
	}

	if err := f.db.Model(&models.Promotion{}).Where("id = ?", f.promotion.ID).Update("status", models.PromotionStatusPaused).Error; err != nil {
		t.Fatalf("pause promotion failed: %v", err)
	}
	_, err := svc.Play(ctx, PlayInput{TokenCode: "REJ002", CustomerID: customer.ID})
	if got := PlayRejectReasonOf(err); got != models.PlayRejectPromotionInactive {
		t.Fatalf("paused promotion want PROMOTION_INACTIVE got %s (%v)", got, err)
	}

	if n := f.count(t, &models.Play{}, ""); n != 0 {
		t.Fatalf("rejected plays must not be recorded, got %d", n)
	}
	if n := f.count(t, &models.Token{}, "status = ?", models.TokenStatusUsed); n != 0 {
		t.Fatalf("rejected plays must not consume tokens, got %d", n)
	}
}

func TestPlayEndedPromotionRejected(t *testing.T) {
	f := setupLotteryServiceTest(t)
	f.createTokens(t, "LATE01")
	customer := f.createCustomer(t, "Paolo", "Gialli", "+393331112277", "M")

	svc := f.newPlayService(t)
	svc.now = func() time.Time { return f.promotion.EndAt.Add(time.Minute) }

	_, err := svc.Play(context.Background(), PlayInput{TokenCode: "LATE01", CustomerID: customer.ID})
	if !errors.Is(err, ErrPromotionInactive) {
		t.Fatalf("want PROMOTION_INACTIVE got %v", err)
	}
}

func TestPlayRestrictedPrizeSkipsOtherCategory(t *testing.T) {
	f := setupLotteryServiceTest(t)
	f.createPrize(t, "Rossetto", 10, "F", 1)
	f.createTokens(t, "CAT001")
	customer := f.createCustomer(t, "Marco", "Rossi", "+393331112288", "M")

	svc := f.newPlayService(t)
	svc.SetRandomSourceFactory(func() engine.RandomSource { return engine.NewSequenceSource(0) })

	result, err := svc.Play(context.Background(), PlayInput{TokenCode: "CAT001", CustomerID: customer.ID})
	if err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if result.IsWinner {
		t.Fatalf("male customer must not win female-only prize")
	}
	if result.Play.Outcome != string(engine.OutcomeNoEligible) {
		t.Fatalf("outcome want no_eligible got %s", result.Play.Outcome)
	}
}

func TestPlayDowngradesWhenStockGone(t *testing.T) {
	f := setupLotteryServiceTest(t)
	prize := f.createPrize(t, "Borsa", 1, "", 1)
	f.createTokens(t, "DWN001", "DWN002")
	customer := f.createCustomer(t, "Elena", "Conti", "+393331112299", "F")

	svc := f.newPlayService(t)
	svc.decide = alwaysWin(prize.ID)

	first, err := svc.Play(context.Background(), PlayInput{TokenCode: "DWN001", CustomerID: customer.ID})
	if err != nil || !first.IsWinner {
		t.Fatalf("first play should win, result=%+v err=%v", first, err)
	}
	second, err := svc.Play(context.Background(), PlayInput{TokenCode: "DWN002", CustomerID: customer.ID})
	if err != nil {
		t.Fatalf("second play failed: %v", err)
	}
	if second.IsWinner || !second.Downgraded {
		t.Fatalf("second play should be downgraded to loss, got %+v", second)
	}
	if second.Play.Outcome != string(engine.OutcomeLoss) || second.Play.PrizeTypeID != nil {
		t.Fatalf("downgraded play must be a plain loss, got %+v", second.Play)
	}
	if got := f.reloadPrize(t, prize.ID).RemainingStock; got != 0 {
		t.Fatalf("stock must never go negative, got %d", got)
	}
	token, _ := f.tokenRepo.GetByCode("DWN002")
	if token.Status != models.TokenStatusUsed {
		t.Fatalf("downgraded play still consumes the token")
	}
}

func TestPlayConcurrentLastUnit(t *testing.T) {
	f := setupLotteryServiceTest(t)
	prize := f.createPrize(t, "Ultima Borsa", 1, "", 1)
	f.createTokens(t, "RACE01", "RACE02")
	first := f.createCustomer(t, "Giulia", "Rossi", "+393330000001", "F")
	second := f.createCustomer(t, "Marco", "Bianchi", "+393330000002", "M")

	svc := f.newPlayService(t)
	svc.decide = alwaysWin(prize.ID)

	inputs := []PlayInput{
		{TokenCode: "RACE01", CustomerID: first.ID},
		{TokenCode: "RACE02", CustomerID: second.ID},
	}
	results := make([]*PlayResult, len(inputs))
	errs := make([]error, len(inputs))
	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func(i int, input PlayInput) {
			defer wg.Done()
			results[i], errs[i] = svc.Play(context.Background(), input)
		}(i, input)
	}
	wg.Wait()

	winners := 0
	for i := range inputs {
		if errs[i] != nil {
			t.Fatalf("play %d failed: %v", i, errs[i])
		}
		if results[i].IsWinner {
			winners++
		}
	}
	if winners != 1 {
		t.Fatalf("exactly one play must win, got %d", winners)
	}
	if n := f.count(t, &models.PrizeAssignment{}, ""); n != 1 {
		t.Fatalf("assignments want 1 got %d", n)
	}
	if n := f.count(t, &models.Play{}, "is_winner = ?", false); n != 1 {
		t.Fatalf("losing plays want 1 got %d", n)
	}
	if got := f.reloadPrize(t, prize.ID).RemainingStock; got != 0 {
		t.Fatalf("remaining stock want 0 got %d", got)
	}
}

func TestPlayConservesStock(t *testing.T) {
	f := setupLotteryServiceTest(t)
	prizeA := f.createPrize(t, "Borsa", 3, "", 1)
	prizeB := f.createPrize(t, "Foulard", 2, "F", 2)
	codes := []string{"CON001", "CON002", "CON003", "CON004", "CON005", "CON006", "CON007", "CON008"}
	f.createTokens(t, codes...)
	customer := f.createCustomer(t, "Chiara", "Ferri", "+393330000010", "F")

	svc := f.newPlayService(t)
	svc.SetRandomSourceFactory(func() engine.RandomSource { return engine.NewSequenceSource(0, 0.4, 0.9, 0.1) })

	for _, code := range codes {
		if _, err := svc.Play(context.Background(), PlayInput{TokenCode: code, CustomerID: customer.ID}); err != nil {
			t.Fatalf("play %s failed: %v", code, err)
		}
	}

	for _, prize := range []*models.PrizeType{prizeA, prizeB} {
		reloaded := f.reloadPrize(t, prize.ID)
		assigned := f.count(t, &models.PrizeAssignment{}, "prize_type_id = ?", prize.ID)
		if reloaded.RemainingStock+assigned != reloaded.InitialStock {
			t.Fatalf("prize %s not conserved: remaining=%d assigned=%d initial=%d",
				prize.Name, reloaded.RemainingStock, assigned, reloaded.InitialStock)
		}
		if reloaded.RemainingStock < 0 {
			t.Fatalf("prize %s stock negative", prize.Name)
		}
	}
	if n := f.count(t, &models.Play{}, ""); n != int64(len(codes)) {
		t.Fatalf("plays want %d got %d", len(codes), n)
	}
	winners := f.count(t, &models.Play{}, "is_winner = ?", true)
	assignments := f.count(t, &models.PrizeAssignment{}, "")
	if winners != assignments {
		t.Fatalf("every winning play needs exactly one assignment: winners=%d assignments=%d", winners, assignments)
	}
}

func TestPlayExhaustedWhenNoTokensLeft(t *testing.T) {
	f := setupLotteryServiceTest(t)
	prize := f.createPrize(t, "Borsa", 2, "", 1)
	f.createTokens(t, "EXH001")
	customer := f.createCustomer(t, "Sofia", "Gallo", "+393330000020", "F")

	// 模拟已用券码数超过总数的快照
	svc := f.newPlayService(t)
	svc.decide = func(snapshot engine.Snapshot, classifier gender.Classifier, rng engine.RandomSource) engine.Decision {
		snapshot.UsedTokens = snapshot.TotalTokens
		return engine.DetermineOutcome(snapshot, classifier, rng)
	}
	result, err := svc.Play(context.Background(), PlayInput{TokenCode: "EXH001", CustomerID: customer.ID})
	if err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if result.IsWinner || result.Play.Outcome != string(engine.OutcomeExhausted) {
		t.Fatalf("want exhausted loss, got %+v", result.Play)
	}
	if got := f.reloadPrize(t, prize.ID).RemainingStock; got != 2 {
		t.Fatalf("stock untouched, got %d", got)
	}
}

// failingCustomerRepo 在累计次数时返回错误
type failingCustomerRepo struct {
	repository.CustomerRepository
}

func (r failingCustomerRepo) WithTx(tx *gorm.DB) repository.CustomerRepository {
	return failingCustomerRepo{CustomerRepository: r.CustomerRepository.WithTx(tx)}
}

func (r failingCustomerRepo) IncrementPlay(id uint, won bool, playedAt time.Time) (int64, error) {
	return 0, errors.New("disk I/O error")
}

func TestPlayStorageFailureRollsBackEverything(t *testing.T) {
	f := setupLotteryServiceTest(t)
	prize := f.createPrize(t, "Borsa", 1, "", 1)
	f.createTokens(t, "ROLL01")
	customer := f.createCustomer(t, "Elena", "Conti", "+393330000030", "F")

	svc := f.newPlayService(t)
	svc.customerRepo = failingCustomerRepo{CustomerRepository: f.customerRepo}
	svc.decide = alwaysWin(prize.ID)

	result, err := svc.Play(context.Background(), PlayInput{TokenCode: "ROLL01", PromotionID: f.promotion.ID, CustomerID: customer.ID})
	if !errors.Is(err, ErrPlayFailed) {
		t.Fatalf("storage failure want ErrPlayFailed got %v", err)
	}
	if result != nil {
		t.Fatalf("failed play must not return a result, got %+v", result)
	}
	if reason := PlayRejectReasonOf(err); reason != models.PlayRejectNone {
		t.Fatalf("storage failure is not a rejection, got %s", reason)
	}

	token, err := f.tokenRepo.GetByCode("ROLL01")
	if err != nil || token == nil {
		t.Fatalf("reload token failed: %v", err)
	}
	if token.Status != models.TokenStatusAvailable || token.UsedAt != nil {
		t.Fatalf("token must stay available after rollback, got %+v", token)
	}
	if got := f.reloadPrize(t, prize.ID).RemainingStock; got != 1 {
		t.Fatalf("stock must be restored by rollback, got %d", got)
	}
	if n := f.count(t, &models.Play{}, ""); n != 0 {
		t.Fatalf("no play may survive rollback, got %d", n)
	}
	if n := f.count(t, &models.PrizeAssignment{}, ""); n != 0 {
		t.Fatalf("no assignment may survive rollback, got %d", n)
	}
	reloaded, err := f.customerRepo.GetByID(customer.ID)
	if err != nil || reloaded.TotalPlays != 0 || reloaded.TotalWins != 0 {
		t.Fatalf("customer counters must be untouched, got %+v err=%v", reloaded, err)
	}
}

func TestPlaySnapshotUsesPlannedTokensWhenLarger(t *testing.T) {
	f := setupLotteryServiceTest(t)
	prize := f.createPrize(t, "Buono", 2, "", 1)
	f.createTokens(t, "PLAN01", "PLAN02")
	customer := f.createCustomer(t, "Paolo", "Ricci", "+393330000031", "M")

	var seen []engine.Snapshot
	svc := f.newPlayService(t)
	svc.decide = func(snapshot engine.Snapshot, classifier gender.Classifier, rng engine.RandomSource) engine.Decision {
		seen = append(seen, snapshot)
		return engine.Decision{Outcome: engine.OutcomeLoss, TokensRemaining: snapshot.TokensRemaining()}
	}

	// 计划发行量小于已生成数量时，以已生成数量为准
	if _, err := svc.Play(context.Background(), PlayInput{TokenCode: "PLAN01", PromotionID: f.promotion.ID, CustomerID: customer.ID}); err != nil {
		t.Fatalf("first play failed: %v", err)
	}
	if err := f.db.Model(&models.Promotion{}).Where("id = ?", f.promotion.ID).Update("planned_tokens", 100).Error; err != nil {
		t.Fatalf("update planned tokens failed: %v", err)
	}
	if _, err := svc.Play(context.Background(), PlayInput{TokenCode: "PLAN02", PromotionID: f.promotion.ID, CustomerID: customer.ID}); err != nil {
		t.Fatalf("second play failed: %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("want 2 snapshots got %d", len(seen))
	}
	if seen[0].TotalTokens != 2 || seen[0].TokensRemaining() != 2 {
		t.Fatalf("without a plan total should be the generated count, got %+v", seen[0])
	}
	// 100 张计划发行、已用 1 张：剩余 99，而不是按已生成数量计算的 1
	if seen[1].TotalTokens != 100 || seen[1].UsedTokens != 1 || seen[1].TokensRemaining() != 99 {
		t.Fatalf("planned tokens should drive the total, got %+v", seen[1])
	}
	if got := engine.AdjustedProbability(prize.RemainingStock, seen[1].TokensRemaining(), 1); got != 2.0/99.0 {
		t.Fatalf("probability want 2/99 got %v", got)
	}
}
