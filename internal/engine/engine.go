// Package engine 即开型抽奖的中奖判定
// 所有函数均无状态，可在任意并发环境中直接调用
package engine

import (
	"math"
	"math/rand/v2"

	"github.com/luckyscan/internal/gender"
)

// RandomSource 均匀随机数来源，返回 [0,1)
// *rand.Rand 满足该接口，测试中可注入固定序列
type RandomSource interface {
	Float64() float64
}

// Outcome 判定结果类型
type Outcome string

const (
	OutcomeExhausted  Outcome = "exhausted"   // 券码已全部消耗
	OutcomeNoEligible Outcome = "no_eligible" // 无可参与的奖品
	OutcomeLoss       Outcome = "loss"
	OutcomeWin        Outcome = "win"
)

// PrizeCandidate 参与判定的奖品快照
type PrizeCandidate struct {
	ID             uint
	InitialStock   int64
	RemainingStock int64
	Restriction    gender.Category // 空或 U 表示不限
}

// Unrestricted 是否不限人群
func (p PrizeCandidate) Unrestricted() bool {
	return !p.Restriction.IsKnown()
}

// CustomerHistory 顾客历史快照
type CustomerHistory struct {
	TotalPlays int64
	TotalWins  int64
	Category   gender.Category // 已存储的类别，未知时由分类器根据 FirstName 推断
	FirstName  string
}

// Snapshot 判定输入
type Snapshot struct {
	TotalTokens    int64
	UsedTokens     int64
	PrizesAssigned int64
	Prizes         []PrizeCandidate // 按加载顺序，决定累计概率的先后
	Customer       CustomerHistory
}

// TokensRemaining 剩余券码数
func (s Snapshot) TokensRemaining() int64 {
	return s.TotalTokens - s.UsedTokens
}

// TotalInitialStock 所有奖品的初始库存之和
func (s Snapshot) TotalInitialStock() int64 {
	var total int64
	for _, prize := range s.Prizes {
		if prize.InitialStock > 0 {
			total += prize.InitialStock
		}
	}
	return total
}

// Decision 判定结果及审计明细
type Decision struct {
	Win             bool            `json:"win"`
	PrizeTypeID     uint            `json:"prize_type_id,omitempty"`
	Outcome         Outcome         `json:"outcome"`
	Category        gender.Category `json:"category"`
	Modifiers       Modifiers       `json:"modifiers"`
	Draw            float64         `json:"draw"`
	WinMass         float64         `json:"win_mass"`
	TokensRemaining int64           `json:"tokens_remaining"`
	EligibleCount   int             `json:"eligible_count"`
}

// DetermineOutcome 判定一次参与是否中奖以及中哪个奖品
//
// 判定顺序：券码耗尽检查、资格过滤、修正系数、加权抽取。
// 每个奖品的概率为 剩余库存/剩余券码*全局系数，按加载顺序累计，
// 取第一个累计值大于随机数的奖品。累计值超过 1 时排在前面的奖品优先，
// 且不再可能落空。本函数不修改任何状态。
func DetermineOutcome(snapshot Snapshot, classifier gender.Classifier, rng RandomSource) Decision {
	category := resolveCategory(snapshot.Customer, classifier)
	decision := Decision{
		Outcome:         OutcomeLoss,
		Category:        category,
		Modifiers:       Modifiers{Fatigue: 1, Pacing: PacingNeutral, Global: 1},
		TokensRemaining: snapshot.TokensRemaining(),
	}

	if decision.TokensRemaining <= 0 {
		decision.TokensRemaining = 0
		decision.Outcome = OutcomeExhausted
		return decision
	}

	eligible := EligiblePrizes(snapshot.Prizes, category)
	decision.EligibleCount = len(eligible)
	if len(eligible) == 0 {
		decision.Outcome = OutcomeNoEligible
		return decision
	}

	decision.Modifiers = ComputeModifiers(
		snapshot.Customer.TotalPlays,
		snapshot.Customer.TotalWins,
		snapshot.UsedTokens,
		snapshot.TotalTokens,
		snapshot.PrizesAssigned,
		snapshot.TotalInitialStock(),
	)

	thresholds := make([]float64, len(eligible))
	cumulative := 0.0
	for i, prize := range eligible {
		cumulative += AdjustedProbability(prize.RemainingStock, decision.TokensRemaining, decision.Modifiers.Global)
		thresholds[i] = cumulative
	}
	decision.WinMass = cumulative

	decision.Draw = draw(rng)
	for i, threshold := range thresholds {
		if threshold > decision.Draw {
			decision.Win = true
			decision.Outcome = OutcomeWin
			decision.PrizeTypeID = eligible[i].ID
			return decision
		}
	}
	return decision
}

// AdjustedProbability 单个奖品修正后的中奖概率
func AdjustedProbability(remainingStock, tokensRemaining int64, globalModifier float64) float64 {
	if remainingStock <= 0 || tokensRemaining <= 0 || globalModifier <= 0 {
		return 0
	}
	return float64(remainingStock) / float64(tokensRemaining) * globalModifier
}

// EligiblePrizes 过滤出有库存且人群匹配的奖品，保持原有顺序
func EligiblePrizes(prizes []PrizeCandidate, category gender.Category) []PrizeCandidate {
	eligible := make([]PrizeCandidate, 0, len(prizes))
	for _, prize := range prizes {
		if prize.RemainingStock <= 0 {
			continue
		}
		if !prize.Unrestricted() && prize.Restriction != category {
			continue
		}
		eligible = append(eligible, prize)
	}
	return eligible
}

func resolveCategory(customer CustomerHistory, classifier gender.Classifier) gender.Category {
	if customer.Category.IsKnown() {
		return customer.Category
	}
	if classifier == nil {
		return gender.CategoryUnknown
	}
	category := classifier.Classify(customer.FirstName)
	if !category.IsKnown() {
		return gender.CategoryUnknown
	}
	return category
}

func draw(rng RandomSource) float64 {
	var value float64
	if rng == nil {
		value = rand.Float64()
	} else {
		value = rng.Float64()
	}
	if value < 0 || math.IsNaN(value) {
		return 0
	}
	if value >= 1 {
		return 0.9999999999999999
	}
	return value
}
