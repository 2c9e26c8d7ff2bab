package engine

import "math"

const (
	fatiguePlayThreshold   = 5
	fatigueBasePlayPenalty = 0.10
	fatiguePlayPenaltyStep = 0.02
	fatigueMaxPlayPenalty  = 0.50
	fatigueWinPenaltyStep  = 0.20
	fatigueMaxWinPenalty   = 0.60
	fatigueFloor           = 0.10
)

// 节奏系数档位
const (
	PacingThrottleHard = 0.6
	PacingThrottle     = 0.8
	PacingNeutral      = 1.0
	PacingBoost        = 1.2
	PacingBoostHard    = 1.4
)

// Modifiers 概率修正明细
type Modifiers struct {
	Fatigue float64 `json:"fatigue"`
	Pacing  float64 `json:"pacing"`
	Global  float64 `json:"global"`
}

// ComputeModifiers 计算疲劳、节奏及其乘积
func ComputeModifiers(totalPlays, totalWins, usedTokens, totalTokens, prizesAssigned, totalInitialStock int64) Modifiers {
	fatigue := FatigueFactor(totalPlays, totalWins)
	pacing := PacingFactor(usedTokens, totalTokens, prizesAssigned, totalInitialStock)
	return Modifiers{
		Fatigue: fatigue,
		Pacing:  pacing,
		Global:  fatigue * pacing,
	}
}

// FatigueFactor 根据历史参与与中奖次数计算疲劳系数，取值 [0.1, 1.0]
// 超过 5 次后首次扣 10%，此后每次再加 2%，上限 50%；
// 每次中奖扣 20%，上限 60%；两者相乘。
func FatigueFactor(totalPlays, totalWins int64) float64 {
	if totalPlays < 0 {
		totalPlays = 0
	}
	if totalWins < 0 {
		totalWins = 0
	}

	playPenalty := 0.0
	if excess := totalPlays - fatiguePlayThreshold; excess > 0 {
		playPenalty = math.Min(fatigueBasePlayPenalty+float64(excess-1)*fatiguePlayPenaltyStep, fatigueMaxPlayPenalty)
	}
	winPenalty := math.Min(float64(totalWins)*fatigueWinPenaltyStep, fatigueMaxWinPenalty)

	factor := (1 - playPenalty) * (1 - winPenalty)
	if math.IsNaN(factor) || factor < fatigueFloor {
		return fatigueFloor
	}
	if factor > 1 {
		return 1
	}
	return factor
}

// PacingFactor 比较奖品发放进度与券码消耗进度，返回离散档位
func PacingFactor(usedTokens, totalTokens, prizesAssigned, totalInitialStock int64) float64 {
	if usedTokens <= 0 || totalTokens <= 0 || totalInitialStock <= 0 {
		return PacingNeutral
	}
	if prizesAssigned < 0 {
		prizesAssigned = 0
	}

	// (assigned/stock) / (used/total)，整理成一次除法以保证边界值精确
	ratio := (float64(prizesAssigned) * float64(totalTokens)) / (float64(totalInitialStock) * float64(usedTokens))
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return PacingNeutral
	}

	switch {
	case ratio > 1.3:
		return PacingThrottleHard
	case ratio > 1.15:
		return PacingThrottle
	case ratio < 0.7:
		return PacingBoostHard
	case ratio < 0.85:
		return PacingBoost
	default:
		return PacingNeutral
	}
}
