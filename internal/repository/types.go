package repository

import "time"

// PromotionListFilter 查询活动列表的过滤条件
type PromotionListFilter struct {
	Page     int
	PageSize int
	Status   string
	Keyword  string
}

// TokenListFilter 查询券码列表的过滤条件
type TokenListFilter struct {
	Page        int
	PageSize    int
	PromotionID uint
	BatchID     uint
	Status      string
	Code        string
}

// CustomerListFilter 查询顾客列表的过滤条件
type CustomerListFilter struct {
	Page        int
	PageSize    int
	PromotionID uint
	Keyword     string
}

// PlayListFilter 查询抽奖记录的过滤条件
type PlayListFilter struct {
	Page        int
	PageSize    int
	PromotionID uint
	CustomerID  uint
	OnlyWinners bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PrizeAssignmentListFilter 查询中奖凭证的过滤条件
type PrizeAssignmentListFilter struct {
	Page        int
	PageSize    int
	PromotionID uint
	PrizeTypeID uint
	Code        string
	Redeemed    *bool
}
