package models

import "time"

// PrizeAssignment 中奖凭证，线下核销一次
type PrizeAssignment struct {
	ID          uint       `gorm:"primarykey" json:"id"`                                    // 主键
	PromotionID uint       `gorm:"index;not null" json:"promotion_id"`                      // 活动ID
	PlayID      uint       `gorm:"uniqueIndex;not null" json:"play_id"`                     // 抽奖记录ID
	CustomerID  uint       `gorm:"index;not null" json:"customer_id"`                       // 顾客ID
	PrizeTypeID uint       `gorm:"index;not null" json:"prize_type_id"`                     // 奖品ID
	PrizeCode   string     `gorm:"type:varchar(80);uniqueIndex;not null" json:"prize_code"` // 兑奖码
	RedeemedAt  *time.Time `gorm:"index" json:"redeemed_at"`                                // 核销时间
	RedeemedBy  *uint      `gorm:"index" json:"redeemed_by,omitempty"`                      // 核销员工ID
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`                                 // 创建时间
	PrizeType   *PrizeType `gorm:"foreignKey:PrizeTypeID" json:"prize_type,omitempty"`      // 奖品
	Customer    *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`         // 顾客
	Redeemer    *StaffUser `gorm:"foreignKey:RedeemedBy" json:"redeemer,omitempty"`         // 核销员工
}

// TableName 指定表名
func (PrizeAssignment) TableName() string {
	return "prize_assignments"
}

// IsRedeemed 是否已核销
func (a *PrizeAssignment) IsRedeemed() bool {
	return a != nil && a.RedeemedAt != nil
}
