package models

import "time"

// PrizeType 奖品库存项
type PrizeType struct {
	ID                uint      `gorm:"primarykey" json:"id"`                                   // 主键
	PromotionID       uint      `gorm:"index;not null" json:"promotion_id"`                     // 活动ID
	Name              string    `gorm:"type:varchar(120);not null" json:"name"`                 // 奖品名称
	Description       string    `gorm:"type:text" json:"description"`                           // 奖品说明
	InitialStock      int64     `gorm:"not null;default:0" json:"initial_stock"`                // 初始库存（创建后不可变）
	RemainingStock    int64     `gorm:"not null;default:0" json:"remaining_stock"`              // 剩余库存
	TargetProbability *float64  `json:"target_probability,omitempty"`                           // 目标中奖概率（仅展示）
	Restriction       string    `gorm:"type:varchar(8);not null;default:''" json:"restriction"` // 人群限制（F/M，空为不限）
	SortOrder         int       `gorm:"index;not null;default:0" json:"sort_order"`             // 判定顺序
	CreatedAt         time.Time `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt         time.Time `gorm:"index" json:"updated_at"`                                // 更新时间
}

// TableName 指定表名
func (PrizeType) TableName() string {
	return "prize_types"
}
