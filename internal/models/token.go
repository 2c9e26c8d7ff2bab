package models

import "time"

const (
	TokenStatusAvailable = "available"
	TokenStatusUsed      = "used"
)

// Token 一次性抽奖券码
type Token struct {
	ID          uint       `gorm:"primarykey" json:"id"`                                              // 主键
	PromotionID uint       `gorm:"index;not null" json:"promotion_id"`                                // 活动ID
	BatchID     *uint      `gorm:"index" json:"batch_id,omitempty"`                                   // 批次ID
	Code        string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`                 // 券码
	Status      string     `gorm:"type:varchar(16);index;not null;default:'available'" json:"status"` // 状态
	UsedAt      *time.Time `gorm:"index" json:"used_at"`                                              // 使用时间
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`                                           // 创建时间
	Promotion   *Promotion `gorm:"foreignKey:PromotionID" json:"promotion,omitempty"`                 // 所属活动
}

// TableName 指定表名
func (Token) TableName() string {
	return "tokens"
}
