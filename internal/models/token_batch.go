package models

import "time"

// TokenBatch 券码生成批次
type TokenBatch struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                  // 主键
	BatchNo      string    `gorm:"type:varchar(48);uniqueIndex;not null" json:"batch_no"` // 批次号
	PromotionID  uint      `gorm:"index;not null" json:"promotion_id"`                    // 活动ID
	Prefix       string    `gorm:"type:varchar(16);not null;default:''" json:"prefix"`    // 券码前缀
	Quantity     int       `gorm:"not null;default:0" json:"quantity"`                    // 请求数量
	CreatedCount int       `gorm:"not null;default:0" json:"created_count"`               // 实际生成数量
	CreatedBy    *uint     `gorm:"index" json:"created_by,omitempty"`                     // 创建人ID
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                               // 创建时间
}

// TableName 指定表名
func (TokenBatch) TableName() string {
	return "token_batches"
}
